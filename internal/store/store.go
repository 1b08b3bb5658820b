package store

import (
	"context"
	"errors"

	"github.com/alphabot-ai/myblog/internal/model"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("duplicate username")
	ErrDuplicateEmail    = errors.New("duplicate email")
)

type Store interface {
	UserStore
	ArticleStore
	Ping(ctx context.Context) error
	Close() error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) (int64, error)
	GetUserByUsername(ctx context.Context, username string) (model.User, error)
	CountUsers(ctx context.Context) (int64, error)
}

// ArticleStore mutations that take an author only touch rows written by that
// author; a zero-row result is reported as ErrNotFound.
type ArticleStore interface {
	CreateArticle(ctx context.Context, article *model.Article) (int64, error)
	GetArticle(ctx context.Context, id int64) (model.Article, error)
	ListArticles(ctx context.Context) ([]model.Article, error)
	ListArticlesByAuthor(ctx context.Context, author string) ([]model.Article, error)
	SearchArticles(ctx context.Context, keyword string) ([]model.Article, error)
	UpdateArticle(ctx context.Context, id int64, author, title, content string) error
	DeleteArticle(ctx context.Context, id int64, author string) error
}

// LikePattern turns a keyword into a substring pattern for `LIKE ? ESCAPE '\'`
// so that wildcard characters in user input match literally.
func LikePattern(keyword string) string {
	buf := make([]byte, 0, len(keyword)+2)
	buf = append(buf, '%')
	for i := 0; i < len(keyword); i++ {
		switch c := keyword[i]; c {
		case '%', '_', '\\':
			buf = append(buf, '\\', c)
		default:
			buf = append(buf, c)
		}
	}
	buf = append(buf, '%')
	return string(buf)
}
