// Package postgres implements store.Store on PostgreSQL through the pgx
// database/sql driver.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/store"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

const uniqueViolation = "23505"

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := Migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO users (name, email, username, password, created_at)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`, user.Name, user.Email, user.Username, user.PasswordHash, user.CreatedAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			switch pgErr.ConstraintName {
			case "users_username_key":
				return 0, store.ErrDuplicateUsername
			case "users_email_key":
				return 0, store.ErrDuplicateEmail
			}
		}
		return 0, err
	}
	return id, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	var u model.User
	err := s.db.QueryRowContext(ctx, `
SELECT id, name, email, username, password, created_at
FROM users
WHERE username = $1
`, username).Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *Store) CreateArticle(ctx context.Context, article *model.Article) (int64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
INSERT INTO articles (title, author, content, created_at)
VALUES ($1, $2, $3, $4)
RETURNING id
`, article.Title, article.Author, article.Content, article.CreatedAt).Scan(&id)
	return id, err
}

func (s *Store) GetArticle(ctx context.Context, id int64) (model.Article, error) {
	var a model.Article
	err := s.db.QueryRowContext(ctx, `
SELECT id, title, author, content, created_at
FROM articles
WHERE id = $1
`, id).Scan(&a.ID, &a.Title, &a.Author, &a.Content, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, store.ErrNotFound
		}
		return model.Article{}, err
	}
	return a, nil
}

func (s *Store) ListArticles(ctx context.Context) ([]model.Article, error) {
	return s.queryArticles(ctx, `
SELECT id, title, author, content, created_at
FROM articles
ORDER BY id ASC
`)
}

func (s *Store) ListArticlesByAuthor(ctx context.Context, author string) ([]model.Article, error) {
	return s.queryArticles(ctx, `
SELECT id, title, author, content, created_at
FROM articles
WHERE author = $1
ORDER BY id ASC
`, author)
}

func (s *Store) SearchArticles(ctx context.Context, keyword string) ([]model.Article, error) {
	return s.queryArticles(ctx, `
SELECT id, title, author, content, created_at
FROM articles
WHERE title LIKE $1 ESCAPE '\'
ORDER BY id ASC
`, store.LikePattern(keyword))
}

func (s *Store) UpdateArticle(ctx context.Context, id int64, author, title, content string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE articles SET title = $1, content = $2 WHERE id = $3 AND author = $4
`, title, content, id, author)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteArticle(ctx context.Context, id int64, author string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = $1 AND author = $2`, id, author)
	if err != nil {
		return err
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) queryArticles(ctx context.Context, query string, args ...any) ([]model.Article, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	articles := []model.Article{}
	for rows.Next() {
		var a model.Article
		if err := rows.Scan(&a.ID, &a.Title, &a.Author, &a.Content, &a.CreatedAt); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}
