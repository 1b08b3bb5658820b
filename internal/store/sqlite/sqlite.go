package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/store"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

const busyTimeoutPragma = "_pragma=busy_timeout(5000)"

// Open opens the database at path and brings its schema up to date.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, err
	}
	if err := Migrate(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// dsn makes writers wait on a locked database instead of failing with
// SQLITE_BUSY. A caller-supplied busy_timeout wins.
func dsn(path string) string {
	if strings.Contains(path, "busy_timeout") {
		return path
	}
	if strings.Contains(path, "?") {
		return path + "&" + busyTimeoutPragma
	}
	return path + "?" + busyTimeoutPragma
}

// New wraps an already migrated handle.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Migrate applies every pending migration under migrations/.
func Migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return err
	}
	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

func (s *Store) CreateUser(ctx context.Context, user *model.User) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO users (name, email, username, password, created_at)
VALUES (?, ?, ?, ?, ?)
`, user.Name, user.Email, user.Username, user.PasswordHash, user.CreatedAt.Unix())
	if err != nil {
		if dup := duplicateUserErr(err); dup != nil {
			return 0, dup
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (model.User, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, name, email, username, password, created_at
FROM users
WHERE username = ?
`, username)
	var u model.User
	var created int64
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Username, &u.PasswordHash, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, store.ErrNotFound
		}
		return model.User{}, err
	}
	u.CreatedAt = time.Unix(created, 0)
	return u, nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

func (s *Store) CreateArticle(ctx context.Context, article *model.Article) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
INSERT INTO articles (title, author, content, created_at)
VALUES (?, ?, ?, ?)
`, article.Title, article.Author, article.Content, article.CreatedAt.Unix())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetArticle(ctx context.Context, id int64) (model.Article, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT id, title, author, content, created_at
FROM articles
WHERE id = ?
`, id)
	return scanArticle(row)
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
WHERE author = ?
ORDER BY id ASC
`, author)
}

func (s *Store) SearchArticles(ctx context.Context, keyword string) ([]model.Article, error) {
	return s.queryArticles(ctx, `
SELECT id, title, author, content, created_at
FROM articles
WHERE title LIKE ? ESCAPE '\'
ORDER BY id ASC
`, store.LikePattern(keyword))
}

func (s *Store) UpdateArticle(ctx context.Context, id int64, author, title, content string) error {
	res, err := s.db.ExecContext(ctx, `
UPDATE articles SET title = ?, content = ? WHERE id = ? AND author = ?
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
	res, err := s.db.ExecContext(ctx, `DELETE FROM articles WHERE id = ? AND author = ?`, id, author)
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
	defer rows.Close()

	articles := []model.Article{}
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func scanArticle(scanner interface{ Scan(dest ...any) error }) (model.Article, error) {
	var a model.Article
	var created int64
	if err := scanner.Scan(&a.ID, &a.Title, &a.Author, &a.Content, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Article{}, store.ErrNotFound
		}
		return model.Article{}, err
	}
	a.CreatedAt = time.Unix(created, 0)
	return a, nil
}

func duplicateUserErr(err error) error {
	msg := err.Error()
	if !strings.Contains(msg, "UNIQUE constraint failed") {
		return nil
	}
	switch {
	case strings.Contains(msg, "users.username"):
		return store.ErrDuplicateUsername
	case strings.Contains(msg, "users.email"):
		return store.ErrDuplicateEmail
	}
	return nil
}
