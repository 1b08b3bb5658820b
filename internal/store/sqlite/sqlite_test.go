package sqlite

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_").Replace(t.Name())
	st, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestOpenSetsBusyTimeout(t *testing.T) {
	st := newTestStore(t)

	var ms int
	if err := st.db.QueryRow("PRAGMA busy_timeout").Scan(&ms); err != nil {
		t.Fatalf("read pragma: %v", err)
	}
	if ms != 5000 {
		t.Fatalf("busy_timeout = %d, want 5000", ms)
	}
}

func TestDSN(t *testing.T) {
	cases := map[string]string{
		"myblog.db":                     "myblog.db?_pragma=busy_timeout(5000)",
		"file:x?mode=memory":            "file:x?mode=memory&_pragma=busy_timeout(5000)",
		"a.db?_pragma=busy_timeout(10)": "a.db?_pragma=busy_timeout(10)",
	}
	for in, want := range cases {
		if got := dsn(in); got != want {
			t.Errorf("dsn(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestUserLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	user := model.User{Name: "Ada Lovelace", Username: "adalove", Email: "ada@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	id, err := st.CreateUser(ctx, &user)
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	if id == 0 {
		t.Fatalf("expected user id")
	}

	got, err := st.GetUserByUsername(ctx, "adalove")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Email != user.Email || got.PasswordHash != "h" {
		t.Fatalf("unexpected user: %+v", got)
	}

	if _, err := st.GetUserByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if n, err := st.CountUsers(ctx); err != nil || n != 1 {
		t.Fatalf("count users = %d, %v", n, err)
	}
}

func TestDuplicateUser(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	first := model.User{Name: "Ada Lovelace", Username: "adalove", Email: "ada@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	if _, err := st.CreateUser(ctx, &first); err != nil {
		t.Fatalf("create user: %v", err)
	}

	sameName := first
	sameName.Email = "other@example.com"
	if _, err := st.CreateUser(ctx, &sameName); err != store.ErrDuplicateUsername {
		t.Fatalf("expected ErrDuplicateUsername, got %v", err)
	}

	sameEmail := first
	sameEmail.Username = "adalove2"
	if _, err := st.CreateUser(ctx, &sameEmail); err != store.ErrDuplicateEmail {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestArticleLifecycle(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	article := model.Article{Title: "First post", Author: "adalove", Content: "Hello, world and more", CreatedAt: time.Now()}
	id, err := st.CreateArticle(ctx, &article)
	if err != nil {
		t.Fatalf("create article: %v", err)
	}

	got, err := st.GetArticle(ctx, id)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if got.Title != article.Title || got.Author != "adalove" {
		t.Fatalf("unexpected article: %+v", got)
	}

	if err := st.UpdateArticle(ctx, id, "mallory", "Hijacked", "nope nope nope"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign author, got %v", err)
	}
	if err := st.UpdateArticle(ctx, id, "adalove", "First post, edited", "Hello again, world"); err != nil {
		t.Fatalf("update article: %v", err)
	}
	got, _ = st.GetArticle(ctx, id)
	if got.Title != "First post, edited" || got.Author != "adalove" {
		t.Fatalf("unexpected article after update: %+v", got)
	}

	mine, err := st.ListArticlesByAuthor(ctx, "adalove")
	if err != nil || len(mine) != 1 {
		t.Fatalf("list by author = %d, %v", len(mine), err)
	}

	if err := st.DeleteArticle(ctx, id, "mallory"); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
	if err := st.DeleteArticle(ctx, id, "adalove"); err != nil {
		t.Fatalf("delete article: %v", err)
	}
	if _, err := st.GetArticle(ctx, id); err != store.ErrNotFound {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}

	all, err := st.ListArticles(ctx)
	if err != nil {
		t.Fatalf("list articles: %v", err)
	}
	if all == nil || len(all) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", all)
	}
}

func TestSearchArticles(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()

	for _, title := range []string{"Learning Go", "Cooking pasta", "100% cotton"} {
		a := model.Article{Title: title, Author: "adalove", Content: "some content here", CreatedAt: time.Now()}
		if _, err := st.CreateArticle(ctx, &a); err != nil {
			t.Fatalf("create article: %v", err)
		}
	}

	got, err := st.SearchArticles(ctx, "pasta")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Title != "Cooking pasta" {
		t.Fatalf("unexpected search result: %+v", got)
	}

	got, _ = st.SearchArticles(ctx, "0%")
	if len(got) != 1 || got[0].Title != "100% cotton" {
		t.Fatalf("expected literal percent match, got %+v", got)
	}

	got, _ = st.SearchArticles(ctx, "' OR 1=1 --")
	if len(got) != 0 {
		t.Fatalf("expected no match for injection attempt, got %+v", got)
	}

	got, _ = st.SearchArticles(ctx, "")
	if len(got) != 3 {
		t.Fatalf("expected empty keyword to match all, got %d", len(got))
	}
}
