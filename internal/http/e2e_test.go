package httpapp_test

import (
	"context"
	"errors"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/alphabot-ai/myblog/internal/article"
	"github.com/alphabot-ai/myblog/internal/auth"
	"github.com/alphabot-ai/myblog/internal/client"
	"github.com/alphabot-ai/myblog/internal/config"
	httpapp "github.com/alphabot-ai/myblog/internal/http"
	"github.com/alphabot-ai/myblog/internal/password"
	"github.com/alphabot-ai/myblog/internal/rate"
	"github.com/alphabot-ai/myblog/internal/session"
	"github.com/alphabot-ai/myblog/internal/store/sqlite"
)

func TestEndToEndServer(t *testing.T) {
	st, err := sqlite.Open("file:e2e_test?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer st.Close()

	cfg := config.Config{
		Addr:           ":0",
		SessionSecret:  "e2e-secret",
		SessionTTL:     time.Hour,
		HashIterations: 1000,
		RateLimits:     config.RateLimits{LoginPerMinute: 1000, RegisterPerMinute: 1000},
	}
	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	server, err := httpapp.NewServer(httpapp.Deps{
		Store:    st,
		Auth:     auth.NewService(st, password.NewHasher(cfg.HashIterations)),
		Articles: article.NewService(st),
		Sessions: sessions,
		Limiter:  rate.NewMemory(),
	}, cfg)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer listener.Close()

	httpServer := &http.Server{Handler: server.Handler()}
	go func() {
		_ = httpServer.Serve(listener)
	}()
	defer httpServer.Close()

	baseURL := "http://" + listener.Addr().String()
	ctx := context.Background()

	alice := client.New(baseURL)
	if err := alice.RegisterAndLogin(ctx, "Alice Liddell", "alice01", "alice@example.com", "secret123"); err != nil {
		t.Fatalf("alice login: %v", err)
	}
	bob := client.New(baseURL)
	if err := bob.RegisterAndLogin(ctx, "Bob Builder", "bobby02", "bob@example.com", "secret123"); err != nil {
		t.Fatalf("bob login: %v", err)
	}
	if err := bob.Register(ctx, "Bob Builder", "bobby02", "bob2@example.com", "secret123"); !errors.Is(err, client.ErrAlreadyRegistered) {
		t.Fatalf("expected ErrAlreadyRegistered, got %v", err)
	}

	if err := alice.CreateArticle(ctx, "E2E Article", "Created over a real socket."); err != nil {
		t.Fatalf("create article: %v", err)
	}
	articles, err := alice.ListArticles(ctx)
	if err != nil || len(articles) != 1 {
		t.Fatalf("list articles: %+v %v", articles, err)
	}
	id := articles[0].ID

	if err := bob.UpdateArticle(ctx, id, "Hijacked title", "Bob rewrote this."); !errors.Is(err, client.ErrDenied) {
		t.Fatalf("expected ErrDenied on update, got %v", err)
	}
	if err := bob.DeleteArticle(ctx, id); !errors.Is(err, client.ErrDenied) {
		t.Fatalf("expected ErrDenied on delete, got %v", err)
	}

	var verr *client.ValidationError
	if err := alice.UpdateArticle(ctx, id, "Hi", "Too short title."); !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := alice.UpdateArticle(ctx, id, "E2E Article, revised", "Created over a real socket, then edited."); err != nil {
		t.Fatalf("update article: %v", err)
	}
	got, err := bob.GetArticle(ctx, id)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if got.Title != "E2E Article, revised" || got.Author != "alice01" {
		t.Fatalf("unexpected article: %+v", got)
	}

	found, err := bob.Search(ctx, "revised")
	if err != nil || len(found) != 1 {
		t.Fatalf("search: %+v %v", found, err)
	}

	if err := alice.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if err := alice.CreateArticle(ctx, "After logout", "Should never be stored."); !errors.Is(err, client.ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if err := alice.Login(ctx, "alice01", "wrong-password"); !errors.Is(err, client.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}
