package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/alphabot-ai/myblog/internal/article"
	"github.com/alphabot-ai/myblog/internal/auth"
	"github.com/alphabot-ai/myblog/internal/client"
	"github.com/alphabot-ai/myblog/internal/config"
	httpapp "github.com/alphabot-ai/myblog/internal/http"
	"github.com/alphabot-ai/myblog/internal/logging"
	"github.com/alphabot-ai/myblog/internal/metrics"
	"github.com/alphabot-ai/myblog/internal/model"
	"github.com/alphabot-ai/myblog/internal/password"
	"github.com/alphabot-ai/myblog/internal/rate"
	"github.com/alphabot-ai/myblog/internal/session"
	"github.com/alphabot-ai/myblog/internal/store"
	"github.com/alphabot-ai/myblog/internal/store/postgres"
	"github.com/alphabot-ai/myblog/internal/store/sqlite"
	"github.com/alphabot-ai/myblog/internal/validation"
)

const version = "myblog v0.1.0"

func main() {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if len(os.Args) < 2 || (strings.HasPrefix(os.Args[1], "-") && os.Args[1] != "-h" && os.Args[1] != "--help" && os.Args[1] != "-v" && os.Args[1] != "--version") {
		runServer(cfg, logger)
		return
	}

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "server", "serve":
		runServer(cfg, logger)
	case "migrate":
		cmdMigrate(cfg, logger)
	case "adduser":
		cmdAddUser(cfg, logger, args)
	case "read", "list":
		cmdRead(args)
	case "version", "-v", "--version":
		fmt.Println(version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`myblog - a small multi-user blog

Usage: myblog <command> [options]

Commands:
  serve               Start the server (default if no command)
  migrate             Apply database migrations and exit
  adduser             Create a user account
                        -name -username -email -password
  read                List articles from a running server
                        -url (default http://localhost:8080)
  version             Print the version

Environment Variables:
  MYBLOG_ADDR                 Listen address (default: :8080, or :$PORT)
  MYBLOG_DB_DRIVER            sqlite or postgres (default: sqlite)
  MYBLOG_DB                   sqlite path or postgres DSN (default: myblog.db)
  MYBLOG_SESSION_SECRET       Session cookie signing secret
  MYBLOG_SESSION_TTL          Session lifetime (default: 24h)
  MYBLOG_SECURE_COOKIES       Mark the session cookie Secure (default: false)
  MYBLOG_TRUST_PROXY          Key rate limits on X-Forwarded-For (default: false)
  MYBLOG_HASH_ITERATIONS      PBKDF2 iterations (default: 29000)
  MYBLOG_RL_LOGIN_PER_MIN     Login attempts per IP per minute (default: 10)
  MYBLOG_RL_REGISTER_PER_MIN  Registrations per IP per minute (default: 5)
  LOG_LEVEL, LOG_ENCODING, LOG_DEVELOPMENT, SERVICE_NAME`)
}

func openStore(ctx context.Context, cfg config.Config) (store.Store, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		st, err := sqlite.Open(cfg.DB)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverPostgres:
		st, err := postgres.Open(ctx, cfg.DB)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

func runServer(cfg config.Config, logger *zap.Logger) {
	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open db", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	defer st.Close()

	if cfg.SessionSecret == "dev-session-secret" {
		logger.Warn("using the development session secret; set MYBLOG_SESSION_SECRET")
	}
	sessions, err := session.NewManager(cfg.SessionSecret, cfg.SessionTTL, cfg.SecureCookies)
	if err != nil {
		logger.Fatal("failed to initialize sessions", zap.Error(err))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	server, err := httpapp.NewServer(httpapp.Deps{
		Store:    st,
		Auth:     auth.NewService(st, password.NewHasher(cfg.HashIterations)),
		Articles: article.NewService(st),
		Sessions: sessions,
		Limiter:  rate.NewMemory(),
		Metrics:  metrics.New(reg),
		Logger:   logger,
	}, cfg)
	if err != nil {
		logger.Fatal("failed to initialize server", zap.Error(err))
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("myblog listening", zap.String("addr", cfg.Addr), zap.String("driver", cfg.DBDriver))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func cmdMigrate(cfg config.Config, logger *zap.Logger) {
	st, err := openStore(context.Background(), cfg)
	if err != nil {
		logger.Fatal("migrate", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}
	_ = st.Close()
	logger.Info("migrations applied", zap.String("driver", cfg.DBDriver))
}

func cmdAddUser(cfg config.Config, logger *zap.Logger, args []string) {
	fs := flag.NewFlagSet("adduser", flag.ExitOnError)
	name := fs.String("name", "", "Full name (4-50 chars)")
	username := fs.String("username", "", "Username (5-16 chars, required)")
	email := fs.String("email", "", "Email address (required)")
	pass := fs.String("password", "", "Password (required)")
	_ = fs.Parse(args)

	if *username == "" || *email == "" || *pass == "" {
		fmt.Fprintln(os.Stderr, "Error: -username, -email and -password are required")
		fmt.Fprintln(os.Stderr, "Usage: myblog adduser -name <name> -username <username> -email <email> -password <password>")
		os.Exit(1)
	}

	ctx := context.Background()
	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal("failed to open db", zap.Error(err))
	}
	defer st.Close()

	svc := auth.NewService(st, password.NewHasher(cfg.HashIterations))
	user, err := svc.Register(ctx, auth.RegisterInput{
		Name:     *name,
		Username: *username,
		Email:    *email,
		Password: *pass,
		Confirm:  *pass,
	})
	var verr *validation.Error
	if errors.As(err, &verr) {
		for field, msg := range verr.ByField() {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
		}
		os.Exit(1)
	}
	if err != nil {
		logger.Fatal("add user", zap.Error(err))
	}
	fmt.Printf("✓ Created user '%s' (id %d)\n", user.Username, user.ID)
}

func cmdRead(args []string) {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	url := fs.String("url", "http://localhost:8080", "myblog server URL")
	keyword := fs.String("search", "", "Only list articles whose title contains this")
	_ = fs.Parse(args)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	list, err := fetchArticles(ctx, client.New(*url), *keyword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if len(list) == 0 {
		fmt.Println("No articles.")
		return
	}
	for _, a := range list {
		fmt.Printf("#%d %s\n   by %s, %s\n", a.ID, a.Title, a.Author, a.CreatedAt.Format("2006-01-02 15:04"))
	}
}

type articleReader interface {
	ListArticles(ctx context.Context) ([]model.Article, error)
	Search(ctx context.Context, keyword string) ([]model.Article, error)
}

// fetchArticles lists every article, or only the matching ones when a
// keyword is given.
func fetchArticles(ctx context.Context, r articleReader, keyword string) ([]model.Article, error) {
	if keyword = strings.TrimSpace(keyword); keyword != "" {
		return r.Search(ctx, keyword)
	}
	return r.ListArticles(ctx)
}
