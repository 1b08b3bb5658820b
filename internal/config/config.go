package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Addr           string
	DBDriver       string
	DB             string
	SessionSecret  string
	SessionTTL     time.Duration
	SecureCookies  bool
	TrustProxy     bool
	HashIterations int
	RateLimits     RateLimits
	Logging        LoggingConfig
}

type RateLimits struct {
	LoginPerMinute    int
	RegisterPerMinute int
}

type LoggingConfig struct {
	Level       string
	Encoding    string
	Development bool
	ServiceName string
}

func Load() Config {
	addr := envString("MYBLOG_ADDR", "")
	if addr == "" {
		if port := os.Getenv("PORT"); port != "" {
			addr = ":" + port
		} else {
			addr = ":8080"
		}
	}
	cfg := Config{
		Addr:           addr,
		DBDriver:       strings.ToLower(envString("MYBLOG_DB_DRIVER", DriverSQLite)),
		DB:             envString("MYBLOG_DB", "myblog.db"),
		SessionSecret:  envString("MYBLOG_SESSION_SECRET", "dev-session-secret"),
		SessionTTL:     envDuration("MYBLOG_SESSION_TTL", 24*time.Hour),
		SecureCookies:  envBool("MYBLOG_SECURE_COOKIES", false),
		TrustProxy:     envBool("MYBLOG_TRUST_PROXY", false),
		HashIterations: envInt("MYBLOG_HASH_ITERATIONS", 29000),
		RateLimits: RateLimits{
			LoginPerMinute:    envInt("MYBLOG_RL_LOGIN_PER_MIN", 10),
			RegisterPerMinute: envInt("MYBLOG_RL_REGISTER_PER_MIN", 5),
		},
		Logging: LoggingConfig{
			Level:       envString("LOG_LEVEL", "info"),
			Encoding:    envString("LOG_ENCODING", "console"),
			Development: envBool("LOG_DEVELOPMENT", false),
			ServiceName: envString("SERVICE_NAME", "myblog"),
		},
	}

	return cfg
}

func envString(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
