package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

// Database drivers registered by the db package.
const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	StorageBackend string

	DatabaseURL       string
	DBDriver          string
	DBMaxOpenConns    int
	DBMaxIdleConns    int
	DBConnMaxLifetime time.Duration
	DBConnectTimeout  time.Duration
	DBQueryTimeout    time.Duration
	DBAutoSchema      bool
	DBStatsInterval   time.Duration

	ServerPort int
	LogLevel   slog.Level

	// StrictMatchValidation additionally rejects a player facing themself and
	// matches without both scores. Off by default: only the two player names
	// are required.
	StrictMatchValidation bool

	CORSAllowOrigins []string

	RateLimitEnabled  bool
	RateLimitRequests int
	RateLimitWindow   time.Duration

	MetricsEnabled bool

	R2AccountID       string
	R2AccessKeyID     string
	R2SecretAccessKey string
	R2BucketName      string
	R2PublicBaseURL   string
}

// Load загружает конфигурацию из переменных окружения.
// Опционально подгружает .env файл (полезно для локальной разработки).
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the process environment without touching .env files.
func FromEnv() (*Config, error) {
	var errs []string
	addErr := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	cfg := &Config{
		StorageBackend: strings.ToLower(envOr("STORAGE_BACKEND", StoragePostgres)),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		DBDriver:       strings.ToLower(envOr("DB_DRIVER", DriverPQ)),

		CORSAllowOrigins: envList("CORS_ALLOW_ORIGINS", []string{"*"}),

		R2AccountID:       os.Getenv("R2_ACCOUNT_ID"),
		R2AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
		R2SecretAccessKey: os.Getenv("R2_SECRET_ACCESS_KEY"),
		R2BucketName:      os.Getenv("R2_BUCKET_NAME"),
		R2PublicBaseURL:   os.Getenv("R2_PUBLIC_BASE_URL"),
	}

	var err error
	cfg.DBMaxOpenConns, err = envInt("DB_MAX_OPEN_CONNS", 25)
	addErr(err)
	cfg.DBMaxIdleConns, err = envInt("DB_MAX_IDLE_CONNS", 25)
	addErr(err)
	cfg.DBConnMaxLifetime, err = envDuration("DB_CONN_MAX_LIFETIME_MINUTES", 5, time.Minute)
	addErr(err)
	cfg.DBConnectTimeout, err = envDuration("DB_CONNECT_TIMEOUT_SECONDS", 5, time.Second)
	addErr(err)
	cfg.DBQueryTimeout, err = envDuration("DB_QUERY_TIMEOUT_SECONDS", 5, time.Second)
	addErr(err)
	cfg.DBAutoSchema, err = envBool("DB_AUTO_SCHEMA", true)
	addErr(err)
	cfg.DBStatsInterval, err = envDuration("DB_STATS_INTERVAL_SECONDS", 30, time.Second)
	addErr(err)
	cfg.ServerPort, err = envInt("SERVER_PORT", 8080)
	addErr(err)
	cfg.StrictMatchValidation, err = envBool("STRICT_MATCH_VALIDATION", false)
	addErr(err)
	cfg.RateLimitEnabled, err = envBool("RATE_LIMIT_ENABLED", true)
	addErr(err)
	cfg.RateLimitRequests, err = envInt("RATE_LIMIT_REQUESTS", 120)
	addErr(err)
	cfg.RateLimitWindow, err = envDuration("RATE_LIMIT_WINDOW_SECONDS", 60, time.Second)
	addErr(err)
	cfg.MetricsEnabled, err = envBool("METRICS_ENABLED", true)
	addErr(err)
	cfg.LogLevel, err = parseLogLevel(envOr("LOG_LEVEL", "info"))
	addErr(err)

	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(errs, "; "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageBackend)
	}

	if c.DBDriver != DriverPQ && c.DBDriver != DriverPGX {
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverPQ, DriverPGX, c.DBDriver)
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.ServerPort)
	}
	if c.DBMaxOpenConns <= 0 {
		return fmt.Errorf("DB_MAX_OPEN_CONNS must be positive, got %d", c.DBMaxOpenConns)
	}
	if c.DBQueryTimeout <= 0 || c.DBConnectTimeout <= 0 {
		return fmt.Errorf("database timeouts must be positive")
	}
	if c.MetricsEnabled && c.DBStatsInterval <= 0 {
		return fmt.Errorf("DB_STATS_INTERVAL_SECONDS must be positive when metrics are enabled")
	}
	if c.RateLimitEnabled && (c.RateLimitRequests <= 0 || c.RateLimitWindow <= 0) {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW_SECONDS must be positive when rate limiting is enabled")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback int, unit time.Duration) (time.Duration, error) {
	n, err := envInt(key, fallback)
	return time.Duration(n) * unit, err
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
	return level, nil
}
