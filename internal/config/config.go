package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage drivers understood by storage.Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Storage      StorageConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
	Workspace    WorkspaceConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Driver     string
	Dir        string
	SQLitePath string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Service string
	Output  string
}

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	ClientSecret           string
	ClientTokenTTLMinutes  int
	BcryptCost             int
	ClientCookieName       string
	ClientCookieSecureOnly bool
}

// NotificationConfig controls transient toast behavior.
type NotificationConfig struct {
	DismissSeconds int
}

// WorkspaceConfig controls the per-client view state janitor.
type WorkspaceConfig struct {
	IdleMinutes   int
	SweepSchedule string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticketdesk"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", DriverFile)),
			Dir:        getEnv("STORAGE_DIR", "data"),
			SQLitePath: getEnv("SQLITE_PATH", "data/ticketdesk.db"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:  os.Getenv("REDIS_PASSWORD"),
			DB:        redisDB,
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "ticketdesk"),
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Service: getEnv("APP_NAME", "ticketdesk"),
			Output:  getEnv("LOG_OUTPUT", "stdout"),
		},
		Auth: AuthConfig{
			ClientSecret:           getEnv("AUTH_CLIENT_SECRET", "dev-secret"),
			ClientTokenTTLMinutes:  getEnvAsInt("AUTH_CLIENT_TOKEN_TTL_MINUTES", 60*24*30),
			BcryptCost:             getEnvAsInt("AUTH_BCRYPT_COST", 12),
			ClientCookieName:       getEnv("AUTH_CLIENT_COOKIE", "ticketdesk_client"),
			ClientCookieSecureOnly: getEnvAsBool("AUTH_CLIENT_COOKIE_SECURE", false),
		},
		Notification: NotificationConfig{
			DismissSeconds: getEnvAsInt("NOTIFY_DISMISS_SECONDS", 4),
		},
		Workspace: WorkspaceConfig{
			IdleMinutes:   getEnvAsInt("WORKSPACE_IDLE_MINUTES", 60),
			SweepSchedule: getEnv("WORKSPACE_SWEEP_SCHEDULE", "*/5 * * * *"),
		},
	}

	if err := cfg.Storage.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Validate rejects unknown storage drivers.
func (s StorageConfig) Validate() error {
	switch s.Driver {
	case DriverMemory, DriverFile, DriverSQLite, DriverRedis, DriverPostgres:
		return nil
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER %q", s.Driver)
	}
}

// DismissAfter returns how long a toast stays visible.
func (n NotificationConfig) DismissAfter() time.Duration {
	if n.DismissSeconds <= 0 {
		return 4 * time.Second
	}
	return time.Duration(n.DismissSeconds) * time.Second
}

// IdleTimeout returns how long an unused workspace is kept.
func (w WorkspaceConfig) IdleTimeout() time.Duration {
	if w.IdleMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(w.IdleMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
