package config

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix is the prefix of every environment variable the service reads.
const EnvPrefix = "DPS_"

// ConfigPathEnv names the optional YAML config file.
const ConfigPathEnv = EnvPrefix + "CONFIG"

// Share store backends.
const (
	ShareStoreMemory   = "memory"
	ShareStorePostgres = "postgres"
	ShareStoreSQL      = "sql"
)

type Config struct {
	// Server
	Port           int      `koanf:"port"`
	Env            string   `koanf:"env"`
	LogLevel       string   `koanf:"log_level"`
	AllowedOrigins []string `koanf:"allowed_origins"`
	MaxUploadBytes int64    `koanf:"max_upload_bytes"`
	BaseURL        string   `koanf:"base_url"`

	// Share storage
	ShareStore    string        `koanf:"share_store"`
	PostgresURL   string        `koanf:"postgres_url"`
	SQLDriver     string        `koanf:"sql_driver"`
	SQLDSN        string        `koanf:"sql_dsn"`
	ShareCacheTTL time.Duration `koanf:"share_cache_ttl"`

	// Optional backends
	RedisURL      string `koanf:"redis_url"`
	ClickHouseURL string `koanf:"clickhouse_url"`

	// Worker pool
	WorkerCount   int           `koanf:"worker_count"`
	QueueSize     int           `koanf:"queue_size"`
	BatchSize     int           `koanf:"batch_size"`
	FlushInterval time.Duration `koanf:"flush_interval"`

	// Auth and reporting
	IngestToken     string `koanf:"ingest_token"`
	RecaptchaSecret string `koanf:"recaptcha_secret"`
	SentryDSN       string `koanf:"sentry_dsn"`

	SkillCatalogPath string `koanf:"skill_catalog"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:           8080,
		Env:            "development",
		LogLevel:       "info",
		AllowedOrigins: []string{"http://localhost:3000"},
		MaxUploadBytes: 50 << 20,
		BaseURL:        "http://localhost:3000",

		ShareStore:    ShareStoreMemory,
		SQLDriver:     "mysql",
		ShareCacheTTL: time.Hour,

		WorkerCount:   8,
		QueueSize:     10000,
		BatchSize:     500,
		FlushInterval: time.Second,
	}
}

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. a .env file in the working directory, if present
//  3. the YAML file named by DPS_CONFIG, if set
//  4. DPS_* environment variables
func Load(ctx context.Context) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, errors.Wrap(ErrLoadConfig, err.Error())
	}

	k := koanf.New(".")

	if path := os.Getenv(ConfigPathEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, errors.Wrapf(ErrLoadConfig, "read %s: %v", path, err)
		}
	}

	// DPS_QUEUE_SIZE -> queue_size
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, errors.Wrap(ErrLoadConfig, err.Error())
	}
	k.Delete("config")

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, errors.Wrap(ErrLoadConfig, err.Error())
	}
	cfg.AllowedOrigins = cleanOrigins(cfg.AllowedOrigins)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first inconsistency in c, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return errors.Wrapf(ErrInvalidConfig, "port %d out of range", c.Port)
	}
	if c.MaxUploadBytes <= 0 {
		return errors.Wrap(ErrInvalidConfig, "max_upload_bytes must be positive")
	}
	switch c.ShareStore {
	case ShareStoreMemory:
	case ShareStorePostgres:
		if c.PostgresURL == "" {
			return errors.Wrap(ErrInvalidConfig, "postgres_url is required for the postgres share store")
		}
	case ShareStoreSQL:
		if c.SQLDSN == "" {
			return errors.Wrap(ErrInvalidConfig, "sql_dsn is required for the sql share store")
		}
		if c.SQLDriver != "mysql" && c.SQLDriver != "postgres" {
			return errors.Wrapf(ErrInvalidConfig, "unsupported sql_driver %q", c.SQLDriver)
		}
	default:
		return errors.Wrapf(ErrInvalidConfig, "unknown share_store %q", c.ShareStore)
	}
	if c.WorkerCount <= 0 || c.QueueSize <= 0 || c.BatchSize <= 0 {
		return errors.Wrap(ErrInvalidConfig, "worker_count, queue_size and batch_size must be positive")
	}
	return nil
}

// IsProduction reports whether the service runs with production logging.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func cleanOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, raw := range in {
		for _, o := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
