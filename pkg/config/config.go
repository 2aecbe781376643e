// Package config loads the process configuration from the environment once at
// startup. The resulting *Config is read-only and handed to the container.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

type Config struct {
	Server   ServerConfig   `envPrefix:"SERVER_"`
	Log      LogConfig      `envPrefix:"LOG_"`
	Database DatabaseConfig `envPrefix:"DB_"`
	Redis    RedisConfig    `envPrefix:"REDIS_"`
	Auth     AuthConfig     `envPrefix:"AUTH_"`
	Signup   SignupConfig   `envPrefix:"SIGNUP_"`
	Notifx   NotifxConfig   `envPrefix:"NOTIFX_"`
	Storage  StorageConfig  `envPrefix:"STORAGE_"`
	Jobx     JobxConfig     `envPrefix:"JOBX_"`
}

type ServerConfig struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	AppVersion  string        `env:"APP_VERSION" envDefault:"dev"`
	CORSOrigins string        `env:"CORS_ORIGINS" envDefault:"*"`
	BodyLimit   int           `env:"BODY_LIMIT" envDefault:"1048576"`
	ReadTimeout time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
	// ShutdownTimeout bounds graceful shutdown of HTTP and workers.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"console"`
	Color  bool   `env:"COLOR" envDefault:"true"`
	Caller bool   `env:"CALLER" envDefault:"false"`
}

// Logger builds the logx configuration for this section.
func (c LogConfig) Logger() *logx.Config {
	cfg := logx.DefaultConfig()
	cfg.Level = logx.ParseLevel(c.Level)
	cfg.Format = logx.ParseFormat(c.Format)
	cfg.EnableColors = c.Color
	cfg.EnableCaller = c.Caller
	return cfg
}

type DatabaseConfig struct {
	Host            string        `env:"HOST" envDefault:"localhost"`
	Port            int           `env:"PORT" envDefault:"5432"`
	User            string        `env:"USER" envDefault:"postgres"`
	Password        string        `env:"PASSWORD" envDefault:"postgres"`
	Name            string        `env:"NAME" envDefault:"expense_tracker"`
	SSLMode         string        `env:"SSLMODE" envDefault:"disable"`
	MaxOpenConns    int           `env:"MAX_OPEN_CONNS" envDefault:"25"`
	MaxIdleConns    int           `env:"MAX_IDLE_CONNS" envDefault:"5"`
	ConnMaxLifetime time.Duration `env:"CONN_MAX_LIFETIME" envDefault:"5m"`
	MigrateOnStart  bool          `env:"MIGRATE_ON_START" envDefault:"true"`
}

// DSN renders a lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
	// KeyPrefix namespaces every cache key.
	KeyPrefix string `env:"KEY_PREFIX" envDefault:"_FT"`
	// CacheDriver is "redis" or "memory".
	CacheDriver string `env:"CACHE_DRIVER" envDefault:"redis"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints env tags cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.Redis.CacheDriver {
	case "redis", "memory":
	default:
		errs = append(errs, fmt.Errorf("REDIS_CACHE_DRIVER must be redis or memory, got %q", c.Redis.CacheDriver))
	}

	errs = append(errs, c.Auth.validate()...)
	errs = append(errs, c.Signup.validate()...)
	errs = append(errs, c.Storage.validate()...)

	switch c.Notifx.Provider {
	case "console", "ses":
	default:
		errs = append(errs, fmt.Errorf("NOTIFX_PROVIDER must be console or ses, got %q", c.Notifx.Provider))
	}

	return errors.Join(errs...)
}
