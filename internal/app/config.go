package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/metaman/internal/data/db"
	"github.com/yungbote/metaman/internal/observability"
	"github.com/yungbote/metaman/internal/platform/config"
	"github.com/yungbote/metaman/internal/platform/logger"
)

const defaultConfigPath = "configuration.yaml"

type ApplicationSettings struct {
	Host            string        `yaml:"host" env:"APP_HOST"`
	Port            int           `yaml:"port" env:"APP_PORT"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"APP_SHUTDOWN_TIMEOUT"`
	MaxBodyBytes    int64         `yaml:"max_body_bytes" env:"APP_MAX_BODY_BYTES"`
}

type AuthSettings struct {
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET_KEY"`
	Required  bool   `yaml:"required" env:"AUTH_REQUIRED"`
	// DefaultAuthor is recorded as created_by for anonymous requests.
	DefaultAuthor string `yaml:"default_author" env:"AUTH_DEFAULT_AUTHOR"`
}

type RedisSettings struct {
	Addr           string        `yaml:"addr" env:"REDIS_ADDR"`
	Password       string        `yaml:"password" env:"REDIS_PASSWORD"`
	DB             int           `yaml:"db" env:"REDIS_DB"`
	IdempotencyTTL time.Duration `yaml:"idempotency_ttl" env:"IDEMPOTENCY_TTL"`
}

type CORSSettings struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

type Config struct {
	Application ApplicationSettings         `yaml:"application"`
	Database    db.Settings                 `yaml:"database"`
	Auth        AuthSettings                `yaml:"auth"`
	Redis       RedisSettings               `yaml:"redis"`
	CORS        CORSSettings                `yaml:"cors"`
	Otel        observability.OtelConfig    `yaml:"otel"`
	Metrics     observability.MetricsConfig `yaml:"metrics"`
}

func DefaultConfig() Config {
	return Config{
		Application: ApplicationSettings{
			Host:            "0.0.0.0",
			Port:            8000,
			ShutdownTimeout: 15 * time.Second,
			MaxBodyBytes:    64 << 10,
		},
		Database: db.DefaultSettings(),
		Auth: AuthSettings{
			DefaultAuthor: uuid.Nil.String(),
		},
		Redis: RedisSettings{
			IdempotencyTTL: 24 * time.Hour,
		},
		Otel: observability.OtelConfig{
			ServiceName: "metaman",
			Environment: "development",
			SampleRatio: 0.1,
		},
		Metrics: observability.MetricsConfig{
			ScrapeInterval: 10 * time.Second,
		},
	}
}

// LoadConfig layers defaults, the YAML file and the environment, in that
// order. METAMAN_CONFIG_PATH names a required file; otherwise
// ./configuration.yaml is read when present.
func LoadConfig(log *logger.Logger) (Config, error) {
	cfg := DefaultConfig()

	path := strings.TrimSpace(os.Getenv("METAMAN_CONFIG_PATH"))
	optional := path == ""
	if optional {
		path = defaultConfigPath
	}
	if err := config.LoadYAML(path, &cfg, optional); err != nil {
		return Config{}, err
	}
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	if log != nil {
		log.Info("Configuration loaded",
			"config_path", path,
			"port", cfg.Application.Port,
			"database_driver", cfg.Database.Driver,
			"auth_required", cfg.Auth.Required,
			"redis_enabled", cfg.Redis.Addr != "",
		)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Application.Port <= 0 || c.Application.Port > 65535 {
		return fmt.Errorf("application.port out of range: %d", c.Application.Port)
	}
	if _, err := c.DefaultAuthor(); err != nil {
		return err
	}
	if c.Auth.Required && strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("auth.required needs auth.jwt_secret")
	}
	return nil
}

func (c Config) DefaultAuthor() (uuid.UUID, error) {
	raw := strings.TrimSpace(c.Auth.DefaultAuthor)
	if raw == "" {
		return uuid.Nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth.default_author: %w", err)
	}
	return id, nil
}
