package db

import (
	"fmt"
	"net/url"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Settings struct {
	Driver          string        `yaml:"driver" env:"DATABASE_DRIVER"`
	Host            string        `yaml:"host" env:"POSTGRES_HOST"`
	Port            int           `yaml:"port" env:"POSTGRES_PORT"`
	Username        string        `yaml:"username" env:"POSTGRES_USER"`
	Password        string        `yaml:"password" env:"POSTGRES_PASSWORD"`
	DatabaseName    string        `yaml:"database_name" env:"POSTGRES_NAME"`
	RequireSSL      bool          `yaml:"require_ssl" env:"POSTGRES_REQUIRE_SSL"`
	SQLitePath      string        `yaml:"sqlite_path" env:"SQLITE_PATH"`
	MaxOpenConns    int           `yaml:"max_open_conns" env:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns    int           `yaml:"max_idle_conns" env:"DATABASE_MAX_IDLE_CONNS"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" env:"DATABASE_CONN_MAX_LIFETIME"`
	AutoMigrate     bool          `yaml:"auto_migrate" env:"DATABASE_AUTO_MIGRATE"`
}

func DefaultSettings() Settings {
	return Settings{
		Driver:          DriverPostgres,
		Host:            "localhost",
		Port:            5432,
		Username:        "postgres",
		DatabaseName:    "metaman",
		SQLitePath:      "metaman.db",
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: 30 * time.Minute,
		AutoMigrate:     true,
	}
}

func (s Settings) sslMode() string {
	if s.RequireSSL {
		return "require"
	}
	return "disable"
}

func (s Settings) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(s.Username, s.Password),
		Host:     fmt.Sprintf("%s:%d", s.Host, s.Port),
		Path:     "/" + s.DatabaseName,
		RawQuery: "sslmode=" + s.sslMode(),
	}
	return u.String()
}
