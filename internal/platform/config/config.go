// Package config loads process configuration.
//
// Values are resolved in order: built-in defaults, an optional YAML file, then
// environment variables. Secrets (database password, token signing secret) are
// expected from the environment or a mounted secret file; nothing sensitive has
// a default.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

// minSecretLen is the shortest accepted token signing secret, in bytes.
const minSecretLen = 16

type Config struct {
	Port           string `yaml:"port" env:"PORT"`
	StorageBackend string `yaml:"storage_backend" env:"STORAGE_BACKEND"`

	Database DatabaseConfig `yaml:"database"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig locates the Postgres store. URL wins over the discrete fields.
type DatabaseConfig struct {
	URL      string `yaml:"url" env:"DATABASE_URL"`
	Host     string `yaml:"host" env:"TRAFFIC_DB_HOST"`
	Port     int    `yaml:"port" env:"TRAFFIC_DB_PORT"`
	User     string `yaml:"user" env:"DB_USER"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME"`
	SSLMode  string `yaml:"sslmode" env:"DB_SSLMODE"`

	MaxConns       int32         `yaml:"max_conns" env:"DB_MAX_CONNS"`
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"DB_CONNECT_TIMEOUT"`
}

type SQLiteConfig struct {
	Path string `yaml:"path" env:"SQLITE_PATH"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret" env:"JWT_SECRET"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"ACCESS_TOKEN_TTL"`
	BcryptCost     int           `yaml:"bcrypt_cost" env:"BCRYPT_COST"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Load builds a Config from defaults, the YAML file at path (skipped when path is
// empty), and the environment, then validates it.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Fields without a matching variable keep their current value, so the
	// environment only overrides what it sets.
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Port:           "8080",
		StorageBackend: StoragePostgres,
		Database: DatabaseConfig{
			Port:           5432,
			Name:           "trafficManagerFull",
			SSLMode:        "disable",
			ConnectTimeout: 5 * time.Second,
		},
		SQLite: SQLiteConfig{
			Path: "./data/traffic.db",
		},
		Auth: AuthConfig{
			AccessTokenTTL: 60 * time.Minute,
			BcryptCost:     10,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		ShutdownTimeout: 10 * time.Second,
	}
}

// Validate reports every configuration problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.Port == "" {
		errs = append(errs, errors.New("port is required"))
	}
	switch c.StorageBackend {
	case StoragePostgres:
		if c.Database.URL == "" && c.Database.Host == "" {
			errs = append(errs, errors.New("DATABASE_URL or TRAFFIC_DB_HOST is required for postgres storage"))
		}
		if c.Database.URL == "" && (c.Database.Port <= 0 || c.Database.Port > 65535) {
			errs = append(errs, fmt.Errorf("TRAFFIC_DB_PORT out of range: %d", c.Database.Port))
		}
	case StorageSQLite:
		if strings.TrimSpace(c.SQLite.Path) == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for sqlite storage"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown STORAGE_BACKEND %q (expected postgres|sqlite|memory)", c.StorageBackend))
	}

	if len(c.Auth.JWTSecret) < minSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", minSecretLen))
	}
	if c.Auth.AccessTokenTTL <= 0 {
		errs = append(errs, errors.New("ACCESS_TOKEN_TTL must be positive"))
	}
	if c.Auth.BcryptCost < 10 || c.Auth.BcryptCost > 14 {
		errs = append(errs, fmt.Errorf("BCRYPT_COST must be between 10 and 14, got %d", c.Auth.BcryptCost))
	}

	return errors.Join(errs...)
}

// DSN returns the Postgres connection string.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:   "/" + d.Name,
	}
	if d.User != "" {
		u.User = url.UserPassword(d.User, d.Password)
	}
	q := url.Values{}
	if d.SSLMode != "" {
		q.Set("sslmode", d.SSLMode)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
