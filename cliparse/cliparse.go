// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/danielhkuo/bloodbank/store"
)

type Config struct {
	Port         int
	DatabaseURL  string
	DatabaseType string
	JWTSecret    string
	JWTAlgorithm string
	TokenTTL     time.Duration
	CORSOrigins  []string
	LogLevel     string
	LogFormat    string
	MaxOpenConns int
	MaxIdleConns int
	EnvFile      string
}

const (
	defaultPort         = 8000
	defaultDatabaseType = "postgres"
	defaultAlgorithm    = "HS256"
	defaultTokenTTL     = 30 * time.Minute
	defaultLogLevel     = "info"
	defaultLogFormat    = "json"
	defaultMaxOpen      = 10
	defaultMaxIdle      = 5
	defaultEnvFile      = ".env"
)

var defaultCORSOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}

// BindFlags registers every setting on fs. Values are only final after
// Resolve has applied environment fallbacks.
func BindFlags(fs *pflag.FlagSet, cfg *Config) {
	// Network and storage
	fs.IntVarP(&cfg.Port, "port", "p", defaultPort, "Server port (env PORT)")
	fs.StringVarP(&cfg.DatabaseURL, "database-url", "d", "", "Database URL (env DATABASE_URL)")
	fs.StringVarP(&cfg.DatabaseType, "database-type", "t", defaultDatabaseType, "Database type: postgres, sqlite or mysql (env DATABASE_TYPE)")
	fs.IntVar(&cfg.MaxOpenConns, "max-open-conns", defaultMaxOpen, "Connection pool size (env DB_MAX_OPEN_CONNS)")
	fs.IntVar(&cfg.MaxIdleConns, "max-idle-conns", defaultMaxIdle, "Idle connections kept (env DB_MAX_IDLE_CONNS)")

	// Secrets (prefer env variables, but allow CLI for dev)
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", "", "Token signing secret (prefer env JWT_SECRET_KEY)")
	fs.StringVar(&cfg.JWTAlgorithm, "jwt-algorithm", defaultAlgorithm, "Token signing algorithm (env JWT_ALGORITHM)")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", defaultTokenTTL, "Token lifetime (env ACCESS_TOKEN_EXPIRE_MINUTES, in minutes)")

	fs.StringSliceVar(&cfg.CORSOrigins, "cors-origins", defaultCORSOrigins, "Allowed CORS origins (env BACKEND_CORS_ORIGINS, comma separated)")
	fs.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "Log level (env LOG_LEVEL)")
	fs.StringVar(&cfg.LogFormat, "log-format", defaultLogFormat, "Log format: json or console (env LOG_FORMAT)")
	fs.StringVar(&cfg.EnvFile, "env-file", defaultEnvFile, "Optional .env file loaded before reading the environment")
}

// LoadEnvFile loads path into the process environment. Variables already
// set win, and a missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Resolve fills every flag the user did not set from the environment, then
// validates the result. Flags take precedence over environment variables.
func (cfg *Config) Resolve(fs *pflag.FlagSet) error {
	if err := LoadEnvFile(cfg.EnvFile); err != nil {
		return err
	}

	env := func(flag, key string) (string, bool) {
		if fs.Changed(flag) {
			return "", false
		}
		v := os.Getenv(key)
		return v, v != ""
	}

	if v, ok := env("port", "PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if v, ok := env("database-url", "DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := env("database-type", "DATABASE_TYPE"); ok {
		cfg.DatabaseType = v
	}
	if v, ok := env("max-open-conns", "DB_MAX_OPEN_CONNS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid DB_MAX_OPEN_CONNS env variable")
		}
		cfg.MaxOpenConns = n
	}
	if v, ok := env("max-idle-conns", "DB_MAX_IDLE_CONNS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New("invalid DB_MAX_IDLE_CONNS env variable")
		}
		cfg.MaxIdleConns = n
	}
	if v, ok := env("jwt-secret", "JWT_SECRET_KEY"); ok {
		cfg.JWTSecret = v
	}
	if v, ok := env("jwt-algorithm", "JWT_ALGORITHM"); ok {
		cfg.JWTAlgorithm = v
	}
	if v, ok := env("token-ttl", "ACCESS_TOKEN_EXPIRE_MINUTES"); ok {
		minutes, err := strconv.Atoi(v)
		if err != nil || minutes <= 0 {
			return errors.New("invalid ACCESS_TOKEN_EXPIRE_MINUTES env variable")
		}
		cfg.TokenTTL = time.Duration(minutes) * time.Minute
	}
	if v, ok := env("cors-origins", "BACKEND_CORS_ORIGINS"); ok {
		cfg.CORSOrigins = splitList(v)
	}
	if v, ok := env("log-level", "LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := env("log-format", "LOG_FORMAT"); ok {
		cfg.LogFormat = v
	}

	return cfg.validate()
}

func (cfg *Config) validate() error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("invalid port %d", cfg.Port)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	dialect, err := store.ParseDialect(cfg.DatabaseType)
	if err != nil {
		return err
	}
	cfg.DatabaseType = string(dialect)

	// Secrets - MUST be provided
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET_KEY required")
	}
	if cfg.TokenTTL <= 0 {
		return errors.New("token lifetime must be positive")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		return fmt.Errorf("invalid log format %q (use json or console)", cfg.LogFormat)
	}
	if cfg.MaxOpenConns < 0 || cfg.MaxIdleConns < 0 {
		return errors.New("connection pool sizes must not be negative")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// ParseFlags parses args on a fresh flag set and resolves the result
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	fs := pflag.NewFlagSet("bloodbank", pflag.ContinueOnError)
	BindFlags(fs, &cfg)

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	if err := cfg.Resolve(fs); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
