package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the environment of the market service binaries.
type Config struct {
	DatabaseURL       string
	RabbitMQURL       string
	RedisURL          string
	AuthPublicKeyPath string
	AuthIssuer        string
	HTTPAddr          string
	LockTimeout       time.Duration
	RelayBatchSize    int
	RelayInterval     time.Duration
	RunMigrations     bool
}

// Load reads .env.local and .env when present (the former wins) and then the
// process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, applying defaults for unset keys.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DatabaseURL:       get("MARKET_DB_URL", ""),
		RabbitMQURL:       get("RABBITMQ_URL", ""),
		RedisURL:          get("REDIS_URL", ""),
		AuthPublicKeyPath: get("AUTH_PUBLIC_KEY_PATH", ""),
		AuthIssuer:        get("AUTH_ISSUER", "gavel-auth"),
		HTTPAddr:          get("HTTP_ADDR", ":8080"),
	}

	var err error
	if cfg.LockTimeout, err = time.ParseDuration(get("DB_LOCK_TIMEOUT", "3s")); err != nil {
		return nil, fmt.Errorf("DB_LOCK_TIMEOUT: %w", err)
	}
	if cfg.RelayBatchSize, err = strconv.Atoi(get("RELAY_BATCH_SIZE", "10")); err != nil {
		return nil, fmt.Errorf("RELAY_BATCH_SIZE: %w", err)
	}
	if cfg.RelayInterval, err = time.ParseDuration(get("RELAY_INTERVAL", "500ms")); err != nil {
		return nil, fmt.Errorf("RELAY_INTERVAL: %w", err)
	}
	if cfg.RunMigrations, err = strconv.ParseBool(get("RUN_MIGRATIONS", "false")); err != nil {
		return nil, fmt.Errorf("RUN_MIGRATIONS: %w", err)
	}

	if cfg.LockTimeout < 0 {
		return nil, errors.New("DB_LOCK_TIMEOUT must not be negative")
	}
	if cfg.RelayBatchSize <= 0 {
		return nil, errors.New("RELAY_BATCH_SIZE must be positive")
	}

	return cfg, nil
}

// ValidateAPI checks the settings the API server cannot start without.
func (c *Config) ValidateAPI() error {
	if c.DatabaseURL == "" {
		return errors.New("MARKET_DB_URL is not set")
	}
	if c.AuthPublicKeyPath == "" {
		return errors.New("AUTH_PUBLIC_KEY_PATH is not set")
	}
	return nil
}

// ValidateWorker checks the settings the outbox worker cannot start without.
func (c *Config) ValidateWorker() error {
	if c.DatabaseURL == "" {
		return errors.New("MARKET_DB_URL is not set")
	}
	if c.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}
	return nil
}
