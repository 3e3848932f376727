package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL       string
	RabbitMQURL       string
	AuthPublicKeyPath string
	AuthIssuer        string
	HTTPAddr          string
	LockTimeout       time.Duration
	RunMigrations     bool
}

// Load reads .env.local, then .env, then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		DatabaseURL:       get("SELLER_STATS_DB_URL", ""),
		RabbitMQURL:       get("RABBITMQ_URL", ""),
		AuthPublicKeyPath: get("AUTH_PUBLIC_KEY_PATH", ""),
		AuthIssuer:        get("AUTH_ISSUER", "gavel-auth"),
		HTTPAddr:          get("HTTP_ADDR", ":8081"),
	}

	var err error
	if cfg.LockTimeout, err = time.ParseDuration(get("DB_LOCK_TIMEOUT", "5s")); err != nil {
		return nil, fmt.Errorf("DB_LOCK_TIMEOUT: %w", err)
	}
	if cfg.RunMigrations, err = strconv.ParseBool(get("RUN_MIGRATIONS", "false")); err != nil {
		return nil, fmt.Errorf("RUN_MIGRATIONS: %w", err)
	}
	return cfg, nil
}

func (c *Config) ValidateAPI() error {
	if c.DatabaseURL == "" {
		return errors.New("SELLER_STATS_DB_URL is not set")
	}
	if c.AuthPublicKeyPath == "" {
		return errors.New("AUTH_PUBLIC_KEY_PATH is not set")
	}
	return nil
}

func (c *Config) ValidateWorker() error {
	if c.DatabaseURL == "" {
		return errors.New("SELLER_STATS_DB_URL is not set")
	}
	if c.RabbitMQURL == "" {
		return errors.New("RABBITMQ_URL is not set")
	}
	return nil
}
