// Package config reads service settings from the environment and .env.
package config

import (
	"bikeroute-service/internal/domain"
	"bikeroute-service/internal/platform/db"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	DBDriver         db.Dialect
	DBPath           string
	DatabaseURL      string
	SeedPath         string
	ValhallaURL      string
	RedisAddr        string
	RouteCacheTTL    time.Duration
	ORSAPIKey        string
	DefaultOptions   domain.RouteOptions
	HTTPWriteTimeout time.Duration
}

// DSN returns the connection string for the configured driver.
func (c Config) DSN() string {
	if c.DBDriver == db.Postgres {
		return c.DatabaseURL
	}
	return c.DBPath
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := Get(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s: must not be negative", key)
	}
	return d, nil
}

// Load reads .env when present, then the environment, and validates the result.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	driver, err := db.ParseDialect(Get("DB_DRIVER", string(db.Sqlite)))
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg := Config{
		Port:        Get("PORT", "8080"),
		DBDriver:    driver,
		DBPath:      Get("DB_PATH", "data/app.db"),
		DatabaseURL: Get("DATABASE_URL", ""),
		SeedPath:    Get("SEED_PATH", "data/seeds/routes.json"),
		ValhallaURL: Get("VALHALLA_URL", "http://localhost:8002"),
		RedisAddr:   Get("REDIS_ADDR", ""),
		ORSAPIKey:   Get("ORS_API_KEY", ""),
	}

	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return Config{}, fmt.Errorf("load config: PORT %q is not a number", cfg.Port)
	}

	if cfg.DBDriver == db.Postgres && cfg.DatabaseURL == "" {
		return Config{}, errors.New("load config: DATABASE_URL is required when DB_DRIVER=pgx")
	}

	if cfg.RouteCacheTTL, err = getDuration("ROUTE_CACHE_TTL", 24*time.Hour); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if cfg.HTTPWriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", 60*time.Second); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg.DefaultOptions, err = domain.RouteOptions{
		Costing:     domain.Costing(Get("DEFAULT_COSTING", string(domain.DefaultCosting))),
		BicycleType: domain.BicycleType(Get("DEFAULT_BICYCLE_TYPE", string(domain.DefaultBicycleType))),
	}.Normalize()
	if err != nil {
		return Config{}, fmt.Errorf("load config: defaults: %w", err)
	}

	return cfg, nil
}
