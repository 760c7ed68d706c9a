// Package config loads process-wide configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all process configuration, loaded once at startup.
type Config struct {
	// BaseURL is the Canvas API root, e.g. "https://canvas.example.edu/api/v1".
	BaseURL string

	// APIToken is the static bearer token presented on every request.
	APIToken string

	// Debug lowers the log level to debug.
	Debug bool

	// RedisURL enables the optional response cache when set, e.g. "localhost:6379".
	RedisURL string

	// LogPretty enables human-readable console logging.
	LogPretty bool

	// DatabaseURL and SecretKey are carried for deployments that share this
	// .env with other tooling; the reporting core does not use them.
	DatabaseURL string
	SecretKey   string
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (Config, error) {
	return LoadFrom(".env")
}

// LoadFrom is Load with an explicit .env path, for tests.
func LoadFrom(envFile string) (Config, error) {
	// Best effort: a missing .env file is not an error.
	_ = godotenv.Load(envFile)

	cfg := Config{
		BaseURL:     os.Getenv("BASE_URL"),
		APIToken:    os.Getenv("API_TOKEN"),
		Debug:       parseBool(os.Getenv("DEBUG")),
		RedisURL:    os.Getenv("REDIS_URL"),
		LogPretty:   parseBool(os.Getenv("LOG_PRETTY")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SecretKey:   os.Getenv("SECRET_KEY"),
	}

	if cfg.BaseURL == "" {
		return Config{}, fmt.Errorf("BASE_URL is required")
	}
	if cfg.APIToken == "" {
		return Config{}, fmt.Errorf("API_TOKEN is required")
	}

	return cfg, nil
}

func parseBool(s string) bool {
	if s == "" {
		return false
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return false
	}
	return v
}
