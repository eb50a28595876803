// Package config loads and validates configuration from environment
// variables for both binaries. A .env file in the working directory is
// loaded first, best-effort — real environment variables win.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// API holds configuration for the persistence API server (cmd/api).
type API struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// AuthSecret signs and verifies service tokens on mutating routes. Required.
	AuthSecret string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string
}

// Board holds configuration for the POB board service (cmd/board).
type Board struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8081".
	Port string

	// APIBaseURL is the persistence API root, no trailing slash. Required.
	APIBaseURL string

	// AuthSecret is the shared secret the board uses to mint its service
	// token; must match the API's. Required.
	AuthSecret string

	// RefreshInterval is how often the board re-syncs its full state from
	// the API. Defaults to 60s.
	RefreshInterval time.Duration

	// LogLevel controls the minimum log level. Defaults to "info".
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	CORSOrigins []string
}

// LoadAPI reads the API server configuration from the environment.
// Returns an error listing any required variables that are not set.
func LoadAPI() (API, error) {
	_ = godotenv.Load()

	cfg := API{
		Port:        getEnv("PORT", "8080"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	cfg.AuthSecret = os.Getenv("AUTH_SECRET")
	if cfg.AuthSecret == "" {
		missing = append(missing, "AUTH_SECRET")
	}

	if len(missing) > 0 {
		return API{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// LoadBoard reads the board service configuration from the environment.
// Returns an error listing any required variables that are not set.
func LoadBoard() (Board, error) {
	_ = godotenv.Load()

	cfg := Board{
		Port:            getEnv("PORT", "8081"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSOrigins:     splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		RefreshInterval: 60 * time.Second,
	}

	if raw := os.Getenv("REFRESH_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Board{}, fmt.Errorf("invalid REFRESH_INTERVAL %q", raw)
		}
		cfg.RefreshInterval = d
	}

	var missing []string

	cfg.APIBaseURL = strings.TrimRight(os.Getenv("API_BASE_URL"), "/")
	if cfg.APIBaseURL == "" {
		missing = append(missing, "API_BASE_URL")
	}
	cfg.AuthSecret = os.Getenv("AUTH_SECRET")
	if cfg.AuthSecret == "" {
		missing = append(missing, "AUTH_SECRET")
	}

	if len(missing) > 0 {
		return Board{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
