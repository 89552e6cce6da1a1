// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:8081"] (Expo dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// UploadDir is the directory image files are stored under.
	// Created at startup if it does not exist. Defaults to "uploads".
	UploadDir string

	// PublicBasePath is the URL path prefix uploaded files are served from
	// and that stored photo URLs are relative to. Defaults to "/uploads".
	PublicBasePath string

	// MaxUploadBytes caps the size of a single multipart submission.
	// Defaults to 50 MiB.
	MaxUploadBytes int64

	// ReconcileOnStart, when true, runs an orphan-file sweep at startup:
	// stored files no photo row references are deleted. Defaults to false.
	ReconcileOnStart bool
}

// Load reads configuration from environment variables and returns a Config.
// A .env file in the working directory is loaded first if present, so local
// development does not need exported variables.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Ignore the error: a missing .env file simply means the environment
	// is configured externally.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:8081")),
		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		PublicBasePath: "/" + strings.Trim(getEnv("PUBLIC_BASE_PATH", "/uploads"), "/"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	maxUpload, err := parseInt64(getEnv("MAX_UPLOAD_BYTES", "52428800"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err)
	}
	cfg.MaxUploadBytes = maxUpload

	cfg.ReconcileOnStart, err = strconv.ParseBool(getEnv("RECONCILE_ON_START", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid RECONCILE_ON_START: %w", err)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
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

// parseInt64 parses a positive decimal integer.
func parseInt64(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("must be positive, got %d", n)
	}
	return n, nil
}
