package config

import (
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"os"
)

// Config holds application configuration values loaded from environment variables.
type Config struct {
	HTTPPort       string
	BackendBaseURL string
	RequestTimeout time.Duration
	SnapshotDBPath string
	SeedConfigPath string // optional local YAML seed file; overrides the backend config
}

// LoadConfig loads configuration from environment variables.
// It looks for a .env file first, then checks actual environment variables.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file (useful for development)
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded, using environment variables only")
	}

	port := getEnv("HTTP_PORT", "8080")
	backendURL := getEnv("BACKEND_BASE_URL", "http://localhost:5000")
	dbPath := getEnv("SNAPSHOT_DB_PATH", "data/snapshots.db")
	seedPath := getEnv("SEED_CONFIG_PATH", "")

	timeoutStr := getEnv("BACKEND_TIMEOUT_SECONDS", "120")
	timeoutSecs, err := strconv.Atoi(timeoutStr)
	if err != nil || timeoutSecs < 1 {
		log.Warn().Str("value", timeoutStr).Msg("invalid BACKEND_TIMEOUT_SECONDS, using default 120s")
		timeoutSecs = 120
	}

	cfg := &Config{
		HTTPPort:       port,
		BackendBaseURL: backendURL,
		RequestTimeout: time.Duration(timeoutSecs) * time.Second,
		SnapshotDBPath: dbPath,
		SeedConfigPath: seedPath,
	}

	log.Info().
		Str("port", cfg.HTTPPort).
		Str("backend", cfg.BackendBaseURL).
		Dur("timeout", cfg.RequestTimeout).
		Str("snapshot_db", cfg.SnapshotDBPath).
		Msg("configuration loaded")

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
