package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the leaf analysis service.
type Config struct {
	// Server configuration
	Port        string
	CORSOrigins []string

	// Model configuration
	ModelPath string

	// Upload handling
	UploadDir      string
	MaxUploadBytes int64

	// Mock mode determinism: when MOCK_SEED is set the stub classifier
	// uses it; otherwise the seed is time-based.
	MockSeed    int64
	MockSeedSet bool
}

// Load loads configuration from environment variables.
func Load() *Config {
	seed, seedSet := getOptionalInt64Env("MOCK_SEED")

	return &Config{
		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getStringSliceEnv("CORS_ORIGINS", "*"),

		ModelPath: getEnv("MODEL_PATH", "models/maize_disease_model.json"),

		UploadDir:      getEnv("UPLOAD_DIR", "uploads"),
		MaxUploadBytes: getInt64Env("MAX_UPLOAD_BYTES", 16<<20),

		MockSeed:    seed,
		MockSeedSet: seedSet,
	}
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getInt64Env gets an integer environment variable or returns a default value
func getInt64Env(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getOptionalInt64Env gets an integer environment variable and reports
// whether it was set to a parseable value.
func getOptionalInt64Env(key string) (int64, bool) {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue, true
		}
	}
	return 0, false
}

// getStringSliceEnv gets a comma-separated string environment variable
// and returns it as a string slice
func getStringSliceEnv(key, defaultValue string) []string {
	value := getEnv(key, defaultValue)
	if value == "" {
		return []string{}
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
