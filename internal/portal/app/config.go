package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	BackendBaseURL string // Optional: appointment backend base URL (default: http://localhost:8080)

	DatabaseFile string // Optional: path to SQLite session database file (default: ./carebook.db)
	SealKeyFile  string // Optional: path to the credential sealing key file (default: ./seal.key)

	Env       string // Environment (dev, staging, prod) (default: dev)
	LogLevel  string // Log level (debug, info, warn, error) (default: info)
	LogFormat string // Log format (json, text) (default: json)

	RequestTimeout time.Duration // Optional: per-request backend timeout (default: 8s)
	RetryDelay     time.Duration // Optional: delay between startup verification retries (default: 2s)
	RetryAttempts  int           // Optional: extra verification attempts on transient failure (default: 3)
}

func LoadConfig() Config {
	return Config{
		BackendBaseURL: getEnvOrDefault("CAREBOOK_BACKEND_URL", "http://localhost:8080"),
		DatabaseFile:   getEnvOrDefault("CAREBOOK_DATABASE_FILE", "carebook.db"),
		SealKeyFile:    getEnvOrDefault("CAREBOOK_SEAL_KEY_FILE", "seal.key"),
		Env:            getEnvOrDefault("ENV", "dev"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "json"),
		RequestTimeout: getEnvDurationOrDefault("CAREBOOK_REQUEST_TIMEOUT", 8*time.Second),
		RetryDelay:     getEnvDurationOrDefault("CAREBOOK_RETRY_DELAY", 2*time.Second),
		RetryAttempts:  getEnvIntOrDefault("CAREBOOK_RETRY_ATTEMPTS", 3),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are read as seconds
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second
	}

	return defaultValue
}
