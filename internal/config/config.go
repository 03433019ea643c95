// Package config centralises configuration parsing for the claim service.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config captures runtime configuration values for the claim service.
type Config struct {
	HTTPAddress    string
	DatabaseURL    string        // Document store connection string; empty means no store.
	DatabaseName   string        // Database holding the activity/metric/claim collections.
	ConnectTimeout time.Duration // Budget for the startup store ping.
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	Debug          bool
}

// Load reads environment variables into Config. A .env file in the working
// directory is honoured when present.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		HTTPAddress:    ":" + getEnv("PORT", "8000"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		DatabaseName:   getEnv("DATABASE_NAME", ""),
		ConnectTimeout: getDurationEnv("CONNECT_TIMEOUT", 10*time.Second),
		ReadTimeout:    getDurationEnv("HTTP_READ_TIMEOUT", 5*time.Second),
		WriteTimeout:   getDurationEnv("HTTP_WRITE_TIMEOUT", 10*time.Second),
		IdleTimeout:    getDurationEnv("HTTP_IDLE_TIMEOUT", 60*time.Second),
		Debug:          getBoolEnv("DEBUG", false),
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
