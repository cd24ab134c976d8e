package app

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/roomstead/roomstead/pkg/tokenx"
)

type Config struct {
	Issuer     string        // Optional: issuer claim for tokens (default: roomstead)
	Audience   string        // Optional: audience claim for tokens (default: roomstead)
	Secret     string        // Required: HS256 signing secret for token pairs
	AccessTTL  time.Duration // Optional: access token lifetime (default: 15m)
	RefreshTTL time.Duration // Optional: refresh token lifetime (default: 720h)

	DatabaseFile         string        // Optional: path to SQLite database file (default: ./hotel.db)
	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired session sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:     getEnvOrDefault("HOTEL_ISSUER", "roomstead"),
		Audience:   getEnvOrDefault("HOTEL_AUDIENCE", "roomstead"),
		Secret:     os.Getenv("HOTEL_TOKEN_SECRET"),
		AccessTTL:  getEnvDurationOrDefault("HOTEL_ACCESS_TTL", 15*time.Minute),
		RefreshTTL: getEnvDurationOrDefault("HOTEL_REFRESH_TTL", 30*24*time.Hour),

		DatabaseFile:         getEnvOrDefault("HOTEL_DATABASE_FILE", "hotel.db"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", time.Hour),
	}
}

func (c Config) Validate() error {
	if c.Secret == "" {
		return errors.New("HOTEL_TOKEN_SECRET must be set")
	}
	return c.Tokens().Validate()
}

// Tokens derives the token service configuration.
func (c Config) Tokens() tokenx.Config {
	return tokenx.Config{
		Issuer:     c.Issuer,
		Audience:   c.Audience,
		AccessTTL:  c.AccessTTL,
		RefreshTTL: c.RefreshTTL,
		Secret:     c.Secret,
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

	// Integer values are read as minutes.
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
