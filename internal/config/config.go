// internal/config/config.go
package config

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Config holds the client's environment-driven settings.
type Config struct {
	// ServerURL is the websocket endpoint of the game server.
	ServerURL string
	// LogLevel is a logrus level name (error, warn, info, debug, ...).
	LogLevel string
}

// FromEnv reads the configuration from environment variables:
//   - TRIAD_SERVER_URL (default "wss://localhost:8080/ws")
//   - TRIAD_LOG_LEVEL (default "info")
func FromEnv() Config {
	return Config{
		ServerURL: getEnv("TRIAD_SERVER_URL", "wss://localhost:8080/ws"),
		LogLevel:  getEnv("TRIAD_LOG_LEVEL", "info"),
	}
}

// ParseLogLevel resolves the configured level, falling back to info when the
// value is unknown.
func (c Config) ParseLogLevel() logrus.Level {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.InfoLevel
	}
	return lvl
}

// getEnv is a helper to read an environment variable or return a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}
