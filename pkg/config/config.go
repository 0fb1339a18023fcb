// Package config reads runtime settings from the environment and
// generation presets from YAML or JSON files.
package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const environmentProduction = "production"

// Config holds the application configuration
type Config struct {
	Environment string
	Port        int
	OutputDir   string // where the CLI, TUI and server save generated files
	LogLevel    string
	CORSOrigins []string // comma separated in CORS_ORIGINS
}

// LoadEnv loads .env style files into the process environment. Missing
// files are not an error.
func LoadEnv(files ...string) error {
	err := godotenv.Load(files...)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Load reads the configuration from environment variables
func Load() *Config {
	port, err := strconv.Atoi(getEnv("PORT", "8080"))
	if err != nil || port <= 0 || port > 65535 {
		port = 8080
	}
	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Port:        port,
		OutputDir:   getEnv("MELODYGEN_OUTPUT_DIR", "."),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsProduction reports whether ENVIRONMENT is "production"
func (c *Config) IsProduction() bool {
	return c.Environment == environmentProduction
}

// SlogLevel maps LogLevel onto a slog level; unknown names mean info
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
