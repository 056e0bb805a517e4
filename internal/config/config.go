// Package config reads flexc settings from the environment. A .env file in
// the working directory is loaded first when present.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds the FLEXFORM_* settings the CLI runs with.
type Config struct {
	DBPath         string
	LogLevel       slog.Level
	Lang           string
	StrictEnvelope bool
	MaxPatchDepth  int
}

const (
	DefaultDBPath   = "flexform.db"
	DefaultLang     = "en"
	defaultLogLevel = slog.LevelInfo
)

// LoadDotEnv loads .env without overriding variables already set. A missing
// file is not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); os.IsNotExist(err) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("failed to load %s: %w", f, err)
		}
	}
	return nil
}

// ReadConfig reads FLEXFORM_* variables. Malformed numbers and booleans fall
// back to their defaults.
func ReadConfig() *Config {
	return &Config{
		DBPath:         getEnvOrDefault("FLEXFORM_DB_PATH", DefaultDBPath),
		LogLevel:       parseLevel(os.Getenv("FLEXFORM_LOG_LEVEL")),
		Lang:           strings.ToLower(getEnvOrDefault("FLEXFORM_LANG", DefaultLang)),
		StrictEnvelope: cast.ToBool(os.Getenv("FLEXFORM_STRICT_ENVELOPE")),
		MaxPatchDepth:  cast.ToInt(os.Getenv("FLEXFORM_MAX_PATCH_DEPTH")),
	}
}

func parseLevel(s string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return defaultLogLevel
	}
	return l
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}
