package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by the HTTP adapter
const (
	EnvAddr      = "FINPLAN_ADDR"
	EnvLogLevel  = "FINPLAN_LOG_LEVEL"
	EnvLogFormat = "FINPLAN_LOG_FORMAT"
)

// ServerSettings configures the HTTP adapter
type ServerSettings struct {
	Addr      string
	LogLevel  string
	LogFormat string
}

// DefaultServerSettings returns the settings used when nothing is configured
func DefaultServerSettings() ServerSettings {
	return ServerSettings{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "json",
	}
}

// LoadServerSettings reads settings from the environment after loading
// envFiles into it. Missing env files are ignored; variables already set
// in the process environment win over file values.
func LoadServerSettings(envFiles ...string) (ServerSettings, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return ServerSettings{}, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	settings := DefaultServerSettings()
	if v := strings.TrimSpace(os.Getenv(EnvAddr)); v != "" {
		settings.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		settings.LogLevel = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		settings.LogFormat = v
	}
	return settings, nil
}
