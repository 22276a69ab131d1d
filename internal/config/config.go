package config

import (
	"os"
	"strconv"

	"stocksheet/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Import   ImportConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	URL string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port string
}

// ImportConfig holds spreadsheet import settings
type ImportConfig struct {
	// DataDir is the default directory scanned by batch imports.
	DataDir string
	// MappingFile optionally points at a JSON file overriding the built-in
	// column mapping.
	MappingFile string
	// HistoryLimit caps import-history listings.
	HistoryLimit int
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Server: ServerConfig{
			Port: getEnvOrDefault("PORT", "8080"),
		},
		Import: ImportConfig{
			DataDir:      getEnvOrDefault("DATA_DIR", "./data"),
			MappingFile:  os.Getenv("MAPPING_FILE"),
			HistoryLimit: getEnvIntOrDefault("IMPORT_HISTORY_LIMIT", 100),
		},
	}

	if cfg.Database.URL == "" {
		return nil, errors.ConfigInvalid("DATABASE_URL is required")
	}
	return cfg, nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
