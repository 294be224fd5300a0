package config

import (
	"fmt"
	"os"
)

// AppConfig holds server configuration, loaded from the environment.
type AppConfig struct {
	Port          string
	DBDriver      string
	DBConn        string
	LogLevel      string
	AdjustTargets bool
}

// NewAppConfig loads server configuration from environment variables.
func NewAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		Port:          getEnv("PORT", "8080"),
		DBDriver:      getEnv("DB_DRIVER", "sqlite"),
		DBConn:        getEnv("DB_CONN", "wishful.db"),
		LogLevel:      getEnv("LOG_LEVEL", "INFO"),
		AdjustTargets: getEnv("ADJUST_TARGETS", "") == "true",
	}

	if cfg.DBDriver != "sqlite" && cfg.DBDriver != "postgres" {
		return nil, fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", cfg.DBDriver)
	}
	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
