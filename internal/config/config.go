package config

import (
	"fmt"
	"os"
)

type Config struct {
	DBSource      string
	Port          string
	Env           string
	AdminUsername string
	AdminPassword string
}

func Load() (*Config, error) {
	dbSource := os.Getenv("DB_SOURCE")
	if dbSource == "" {
		return nil, fmt.Errorf("DB_SOURCE environment variable is required")
	}

	// The shared credential pair is injected at startup, never hardcoded.
	adminUsername := os.Getenv("LEDGER_ADMIN_USERNAME")
	adminPassword := os.Getenv("LEDGER_ADMIN_PASSWORD")
	if adminUsername == "" || adminPassword == "" {
		return nil, fmt.Errorf("LEDGER_ADMIN_USERNAME and LEDGER_ADMIN_PASSWORD environment variables are required")
	}

	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	return &Config{
		DBSource:      dbSource,
		Port:          port,
		Env:           env,
		AdminUsername: adminUsername,
		AdminPassword: adminPassword,
	}, nil
}
