package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the application configuration

type Config struct {
	DatabasePath      string
	WebhookURL        string
	BrowserURL        string
	CronSchedule      string
	UpdateConcurrency int
}

const (
	defaultDatabasePath = "database/mangatracker.db"
	defaultCronSchedule = "@every 6h"
	defaultConcurrency  = 5
)

// Load loads the configuration from environment variables

func Load() (*Config, error) {
	// A missing .env file is fine when the variables come from the
	// environment itself (containers).
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:      getEnv("DATABASE_PATH", defaultDatabasePath),
		WebhookURL:        os.Getenv("WEBHOOK_URL"),
		BrowserURL:        os.Getenv("BROWSER_URL"),
		CronSchedule:      getEnv("CRON_SCHEDULE", defaultCronSchedule),
		UpdateConcurrency: defaultConcurrency,
	}

	if raw := os.Getenv("UPDATE_CONCURRENCY"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid UPDATE_CONCURRENCY %q", raw)
		}
		cfg.UpdateConcurrency = n
	}

	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("WEBHOOK_URL is not set")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
