// Package config provides application configuration loading from environment.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Run modes for the bot transport.
const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Config holds all configuration for the application.
type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	DefaultCurrency  string
	LogLevel         string
	Mode             string
	ListenAddr       string
	WebhookPath      string
}

// Load reads configuration from environment variables. A .env file is
// honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		TelegramBotToken: getenv("TELEGRAM_BOT_TOKEN", ""),
		DatabaseURL:      getenv("DATABASE_URL", ""),
		DefaultCurrency:  getenv("DEFAULT_CURRENCY", "RUB"),
		LogLevel:         getenv("LOG_LEVEL", ""),
		Mode:             getenv("MODE", ModePolling),
		ListenAddr:       getenv("LISTEN_ADDR", ":8080"),
		WebhookPath:      getenv("WEBHOOK_PATH", "/webhook"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate checks that all required configuration is present.
func (c *Config) validate() error {
	var errs []string

	if c.TelegramBotToken == "" {
		errs = append(errs, "TELEGRAM_BOT_TOKEN is required")
	}

	if c.DatabaseURL == "" {
		errs = append(errs, "DATABASE_URL is required")
	}

	if c.Mode != ModePolling && c.Mode != ModeWebhook {
		errs = append(errs, fmt.Sprintf("MODE must be %q or %q", ModePolling, ModeWebhook))
	}

	if n := len(c.DefaultCurrency); n < 3 || n > 5 {
		errs = append(errs, "DEFAULT_CURRENCY must be 3 to 5 characters")
	}

	if !strings.HasPrefix(c.WebhookPath, "/") {
		errs = append(errs, "WEBHOOK_PATH must start with /")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
