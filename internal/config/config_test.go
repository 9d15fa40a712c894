package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "test-token", cfg.TelegramBotToken)
	require.Equal(t, "postgres://localhost/test", cfg.DatabaseURL)
	require.Equal(t, "RUB", cfg.DefaultCurrency)
	require.Equal(t, ModePolling, cfg.Mode)
	require.Equal(t, ":8080", cfg.ListenAddr)
	require.Equal(t, "/webhook", cfg.WebhookPath)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("DEFAULT_CURRENCY", "USD")
	t.Setenv("MODE", ModeWebhook)
	t.Setenv("LISTEN_ADDR", ":9090")
	t.Setenv("WEBHOOK_PATH", "/tg/updates")

	cfg, err := Load()
	require.NoError(t, err)

	require.Equal(t, "USD", cfg.DefaultCurrency)
	require.Equal(t, ModeWebhook, cfg.Mode)
	require.Equal(t, ":9090", cfg.ListenAddr)
	require.Equal(t, "/tg/updates", cfg.WebhookPath)
}

func TestLoadMissingRequired(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "TELEGRAM_BOT_TOKEN is required")
	require.Contains(t, err.Error(), "DATABASE_URL is required")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			TelegramBotToken: "token",
			DatabaseURL:      "postgres://localhost/test",
			DefaultCurrency:  "RUB",
			Mode:             ModePolling,
			ListenAddr:       ":8080",
			WebhookPath:      "/webhook",
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, base().validate())
	})

	t.Run("bad mode", func(t *testing.T) {
		cfg := base()
		cfg.Mode = "carrier-pigeon"
		err := cfg.validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "MODE")
	})

	t.Run("currency too short", func(t *testing.T) {
		cfg := base()
		cfg.DefaultCurrency = "R"
		require.Error(t, cfg.validate())
	})

	t.Run("webhook path without slash", func(t *testing.T) {
		cfg := base()
		cfg.WebhookPath = "webhook"
		err := cfg.validate()
		require.Error(t, err)
		require.Contains(t, err.Error(), "WEBHOOK_PATH")
	})
}
