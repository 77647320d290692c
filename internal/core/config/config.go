package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	WebhookURL    string
	WebhookSecret string
	Env           string
}

// LoadConfig reads .env if present and returns a Config struct. A
// missing .env is fine in production, where real env vars are set.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, relying on system env variables")
	}

	return &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		Env:           getEnv("ENV", "development"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
