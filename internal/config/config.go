package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	BotToken    string
	DatabaseURL string
	AdminIDs    []int64
	LogLevel    string
	ServerPort  string
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	viper.AutomaticEnv()
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SERVER_PORT", "8080")

	cfg := Config{
		BotToken:    viper.GetString("BOT_TOKEN"),
		DatabaseURL: viper.GetString("DATABASE_URL"),
		AdminIDs:    ParseAdminIDs(viper.GetString("ADMIN_IDS")),
		LogLevel:    strings.ToLower(viper.GetString("LOG_LEVEL")),
		ServerPort:  viper.GetString("SERVER_PORT"),
	}

	if cfg.BotToken == "" {
		return Config{}, fmt.Errorf("BOT_TOKEN is required")
	}
	if cfg.DatabaseURL == "" {
		return Config{}, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

// ParseAdminIDs parses a comma-separated list of Telegram user IDs.
// Entries that are not plain positive integers are skipped.
func ParseAdminIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}
