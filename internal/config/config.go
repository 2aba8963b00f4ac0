package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	ProviderBaseURL string
	ProviderAPIKey  string
	DBPath          string
	ServerPort      string
	LogLevel        string

	// HistoryLookbackDays bounds how far back session analytics reach by
	// default.
	HistoryLookbackDays int
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ProviderBaseURL:     getEnv("PROVIDER_BASE_URL", "https://api.opendota.com/api"),
		ProviderAPIKey:      getEnv("PROVIDER_API_KEY", ""),
		DBPath:              getEnv("DB_PATH", "coach.db"),
		ServerPort:          getEnv("SERVER_PORT", "8080"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		HistoryLookbackDays: getEnvInt("HISTORY_LOOKBACK_DAYS", 90),
	}

	logger.Info().
		Str("provider_base_url", cfg.ProviderBaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("history_lookback_days", cfg.HistoryLookbackDays).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
