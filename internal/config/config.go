package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

const (
	SourceJSON   = "json"
	SourceSQLite = "sqlite"
)

type Config struct {
	ServerPort     string
	DocsDir        string
	DataSource     string
	DataPath       string
	DBPath         string
	LogLevel       string
	AllowedOrigins []string
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		DocsDir:        getEnv("DOCS_DIR", "docs"),
		DataSource:     strings.ToLower(getEnv("DATA_SOURCE", SourceJSON)),
		DataPath:       getEnv("DATA_PATH", "docs/static/game-data.json"),
		DBPath:         getEnv("DB_PATH", "docs/static/game-data.db"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger.Info().
		Str("server_port", cfg.ServerPort).
		Str("docs_dir", cfg.DocsDir).
		Str("data_source", cfg.DataSource).
		Str("data_path", cfg.DataPath).
		Str("db_path", cfg.DBPath).
		Str("log_level", cfg.LogLevel).
		Msg("configuration loaded")

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DataSource {
	case SourceJSON:
		if c.DataPath == "" {
			return fmt.Errorf("DATA_PATH is required when DATA_SOURCE=%s", SourceJSON)
		}
	case SourceSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH is required when DATA_SOURCE=%s", SourceSQLite)
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be %q or %q, got %q", SourceJSON, SourceSQLite, c.DataSource)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var Module = fx.Provide(Load)
