// Package config loads service configuration from the environment.
//
// Sources, highest priority first:
//  1. Environment variables (QUOTES_* via envconfig)
//  2. Defaults baked into the struct tags
//
// A .env file, if present, is loaded by main before Load runs.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds every runtime binding the service needs. The embedding and
// generation capabilities, the vector index, and the relational store are all
// reached through these values; nothing else is read from the environment.
type Config struct {
	Port           string `envconfig:"PORT" default:"8080"`
	GeminiAPIKey   string `envconfig:"GEMINI_API_KEY"`
	ChromaURL      string `envconfig:"CHROMA_URL" default:"http://localhost:8000"`
	CollectionName string `envconfig:"COLLECTION" default:"quotes"`
	DBPath         string `envconfig:"DB_PATH" default:"quotes.db"`
	EmbedModel     string `envconfig:"EMBED_MODEL" default:"gemini-embedding-001"`
	GenerateModel  string `envconfig:"GENERATE_MODEL" default:"gemini-2.5-flash"`
	LogLevel       string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from QUOTES_-prefixed environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("quotes", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}
	if cfg.GeminiAPIKey == "" {
		return nil, fmt.Errorf("QUOTES_GEMINI_API_KEY is not set")
	}
	return &cfg, nil
}

// SlogLevel maps the configured log level string to a slog.Level.
// Unknown values fall back to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
