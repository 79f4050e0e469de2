package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration, loaded from the environment.
type Config struct {
	Port string `env:"PORT" envDefault:"8080"`

	// SheetURL is the CSV export of the demographics spreadsheet feed.
	SheetURL string `env:"SHEET_URL"`

	// RefreshInterval re-runs ingestion in the background; 0 disables it.
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"0"`

	// OpenAI relevance gate. Empty API key disables the gate entirely.
	OpenAIAPIKey string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	// StaticDir, when set, is served at / for the bundled web UI.
	StaticDir string `env:"STATIC_DIR"`

	AllowedOrigins string `env:"ALLOWED_ORIGINS" envDefault:"*"`
}

// Load parses configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	return cfg, nil
}
