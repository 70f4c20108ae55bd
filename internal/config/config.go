package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type AppConfig struct {
	// DataSource is a local CSV path or an http(s) URL.
	DataSource string `env:"DATA_SOURCE" envDefault:"main_data.csv"`

	// ReloadInterval controls how often the dataset is re-read (0 = never).
	ReloadInterval time.Duration `env:"RELOAD_INTERVAL" envDefault:"0"`

	// HTTPTimeout bounds downloads of a remote dataset.
	HTTPTimeout time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`

	// StoreMaxHistory is the number of loaded dataset versions kept in memory (0 = unlimited).
	StoreMaxHistory int `env:"STORE_MAX_HISTORY" envDefault:"3"`

	Port string `env:"PORT" envDefault:"8080"`

	LogFile string `env:"LOG_FILE"`
	LogMode string `env:"LOG_MODE" envDefault:"debug"`
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values env tags cannot express.
func (c *AppConfig) Validate() error {
	if c.DataSource == "" {
		return fmt.Errorf("DATA_SOURCE must not be empty")
	}
	if c.ReloadInterval < 0 {
		return fmt.Errorf("invalid RELOAD_INTERVAL: %s", c.ReloadInterval)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("invalid HTTP_TIMEOUT: %s", c.HTTPTimeout)
	}
	switch c.LogMode {
	case "release", "development", "debug":
	default:
		return fmt.Errorf("invalid LOG_MODE %q: want release, development or debug", c.LogMode)
	}
	return nil
}
