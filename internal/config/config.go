// Package config loads runtime options from the environment. Root flags in
// cmd/sliders override whatever is parsed here.
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/idilsaglam/sliders/internal/allocation"
)

// Store backends.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Default data files, relative to the working directory.
const (
	DefaultJSONFile   = "allocations.json"
	DefaultSQLiteFile = "allocations.db"
)

type Config struct {
	Max  decimal.Decimal `env:"SLIDERS_MAX" envDefault:"100"`
	Min  decimal.Decimal `env:"SLIDERS_MIN" envDefault:"0"`
	Step decimal.Decimal `env:"SLIDERS_STEP" envDefault:"1"`

	Store    string `env:"SLIDERS_STORE" envDefault:"json"`
	DataPath string `env:"SLIDERS_DATA"`

	Theme     string `env:"SLIDERS_THEME" envDefault:"classic"`
	NameLimit int    `env:"SLIDERS_NAME_LIMIT" envDefault:"32"`

	// Token authenticates import/export against a remote endpoint.
	Token string `env:"SLIDERS_TOKEN"`

	LogFile  string `env:"SLIDERS_LOG_FILE"`
	LogLevel string `env:"SLIDERS_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks option values that the parser cannot.
func (c Config) Validate() error {
	switch strings.ToLower(c.Store) {
	case StoreJSON, StoreSQLite:
	default:
		return fmt.Errorf("config: unknown store %q (want %s or %s)", c.Store, StoreJSON, StoreSQLite)
	}
	if c.NameLimit <= 0 {
		return fmt.Errorf("config: name limit must be positive, got %d", c.NameLimit)
	}
	return nil
}

// Allocation returns the bounds handed to the allocation set.
func (c Config) Allocation() allocation.Config {
	return allocation.Config{Min: c.Min, Max: c.Max, Step: c.Step}
}

// ResolvedDataPath fills in the backend's default file when none was given.
func (c Config) ResolvedDataPath() string {
	if c.DataPath != "" {
		return c.DataPath
	}
	if strings.EqualFold(c.Store, StoreSQLite) {
		return DefaultSQLiteFile
	}
	return DefaultJSONFile
}
