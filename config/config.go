/*
config.go - Runtime configuration of the till server

PURPOSE:
  Collects every tunable of cmd/server in one struct read from the
  environment. An optional .env file next to the binary is loaded first, so
  a stall laptop can be configured without touching the shell profile.

PRECEDENCE (highest first):
  1. command-line flags (applied by cmd/server after Load)
  2. variables already set in the environment
  3. the .env file
  4. envDefault tags below
*/
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port           int           `env:"CAIXA_PORT" envDefault:"8080"`
	CatalogPath    string        `env:"CAIXA_CATALOG_PATH" envDefault:"produtos.json"`
	CatalogBackend string        `env:"CAIXA_CATALOG_BACKEND" envDefault:"json"`
	ExportDir      string        `env:"CAIXA_EXPORT_DIR" envDefault:"."`
	ReportLines    int           `env:"CAIXA_REPORT_PAGE_LINES" envDefault:"0"`
	BackupInterval time.Duration `env:"CAIXA_BACKUP_INTERVAL" envDefault:"5m"`
	LogLevel       string        `env:"CAIXA_LOG_LEVEL" envDefault:"info"`
	AllowedOrigins []string      `env:"CAIXA_ALLOWED_ORIGINS" envDefault:"http://localhost:5173,http://localhost:8080" envSeparator:","`
}

// Load reads envFile (when non-empty and present) and then the environment.
// A missing envFile is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.CatalogBackend = strings.ToLower(strings.TrimSpace(cfg.CatalogBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration invariants. cmd/server calls it again after
// applying flags.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.Port)
	}
	if c.CatalogBackend != BackendJSON && c.CatalogBackend != BackendSQLite {
		return fmt.Errorf("invalid catalog backend %q: want %s or %s", c.CatalogBackend, BackendJSON, BackendSQLite)
	}
	if strings.TrimSpace(c.CatalogPath) == "" {
		return errors.New("catalog path is required")
	}
	if c.BackupInterval < 0 {
		return fmt.Errorf("CAIXA_BACKUP_INTERVAL must be >= 0, got %s", c.BackupInterval)
	}
	if c.ReportLines < 0 {
		return fmt.Errorf("CAIXA_REPORT_PAGE_LINES must be >= 0, got %d", c.ReportLines)
	}
	return nil
}

func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
