package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the CLI configuration.
type Config struct {
	CatalogPath   string `yaml:"catalog_path"`
	SchoolsPath   string `yaml:"schools_path"`
	DatabaseDSN   string `yaml:"database_dsn"`
	ReadingsTable string `yaml:"readings_table,omitempty"`
	OutputDir     string `yaml:"output_dir,omitempty"`
}

// DefaultConfigPath is the config file looked up when --config is not set.
func DefaultConfigPath() string {
	return "config.yaml"
}

// LoadConfig reads the config file and applies defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if cfg.DatabaseDSN == "" {
		cfg.DatabaseDSN = os.Getenv("ENERGY_DASHBOARD_DSN")
	}
	if cfg.CatalogPath == "" {
		cfg.CatalogPath = "charts.yaml"
	}
	if cfg.SchoolsPath == "" {
		cfg.SchoolsPath = "schools.yaml"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return &cfg, nil
}
