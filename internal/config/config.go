// Package config reads and writes the tally.yaml project configuration.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Business BusinessConfig `yaml:"business"`
	Storage  StorageConfig  `yaml:"storage"`
	Events   EventsConfig   `yaml:"events,omitempty"`
	Ledger   LedgerConfig   `yaml:"ledger"`
}

// BusinessConfig identifies the business entity.
type BusinessConfig struct {
	Name string `yaml:"name"`
}

// StorageConfig locates the authoritative store.
type StorageConfig struct {
	Path string `yaml:"path"` // sqlite database file
}

// EventsConfig controls change-notification publishing. Empty brokers
// disable publishing entirely.
type EventsConfig struct {
	Brokers []string `yaml:"brokers,omitempty"`
	Topic   string   `yaml:"topic,omitempty"`
}

// LedgerConfig holds ledger tunables.
type LedgerConfig struct {
	TrialBalanceTolerance string `yaml:"trial_balance_tolerance"`
}

// Load reads a tally.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(businessName string) *Config {
	return &Config{
		Business: BusinessConfig{Name: businessName},
		Storage:  StorageConfig{Path: "tally.db"},
		Events:   EventsConfig{Topic: "tally.transactions"},
		Ledger:   LedgerConfig{TrialBalanceTolerance: "0.01"},
	}
}
