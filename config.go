/*
Package main
File: config.go
Description: Server configuration. Loaded from 'server.yaml' when present;
a missing file runs the shipped defaults so a bare checkout starts cleanly.
*/

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/everforgeworks/colony-logistics/internal/pricing"
)

// Config stores the process-level settings.
type Config struct {
	Addr       string         `yaml:"addr"`        // Listen address (default ":8081")
	GalaxyFile string         `yaml:"galaxy_file"` // Path to the reference data file
	PulseSecs  int            `yaml:"pulse_seconds"`
	Pricing    pricing.Params `yaml:"pricing"`
}

// DefaultConfig returns the shipped settings.
func DefaultConfig() Config {
	return Config{
		Addr:       ":8081",
		GalaxyFile: "data/galaxy.yaml",
		PulseSecs:  60,
		Pricing:    pricing.DefaultParams(),
	}
}

// LoadServerConfig reads 'path' over the defaults.
// Absent file -> defaults; unreadable or invalid file -> error.
func LoadServerConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	// Unmarshal over the populated struct so partial files keep defaults.
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	if cfg.PulseSecs <= 0 {
		cfg.PulseSecs = DefaultConfig().PulseSecs
	}

	switch cfg.Pricing.Policy {
	case pricing.PolicyFlat, pricing.PolicyMarket:
	default:
		return cfg, fmt.Errorf("unknown pricing policy %q", cfg.Pricing.Policy)
	}
	return cfg, nil
}
