// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package config handles the metasynth.yaml project configuration.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// CurrentConfigVersion is the current version of the config file format.
const CurrentConfigVersion = 1

// Config represents the metasynth.yaml project configuration file.
type Config struct {
	Version       int      `yaml:"version"`
	DistProviders []string `yaml:"dist_providers,omitempty"`
	Privacy       Privacy  `yaml:"privacy,omitempty"`
	Defaults      Defaults `yaml:"defaults,omitempty"`
}

// Privacy selects the privacy policy applied during fitting.
type Privacy struct {
	Name          string `yaml:"name,omitempty"`
	PartitionSize int    `yaml:"partition_size,omitempty"`
}

// Defaults holds fallback values for synthesis.
type Defaults struct {
	NRows int `yaml:"n_rows,omitempty"`
}

// Load reads a Config from a file path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the Config to a file path.
func (c *Config) Save(path string) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := yaml.NewEncoder(f)
	enc.SetIndent(2)
	return enc.Encode(c)
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	if c.Version != CurrentConfigVersion {
		return errors.New("unsupported config version")
	}
	switch c.Privacy.Name {
	case "", "none", "disclosure":
	default:
		return fmt.Errorf("unknown privacy policy %q", c.Privacy.Name)
	}
	if c.Privacy.PartitionSize < 0 {
		return errors.New("partition_size must not be negative")
	}
	if c.Defaults.NRows < 0 {
		return errors.New("n_rows must not be negative")
	}
	return nil
}
