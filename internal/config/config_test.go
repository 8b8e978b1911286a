// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := filepath.Join(tmpDir, "metasynth.yaml")

	cfg := Config{
		Version:       1,
		DistProviders: []string{"builtin", "disclosure"},
		Privacy:       Privacy{Name: "disclosure", PartitionSize: 15},
		Defaults:      Defaults{NRows: 250},
	}

	err := cfg.Save(cfgPath)
	require.NoError(t, err)

	loaded, err := Load(cfgPath)
	require.NoError(t, err)

	assert.Equal(t, cfg.Version, loaded.Version)
	assert.Equal(t, cfg.DistProviders, loaded.DistProviders)
	assert.Equal(t, cfg.Privacy, loaded.Privacy)
	assert.Equal(t, cfg.Defaults, loaded.Defaults)
}

func TestConfig_LoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "valid config",
			cfg:     Config{Version: 1},
			wantErr: "",
		},
		{
			name:    "valid disclosure config",
			cfg:     Config{Version: 1, Privacy: Privacy{Name: "disclosure", PartitionSize: 11}},
			wantErr: "",
		},
		{
			name:    "unsupported version",
			cfg:     Config{Version: 99},
			wantErr: "unsupported config version",
		},
		{
			name:    "unknown privacy policy",
			cfg:     Config{Version: 1, Privacy: Privacy{Name: "homomorphic"}},
			wantErr: "unknown privacy policy",
		},
		{
			name:    "negative partition size",
			cfg:     Config{Version: 1, Privacy: Privacy{Name: "disclosure", PartitionSize: -1}},
			wantErr: "partition_size must not be negative",
		},
		{
			name:    "negative n_rows",
			cfg:     Config{Version: 1, Defaults: Defaults{NRows: -5}},
			wantErr: "n_rows must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
