// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package session provides project context loading for CLI commands.
package session

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sodascience/metasynth/internal/config"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/provider"
)

var (
	// ErrNotInitialized indicates no metasynth.yaml was found in the current
	// directory.
	ErrNotInitialized = errors.New("not in a metasynth project (metasynth.yaml not found)")

	// ErrInvalidConfig indicates the config file exists but is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// ConfigFileName is the name of the metasynth configuration file.
const ConfigFileName = "metasynth.yaml"

// contextKey is used to store Session in context.Context.
type contextKey struct{}

// Session holds the resolved project configuration: the parsed config file,
// the privacy policy it selects and the provider search list.
type Session struct {
	Config    *config.Config
	Policy    privacy.Policy
	Providers *provider.List
}

// Load loads the project session from the current working directory and
// returns a new context.Context with the Session stored in it.
func Load(ctx context.Context) (context.Context, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current directory: %w", err)
	}

	configPath := filepath.Join(cwd, ConfigFileName)
	if _, statErr := os.Stat(configPath); os.IsNotExist(statErr) {
		return nil, ErrNotInitialized
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if validateErr := cfg.Validate(); validateErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, validateErr)
	}

	policy, err := privacy.ForName(cfg.Privacy.Name, cfg.Privacy.PartitionSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	providers, err := provider.FromNames(cfg.DistProviders...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	sess := &Session{
		Config:    cfg,
		Policy:    policy,
		Providers: providers,
	}
	return context.WithValue(ctx, contextKey{}, sess), nil
}

// From extracts the Session from a context.Context. Returns nil if no Session
// is stored.
func From(ctx context.Context) *Session {
	if sess, ok := ctx.Value(contextKey{}).(*Session); ok {
		return sess
	}
	return nil
}

// FromCommand extracts the Session from a cobra.Command's context. Returns
// nil if no Session is stored.
func FromCommand(cmd *cobra.Command) *Session {
	return From(cmd.Context())
}

// PreRunLoad is a PersistentPreRunE function that loads the project session
// and stores it in the command's context. An uninitialized directory is not
// an error: commands run fine on flags alone, the config only supplies
// defaults.
func PreRunLoad(cmd *cobra.Command, _ []string) error {
	ctx, err := Load(cmd.Context())
	if errors.Is(err, ErrNotInitialized) {
		return nil
	}
	if err != nil {
		return err
	}
	cmd.SetContext(ctx)
	return nil
}
