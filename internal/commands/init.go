// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sodascience/metasynth/internal/config"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/prompts"
	"github.com/sodascience/metasynth/internal/provider"
)

type initOptions struct {
	providers      []string
	privacyName    string
	partitionSize  int
	nRows          int
	nonInteractive bool
}

func newInitCmd() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new metasynth project",
		Long: `Initialize a new metasynth project with a metasynth.yaml configuration
file that records the distribution providers, the privacy policy and the
synthesis defaults used by the other commands.`,
		Example: `  # Interactive mode
  metasynth init

  # Non-interactive
  metasynth init --providers builtin --non-interactive
  metasynth init --providers builtin,disclosure --privacy disclosure --non-interactive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.providers, "providers", "p", nil, "Distribution providers, in search order")
	cmd.Flags().StringVar(&opts.privacyName, "privacy", "none", "Privacy policy (none or disclosure)")
	cmd.Flags().IntVar(&opts.partitionSize, "partition-size", 0, "Micro aggregation partition size for disclosure control")
	cmd.Flags().IntVar(&opts.nRows, "n-rows", 100, "Default number of synthetic rows")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts (requires --providers)")

	return cmd
}

func runInit(opts *initOptions) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	// Check that the current directory isn't already initialized
	cfgPath := filepath.Join(cwd, "metasynth.yaml")
	if _, err := os.Stat(cfgPath); err == nil {
		return errors.New("metasynth.yaml already exists; project already initialized")
	}

	if opts.nonInteractive {
		if len(opts.providers) == 0 {
			return errors.New("non-interactive mode requires --providers")
		}
	} else {
		answers, err := prompts.RunInitForm(provider.Available())
		if err != nil {
			return err
		}
		opts.providers = answers.Providers
		opts.privacyName = answers.PrivacyName
		opts.partitionSize = answers.PartitionSize
		opts.nRows = answers.NRows
	}

	for _, name := range opts.providers {
		if _, err := provider.Get(name); err != nil {
			return err
		}
	}
	if _, err := privacy.ForName(opts.privacyName, opts.partitionSize); err != nil {
		return err
	}

	cfg := config.Config{
		Version:       config.CurrentConfigVersion,
		DistProviders: opts.providers,
		Privacy: config.Privacy{
			Name:          opts.privacyName,
			PartitionSize: opts.partitionSize,
		},
		Defaults: config.Defaults{NRows: opts.nRows},
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := cfg.Save(cfgPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Config", Value: "metasynth.yaml"},
	}, "Initialization completed")
	return nil
}
