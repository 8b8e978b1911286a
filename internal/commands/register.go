// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package commands contains all CLI command definitions.
package commands

import (
	"github.com/spf13/cobra"

	// Provider packages self-register on import; their registration order is
	// the default search order.
	_ "github.com/sodascience/metasynth/internal/dist/builtin"
	_ "github.com/sodascience/metasynth/internal/dist/disclosure"
)

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "metasynth",
		Short: "Generate synthetic tabular data from fitted column distributions",
	}

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newFitCmd())
	rootCmd.AddCommand(newSynthesizeCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newValidateCmd())
	rootCmd.AddCommand(newVersionCmd())
	registerProvidersCmd(rootCmd)
	registerDistsCmd(rootCmd)

	return rootCmd
}

func registerProvidersCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Inspect registered distribution providers",
	}
	cmd.AddCommand(newProvidersListCmd())
	parent.AddCommand(cmd)
}

func registerDistsCmd(parent *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "dists",
		Short: "Inspect available distributions",
	}
	cmd.AddCommand(newDistsListCmd())
	parent.AddCommand(cmd)
}
