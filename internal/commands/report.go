// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sodascience/metasynth/internal/metaframe"
	"github.com/sodascience/metasynth/internal/prompts"
	"github.com/sodascience/metasynth/internal/provider"
	"github.com/sodascience/metasynth/internal/report"
)

type reportOptions struct {
	output    string
	providers []string
}

func newReportCmd() *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report <metadata.json>",
		Short: "Write a markdown report for fitted metadata",
		Long: `Render a human-readable markdown summary of a GMF metadata file: the
selected distribution, parameters and freshly drawn examples per column.`,
		Example: `  # Write report.md next to the metadata
  metasynth report metadata.json -o report.md`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "report.md", "Output markdown path")
	cmd.Flags().StringSliceVarP(&opts.providers, "providers", "p", nil, "Distribution providers used to restore the metadata")

	return cmd
}

func runReport(metaPath string, opts *reportOptions) error {
	providers, err := provider.FromNames(opts.providers...)
	if err != nil {
		return err
	}
	mf, doc, err := metaframe.Load(metaPath, providers)
	if err != nil {
		return err
	}

	rendered, err := report.Render(metaPath, mf, doc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(opts.output, rendered, 0o644); err != nil { //nolint:gosec // report is not sensitive
		return err
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Metadata", Value: metaPath},
		{Label: "Report", Value: opts.output},
	}, "Report written")
	return nil
}
