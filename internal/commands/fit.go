// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package commands

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sodascience/metasynth/internal/csvio"
	"github.com/sodascience/metasynth/internal/metaframe"
	"github.com/sodascience/metasynth/internal/metavar"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/prompts"
	"github.com/sodascience/metasynth/internal/provider"
	"github.com/sodascience/metasynth/internal/session"
)

type fitOptions struct {
	output        string
	providers     []string
	privacyName   string
	partitionSize int
	categorical   []string
	dists         []string
}

func newFitCmd() *cobra.Command {
	opts := &fitOptions{}

	cmd := &cobra.Command{
		Use:   "fit <data.csv>",
		Short: "Fit distributions to a CSV file and write the metadata",
		Long: `Fit a distribution to every column of a CSV file and write the resulting
generative metadata (GMF) as JSON. The metadata contains no row-level data
and is all that is needed to synthesize.`,
		Example: `  # Fit with the builtin provider and no privacy policy
  metasynth fit data.csv -o metadata.json

  # Fit under disclosure control with an explicit distribution for one column
  metasynth fit data.csv --privacy disclosure --dist age=normal`,
		Args:              cobra.ExactArgs(1),
		PersistentPreRunE: session.PreRunLoad,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(args[0], opts, session.FromCommand(cmd))
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "metadata.json", "Output GMF JSON path")
	cmd.Flags().StringSliceVarP(&opts.providers, "providers", "p", nil, "Distribution providers, in search order")
	cmd.Flags().StringVar(&opts.privacyName, "privacy", "", "Privacy policy (none or disclosure)")
	cmd.Flags().IntVar(&opts.partitionSize, "partition-size", 0, "Micro-aggregation partition size for disclosure control")
	cmd.Flags().StringSliceVar(&opts.categorical, "categorical", nil, "Columns to treat as categorical")
	cmd.Flags().StringSliceVar(&opts.dists, "dist", nil, "Explicit distribution per column, as column=name")

	return cmd
}

func runFit(dataPath string, opts *fitOptions, sess *session.Session) error {
	applyConfigDefaults(opts, sess)

	policy, err := privacy.ForName(opts.privacyName, opts.partitionSize)
	if err != nil {
		return err
	}
	providers, err := provider.FromNames(opts.providers...)
	if err != nil {
		return err
	}
	specs, err := parseDistSpecs(opts.dists)
	if err != nil {
		return err
	}

	categorical := make(map[string]bool, len(opts.categorical))
	for _, name := range opts.categorical {
		categorical[name] = true
	}
	columns, err := csvio.Read(dataPath, categorical)
	if err != nil {
		return err
	}

	mf := &metaframe.MetaFrame{}
	if len(columns) > 0 {
		mf.NRows = columns[0].Len()
	}
	for _, col := range columns {
		v, err := metavar.Fit(col, metavar.FitConfig{
			Spec:      specs[col.Name],
			Providers: providers,
			Policy:    policy,
		})
		if err != nil {
			return err
		}
		mf.Vars = append(mf.Vars, v)
	}

	if err := mf.Save(opts.output); err != nil {
		return err
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Rows", Value: strconv.Itoa(mf.NRows)},
		{Label: "Columns", Value: strconv.Itoa(len(mf.Vars))},
		{Label: "Privacy", Value: policy.Name()},
		{Label: "Metadata", Value: opts.output},
	}, "Fit completed")
	return nil
}

// applyConfigDefaults fills unset flags from the project session when one was
// loaded.
func applyConfigDefaults(opts *fitOptions, sess *session.Session) {
	if sess == nil {
		return
	}
	if len(opts.providers) == 0 {
		opts.providers = sess.Config.DistProviders
	}
	if opts.privacyName == "" {
		opts.privacyName = sess.Config.Privacy.Name
	}
	if opts.partitionSize == 0 {
		opts.partitionSize = sess.Config.Privacy.PartitionSize
	}
}

func parseDistSpecs(pairs []string) (map[string]any, error) {
	specs := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		col, name, ok := strings.Cut(pair, "=")
		if !ok || col == "" || name == "" {
			return nil, fmt.Errorf("invalid --dist value %q, expected column=name", pair)
		}
		specs[col] = name
	}
	return specs, nil
}
