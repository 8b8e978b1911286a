// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package commands

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sodascience/metasynth/internal/provider"
	"github.com/sodascience/metasynth/internal/vartype"
)

type distsListOptions struct {
	varType   string
	providers []string
}

func newDistsListCmd() *cobra.Command {
	opts := &distsListOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available distributions",
		Long: `List the distributions of the selected providers, optionally filtered by
variable type.`,
		Example: `  # All distributions
  metasynth dists list

  # Continuous distributions only
  metasynth dists list --var-type continuous`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDistsList(opts)
		},
	}

	cmd.Flags().StringVarP(&opts.varType, "var-type", "t", "", "Filter by variable type")
	cmd.Flags().StringSliceVarP(&opts.providers, "providers", "p", nil, "Providers to list, in search order")

	return cmd
}

func runDistsList(opts *distsListOptions) error {
	list, err := provider.FromNames(opts.providers...)
	if err != nil {
		return err
	}

	var filter vartype.Type
	if opts.varType != "" {
		if filter, err = vartype.Parse(opts.varType); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "IMPLEMENTS\tVAR TYPES\tUNIQUE\tPRIVACY")
	for _, p := range list.Providers() {
		for _, t := range p.Distributions {
			if filter != "" && !t.ModelsVarType(filter) {
				continue
			}
			types := make([]string, 0, len(t.VarTypes))
			for _, vt := range t.VarTypes {
				types = append(types, string(vt))
			}
			_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%s\n",
				t.Implements, strings.Join(types, ","), t.Unique, t.Privacy)
		}
	}
	return w.Flush()
}
