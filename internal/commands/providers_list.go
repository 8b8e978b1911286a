// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package commands

import (
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sodascience/metasynth/internal/provider"
)

func newProvidersListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered distribution providers",
		Long: `List all registered distribution providers in search order, with their
version and catalog size.`,
		Example: `  # List providers
  metasynth providers list`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProvidersList()
		},
	}
	return cmd
}

func runProvidersList() error {
	names := provider.Available()
	if len(names) == 0 {
		fmt.Println("No providers registered.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tVERSION\tDISTRIBUTIONS")
	for _, name := range names {
		p, err := provider.Get(name)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", p.Name, p.Version, strconv.Itoa(len(p.Distributions)))
	}
	return w.Flush()
}
