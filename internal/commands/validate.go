// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/prompts"
	"github.com/sodascience/metasynth/internal/provider"
)

func newValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <provider>",
		Short: "Check a distribution provider for conformance",
		Long: `Run the conformance checks on a registered provider: catalog validity and,
for every distribution, that its default instance's serialized form validates
against its own published schema and round-trips.`,
		Example: `  # Validate the builtin provider
  metasynth validate builtin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
	return cmd
}

func runValidate(name string) error {
	p, err := provider.Get(name)
	if err != nil {
		return err
	}
	if err := p.Validate(); err != nil {
		return err
	}

	failures := 0
	for _, t := range p.Distributions {
		if err := checkType(t); err != nil {
			prompts.PrintFailure(fmt.Sprintf("%s: %v", t.Implements, err))
			failures++
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d of %d distributions failed validation", failures, len(p.Distributions))
	}

	prompts.PrintResult([]prompts.ResultField{
		{Label: "Provider", Value: p.Name},
		{Label: "Version", Value: p.Version},
		{Label: "Distributions", Value: fmt.Sprintf("%d", len(p.Distributions))},
	}, "All distributions conform")
	return nil
}

func checkType(t *dist.Type) error {
	rec, err := dist.ToDict(t.Default())
	if err != nil {
		return err
	}
	if err := dist.ValidateSchema(t, rec); err != nil {
		return err
	}
	restored, err := t.FromParams(rec.Parameters)
	if err != nil {
		return err
	}
	restoredRec, err := dist.ToDict(restored)
	if err != nil {
		return err
	}
	if string(restoredRec.Parameters) != string(rec.Parameters) {
		return fmt.Errorf("%w: default parameters do not round-trip", dist.ErrSchema)
	}
	return nil
}
