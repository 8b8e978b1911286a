// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package prompts

import (
	"strconv"

	"github.com/charmbracelet/huh"
)

// InitResult holds the answers of RunInitForm.
type InitResult struct {
	Providers     []string
	PrivacyName   string
	PartitionSize int
	NRows         int
}

// RunInitForm runs the interactive form for the init command. available is
// the set of registered provider names offered for selection.
func RunInitForm(available []string) (InitResult, error) {
	result := InitResult{PrivacyName: "none"}
	providerOpts := make([]huh.Option[string], 0, len(available))
	for _, name := range available {
		providerOpts = append(providerOpts, huh.NewOption(name, name).Selected(name == "builtin"))
	}

	partitionSize := ""
	nRows := "100"
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Title("Distribution providers").
				Description("Search order is the order shown").
				Options(providerOpts...).
				Value(&result.Providers),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Privacy policy").
				Options(
					huh.NewOption("None (exact fits)", "none"),
					huh.NewOption("Disclosure control (micro aggregation)", "disclosure"),
				).
				Value(&result.PrivacyName),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Partition size").
				Placeholder("11").
				Validate(positiveIntValidator("partition size")).
				Value(&partitionSize),
		).WithHideFunc(func() bool { return result.PrivacyName != "disclosure" }),
		huh.NewGroup(
			huh.NewInput().
				Title("Default number of synthetic rows").
				Placeholder("100").
				Validate(positiveIntValidator("number of rows")).
				Value(&nRows),
		),
	).WithTheme(Theme()).Run()
	if err != nil {
		return result, err
	}

	if partitionSize != "" {
		result.PartitionSize, _ = strconv.Atoi(partitionSize)
	}
	if nRows != "" {
		result.NRows, _ = strconv.Atoi(nRows)
	}
	return result, nil
}
