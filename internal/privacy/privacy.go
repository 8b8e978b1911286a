// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package privacy decides which distribution implementations are eligible
// under a privacy guarantee and supplies the extra fitting parameters needed
// to enforce it. Keeping this as a predicate plus options, rather than a
// distribution variant, lets one policy govern many implementations.
package privacy

import (
	"fmt"

	"github.com/sodascience/metasynth/internal/dist"
)

// Policy is a privacy guarantee: a type-level compatibility predicate over
// distribution descriptors and a set of fitting options forwarded verbatim
// into Fit.
type Policy interface {
	Name() string
	IsCompatible(t *dist.Type) bool
	FitOptions() dist.FitOptions
}

// Basic is the default policy: every distribution whose fitting applies no
// privacy transformation is compatible, and no extra fitting parameters are
// contributed.
type Basic struct{}

func (Basic) Name() string { return "none" }

func (Basic) IsCompatible(t *dist.Type) bool { return t.Privacy == "none" }

func (Basic) FitOptions() dist.FitOptions { return dist.FitOptions{} }

// Disclosure enforces disclosure control through micro aggregation: every
// parameter estimate is based on at least PartitionSize underlying rows.
type Disclosure struct {
	// PartitionSize is the minimum rows per aggregate; 11 when zero, the
	// conventional threshold for output checking.
	PartitionSize int
}

func (Disclosure) Name() string { return "disclosure" }

func (Disclosure) IsCompatible(t *dist.Type) bool { return t.Privacy == "disclosure" }

func (p Disclosure) FitOptions() dist.FitOptions {
	n := p.PartitionSize
	if n <= 0 {
		n = 11
	}
	return dist.FitOptions{PartitionSize: n}
}

// ForName returns the built-in policy with the given name.
func ForName(name string, partitionSize int) (Policy, error) {
	switch name {
	case "", "none":
		return Basic{}, nil
	case "disclosure":
		return Disclosure{PartitionSize: partitionSize}, nil
	}
	return nil, fmt.Errorf("unknown privacy policy %q", name)
}
