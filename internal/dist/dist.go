// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package dist defines the contract every distribution implementation must
// satisfy: fitting against observed values, drawing synthetic ones, and a
// byte-for-byte reproducible serialized form. Concrete implementations live
// in subpackages and are exposed through provider catalogs.
package dist

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sodascience/metasynth/internal/vartype"
)

// FitOptions carries privacy-derived fitting parameters. Policies produce it,
// the registry forwards it verbatim into Fit.
type FitOptions struct {
	// PartitionSize is the minimum number of underlying rows each parameter
	// estimate may be based on. Zero means no aggregation.
	PartitionSize int
}

// Distribution is a fitted (or default-parameterized) model for one variable
// type. Instances are immutable apart from the internal draw state cleared by
// DrawReset.
type Distribution interface {
	// Type returns the descriptor this instance was created from.
	Type() *Type

	// Draw returns one synthetic value consistent with the fitted parameters.
	Draw() any

	// DrawReset clears any per-series sampling state, such as a
	// without-replacement pool. It is idempotent.
	DrawReset()

	// InformationCriterion scores how well the fitted parameters describe
	// values: lower is better, penalized by parameter count. It must be
	// finite for any successfully fit instance unless the instance is
	// categorically wrong for the data.
	InformationCriterion(values []any) float64

	// Params returns the fitted parameters. The result must marshal to the
	// "parameters" object of the serialized record.
	Params() any
}

// Type describes one distribution implementation: its identity, the variable
// types it can model, and the constructors the registry drives. Catalogs are
// plain slices of these descriptors.
type Type struct {
	// Implements is the two-part dotted identifier, e.g. "builtin.normal".
	Implements string

	// ClassName is the implementation name recorded in serialized output.
	ClassName string

	// Provenance is the name of the provider that owns this implementation.
	Provenance string

	// Version is the serialization version of the parameter format.
	Version string

	// VarTypes is the set of variable types the implementation can model.
	VarTypes []vartype.Type

	// Unique reports whether fitting assumes all observed values distinct.
	Unique bool

	// Privacy is the privacy kind the implementation enforces during
	// fitting; "none" for exact fits.
	Privacy string

	// Fit creates a new instance from the non-missing observed values.
	Fit func(values []any, opts FitOptions) (Distribution, error)

	// FromParams reconstructs an instance from serialized parameters.
	FromParams func(params json.RawMessage) (Distribution, error)

	// Default returns a canonical example instance used for schema
	// self-validation and documentation.
	Default func() Distribution

	// Schema describes the shape produced by serializing an instance of
	// this type.
	Schema func() *jsonschema.Schema
}

// Validate checks the structural invariants of the descriptor.
func (t *Type) Validate() error {
	parts := strings.Split(t.Implements, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("%w: implements %q must have exactly two segments", ErrValidation, t.Implements)
	}
	if t.ClassName == "" {
		return fmt.Errorf("%w: distribution %q has no class name", ErrValidation, t.Implements)
	}
	if len(t.VarTypes) == 0 {
		return fmt.Errorf("%w: distribution %q models no variable types", ErrValidation, t.Implements)
	}
	for _, vt := range t.VarTypes {
		if vt == vartype.Unknown {
			return fmt.Errorf("%w: distribution %q has unknown variable type", ErrValidation, t.Implements)
		}
	}
	if t.Fit == nil || t.FromParams == nil || t.Default == nil || t.Schema == nil {
		return fmt.Errorf("%w: distribution %q has an incomplete constructor set", ErrValidation, t.Implements)
	}
	return nil
}

// IsNamed reports whether name selects this implementation, either by the
// full dotted identifier or by the bare alias after the dot.
func (t *Type) IsNamed(name string) bool {
	if name == t.Implements {
		return true
	}
	if i := strings.IndexByte(t.Implements, '.'); i >= 0 {
		return name == t.Implements[i+1:]
	}
	return false
}

// ModelsVarType reports whether the implementation can model vt.
func (t *Type) ModelsVarType(vt vartype.Type) bool {
	return vartype.In(vt, t.VarTypes)
}
