// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package builtin provides the built-in distribution catalog: exact-fit
// implementations for every variable type, registered as the "builtin"
// provider on import.
package builtin

import (
	"fmt"
	"math"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/provider"
)

// Version is the provider version recorded in serialized output.
const Version = "1.2.0"

func init() {
	provider.Register(Provider())
}

// Provider returns the builtin provider descriptor. Catalog order is
// significant: it is the tie-break order during automatic selection.
func Provider() *provider.Provider {
	return &provider.Provider{
		Name:    "builtin",
		Version: Version,
		Distributions: []*dist.Type{
			DiscreteUniformType,
			PoissonType,
			UniqueKeyType,
			UniformType,
			NormalType,
			LogNormalType,
			TruncatedNormalType,
			MultinoulliType,
			RegexType,
			UniqueRegexType,
			DateUniformType,
			TimeUniformType,
			DateTimeUniformType,
			NAType,
		},
	}
}

func asFloats(values []any) ([]float64, error) {
	out := make([]float64, len(values))
	for i, v := range values {
		switch x := v.(type) {
		case float64:
			out[i] = x
		case int64:
			out[i] = float64(x)
		default:
			return nil, fmt.Errorf("%w: expected numeric value, got %T", dist.ErrFitting, v)
		}
	}
	return out, nil
}

func asInts(values []any) ([]int64, error) {
	out := make([]int64, len(values))
	for i, v := range values {
		x, ok := v.(int64)
		if !ok {
			return nil, fmt.Errorf("%w: expected int64 value, got %T", dist.ErrFitting, v)
		}
		out[i] = x
	}
	return out, nil
}

func asStrings(values []any) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		x, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: expected string value, got %T", dist.ErrFitting, v)
		}
		out[i] = x
	}
	return out, nil
}

func requireValues(values []any) error {
	if len(values) == 0 {
		return fmt.Errorf("%w: no values to fit on", dist.ErrFitting)
	}
	return nil
}

// aic is the information criterion used for ranking: 2k − 2·logL.
func aic(nParams int, logLik float64) float64 {
	if math.IsInf(logLik, -1) {
		return math.Inf(1)
	}
	return 2*float64(nParams) - 2*logLik
}
