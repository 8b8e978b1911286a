// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package disclosure provides the disclosure-control provider: variants of
// the builtin numeric distributions that micro-aggregate the data before
// estimating, so no parameter reveals fewer underlying rows than the
// policy's partition size.
package disclosure

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/dist/builtin"
	"github.com/sodascience/metasynth/internal/provider"
)

// Version is the provider version recorded in serialized output.
const Version = "1.2.0"

func init() {
	provider.Register(Provider())
}

// Descriptors are built once so every Provider() call hands out the same
// identities the registry was initialized with.
var (
	DiscreteUniformType = wrapType(builtin.DiscreteUniformType)
	PoissonType         = wrapType(builtin.PoissonType)
	UniformType         = wrapType(builtin.UniformType)
	NormalType          = wrapType(builtin.NormalType)
	LogNormalType       = wrapType(builtin.LogNormalType)
	TruncatedNormalType = wrapType(builtin.TruncatedNormalType)
)

// Provider returns the disclosure provider descriptor.
func Provider() *provider.Provider {
	return &provider.Provider{
		Name:    "disclosure",
		Version: Version,
		Distributions: []*dist.Type{
			DiscreteUniformType,
			PoissonType,
			UniformType,
			NormalType,
			LogNormalType,
			TruncatedNormalType,
		},
	}
}

// wrapped overrides the descriptor of a builtin instance so serialized
// records carry the disclosure identity.
type wrapped struct {
	dist.Distribution
	typ *dist.Type
}

func (w *wrapped) Type() *dist.Type { return w.typ }

func wrapType(base *dist.Type) *dist.Type {
	alias := strings.TrimPrefix(base.Implements, "builtin.")
	t := &dist.Type{
		Implements: "disclosure." + alias,
		ClassName:  base.ClassName,
		Provenance: "disclosure",
		Version:    Version,
		VarTypes:   base.VarTypes,
		Unique:     base.Unique,
		Privacy:    "disclosure",
		Schema:     base.Schema,
	}
	t.Fit = func(values []any, opts dist.FitOptions) (dist.Distribution, error) {
		if opts.PartitionSize < 2 {
			return nil, fmt.Errorf("%w: %s needs a partition size of at least 2, got %d",
				dist.ErrFitting, t.Implements, opts.PartitionSize)
		}
		agg, err := microAggregate(values, opts.PartitionSize)
		if err != nil {
			return nil, err
		}
		d, err := base.Fit(agg, dist.FitOptions{})
		if err != nil {
			return nil, err
		}
		return &wrapped{Distribution: d, typ: t}, nil
	}
	t.FromParams = func(raw json.RawMessage) (dist.Distribution, error) {
		d, err := base.FromParams(raw)
		if err != nil {
			return nil, err
		}
		return &wrapped{Distribution: d, typ: t}, nil
	}
	t.Default = func() dist.Distribution {
		return &wrapped{Distribution: base.Default(), typ: t}
	}
	return t
}

// microAggregate sorts the values and replaces each partition of at least
// partitionSize elements with its mean, preserving the element type.
func microAggregate(values []any, partitionSize int) ([]any, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: no values to fit on", dist.ErrFitting)
	}
	floats := make([]float64, len(values))
	isInt := false
	for i, v := range values {
		switch x := v.(type) {
		case float64:
			floats[i] = x
		case int64:
			floats[i] = float64(x)
			isInt = true
		default:
			return nil, fmt.Errorf("%w: expected numeric value, got %T", dist.ErrFitting, v)
		}
	}
	sort.Float64s(floats)

	nPartitions := len(floats) / partitionSize
	if nPartitions == 0 {
		nPartitions = 1
	}
	out := make([]any, 0, len(floats))
	for p := 0; p < nPartitions; p++ {
		lo := p * len(floats) / nPartitions
		hi := (p + 1) * len(floats) / nPartitions
		sum := 0.0
		for _, v := range floats[lo:hi] {
			sum += v
		}
		mean := sum / float64(hi-lo)
		for range floats[lo:hi] {
			if isInt {
				out = append(out, int64(math.Round(mean)))
			} else {
				out = append(out, mean)
			}
		}
	}
	return out, nil
}
