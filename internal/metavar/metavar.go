// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package metavar couples a column's type, missing-value rate and fitted
// distribution: the unit the provider list operates on, and the building
// block of the dataset-level metadata format.
package metavar

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/provider"
	"github.com/sodascience/metasynth/internal/series"
	"github.com/sodascience/metasynth/internal/vartype"
)

// propTolerance is the slack allowed on the [0, 1] bounds of PropMissing.
const propTolerance = 1e-8

// MetaVar holds the metadata needed to generate one synthetic column.
// Instances are immutable once fit; re-fitting creates a new one.
type MetaVar struct {
	Name         string
	VarType      vartype.Type
	DType        string
	Description  string
	PropMissing  float64
	Distribution dist.Distribution
}

// New validates and constructs a fitted variable.
func New(name string, vt vartype.Type, d dist.Distribution, dtype string, propMissing float64, description string) (*MetaVar, error) {
	if propMissing < -propTolerance || propMissing > 1+propTolerance {
		return nil, fmt.Errorf("%w: cannot create variable %q with proportion missing outside [0, 1]",
			dist.ErrValidation, name)
	}
	if d != nil && !d.Type().ModelsVarType(vt) {
		return nil, fmt.Errorf("%w: distribution %s cannot model variable type %q",
			dist.ErrValidation, d.Type().Implements, vt)
	}
	return &MetaVar{
		Name:         name,
		VarType:      vt,
		DType:        dtype,
		Description:  description,
		PropMissing:  propMissing,
		Distribution: d,
	}, nil
}

// FitConfig collects the optional inputs of Fit.
type FitConfig struct {
	// Spec is an explicit distribution request in any of the accepted
	// forms; nil means automatic selection.
	Spec any
	// Providers is the search list; nil means all registered providers.
	Providers *provider.List
	// Policy is the privacy guarantee; nil means no guarantee.
	Policy privacy.Policy
	// PropMissing overrides the missing rate computed from the series.
	PropMissing *float64
	// Description is carried into the serialized record.
	Description string
}

// Fit detects the variable type of s, fits the best permitted distribution
// through the provider list, and computes the missing-value rate. Missing
// values are never passed into distribution fitting.
func Fit(s *series.Series, cfg FitConfig) (*MetaVar, error) {
	vt, err := s.VarType()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dist.ErrValidation, err)
	}

	spec, err := dist.NormalizeSpec(cfg.Spec)
	if err != nil {
		return nil, err
	}
	providers := cfg.Providers
	if providers == nil {
		if providers, err = provider.FromNames(); err != nil {
			return nil, err
		}
	}
	policy := cfg.Policy
	if policy == nil {
		policy = privacy.Basic{}
	}

	values := s.DropNulls()
	var d dist.Distribution
	if len(values) == 0 && spec.IsEmpty() {
		// Nothing to fit on: the all-missing distribution.
		d, err = providers.FromDict(&dist.Record{Implements: "builtin.na", Parameters: json.RawMessage(`{}`)}, vt)
	} else {
		d, err = providers.Fit(values, vt, spec, policy)
	}
	if err != nil {
		return nil, fmt.Errorf("fitting variable %q: %w", s.Name, err)
	}

	propMissing := s.PropMissing()
	if cfg.PropMissing != nil {
		propMissing = *cfg.PropMissing
	}
	return New(s.Name, vt, d, s.DType, propMissing, cfg.Description)
}

// Draw returns one synthetic value, or nil with probability PropMissing.
func (v *MetaVar) Draw() any {
	if rand.Float64() < v.PropMissing {
		return nil
	}
	return v.Distribution.Draw()
}

// DrawSeries draws a fresh synthetic series of length n, cast back to the
// variable's storage type.
func (v *MetaVar) DrawSeries(n int) (*series.Series, error) {
	v.Distribution.DrawReset()
	values := make([]any, n)
	for i := range values {
		val := v.Draw()
		if val == nil {
			continue
		}
		cast, err := castValue(val, v.DType)
		if err != nil {
			return nil, fmt.Errorf("drawing variable %q: %w", v.Name, err)
		}
		values[i] = cast
	}
	return &series.Series{Name: v.Name, DType: v.DType, Values: values}, nil
}

// castValue coerces a drawn value to the recorded storage type.
func castValue(v any, dtype string) (any, error) {
	switch dtype {
	case series.DTypeInt64:
		switch x := v.(type) {
		case int64:
			return x, nil
		case float64:
			return int64(x), nil
		}
	case series.DTypeFloat64:
		switch x := v.(type) {
		case float64:
			return x, nil
		case int64:
			return float64(x), nil
		}
	case series.DTypeUtf8, series.DTypeCategorical:
		if x, ok := v.(string); ok {
			return x, nil
		}
	case series.DTypeDate, series.DTypeTime, series.DTypeDatetime:
		if x, ok := v.(time.Time); ok {
			return x, nil
		}
	}
	return nil, fmt.Errorf("cannot cast drawn %T to storage type %q", v, dtype)
}
