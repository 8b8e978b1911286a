// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package provider

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/vartype"
)

// List is an ordered sequence of providers; it performs search, fitting with
// model selection, and deserialization. It carries no state beyond the
// provider order and is safe to share once built.
type List struct {
	providers []*Provider
}

// NewList builds a list from explicit provider instances, preserving order.
func NewList(providers ...*Provider) (*List, error) {
	for _, p := range providers {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return &List{providers: providers}, nil
}

// FromNames resolves names against the registry, preserving the given order.
// With no names, all registered providers are used in registration order.
func FromNames(names ...string) (*List, error) {
	if len(names) == 0 {
		names = Available()
	}
	providers := make([]*Provider, 0, len(names))
	for _, name := range names {
		p, err := Get(name)
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return &List{providers: providers}, nil
}

// Providers returns the ordered providers.
func (l *List) Providers() []*Provider {
	return append([]*Provider(nil), l.providers...)
}

// FindDistribution returns the first catalog entry, in provider then catalog
// order, that matches name, models vt, passes the privacy predicate, and has
// the requested uniqueness flag (nil matches any).
func (l *List) FindDistribution(name string, vt vartype.Type, policy privacy.Policy, unique *bool) (*dist.Type, error) {
	for _, p := range l.providers {
		for _, t := range p.ForVarType(vt) {
			if !t.IsNamed(name) {
				continue
			}
			if !policy.IsCompatible(t) {
				continue
			}
			if unique != nil && t.Unique != *unique {
				continue
			}
			return t, nil
		}
	}
	return nil, fmt.Errorf("%w %q for variable type %q under privacy %q",
		dist.ErrNotFound, name, vt, policy.Name())
}

// Fit selects and fits one distribution for the given non-missing values.
//
// With an explicit implementation in spec, that implementation is fit and
// returned, or the error propagates. Without one, every eligible candidate is
// fit and the lowest information criterion wins; ties keep the
// first-registered candidate. A uniqueness constraint in spec filters the
// candidates; when no preference was given and the winner assumes uniqueness,
// a warning is emitted and fitting still succeeds.
func (l *List) Fit(values []any, vt vartype.Type, spec dist.Spec, policy privacy.Policy) (dist.Distribution, error) {
	if spec.Implements != "" {
		t, err := l.FindDistribution(spec.Implements, vt, policy, spec.Unique)
		if err != nil {
			return nil, err
		}
		d, err := t.Fit(values, policy.FitOptions())
		if err != nil {
			return nil, fmt.Errorf("fitting %s: %w", t.Implements, err)
		}
		return d, nil
	}
	return l.fitBest(values, vt, spec.Unique, policy)
}

func (l *List) fitBest(values []any, vt vartype.Type, unique *bool, policy privacy.Policy) (dist.Distribution, error) {
	type candidate struct {
		d     dist.Distribution
		score float64
	}
	var (
		fitted   []candidate
		eligible int
	)
	for _, p := range l.providers {
		for _, t := range p.ForVarType(vt) {
			if !policy.IsCompatible(t) {
				continue
			}
			eligible++
			d, err := t.Fit(values, policy.FitOptions())
			if err != nil {
				// A candidate that cannot describe this data drops out of
				// the ranking; an explicit request for it would propagate
				// the error instead.
				slog.Debug("candidate dropped", "distribution", t.Implements, "error", err)
				continue
			}
			fitted = append(fitted, candidate{d: d, score: d.InformationCriterion(values)})
		}
	}
	if eligible == 0 {
		return nil, fmt.Errorf("%w for variable type %q under privacy %q",
			dist.ErrNotFound, vt, policy.Name())
	}
	if len(fitted) == 0 {
		return nil, fmt.Errorf("%w: no distribution could be fit for variable type %q", dist.ErrFitting, vt)
	}

	best := -1
	for i, c := range fitted {
		if unique != nil && c.d.Type().Unique != *unique {
			continue
		}
		if best < 0 || c.score < fitted[best].score {
			best = i
		}
	}
	if best < 0 {
		return nil, fmt.Errorf("%w for variable type %q with unique == %v",
			dist.ErrNotFound, vt, *unique)
	}
	if math.IsInf(fitted[best].score, 1) && len(values) > 0 {
		return nil, fmt.Errorf("%w: no distribution describes the data for variable type %q", dist.ErrFitting, vt)
	}
	winner := fitted[best].d
	if unique == nil && winner.Type().Unique {
		slog.Warn("values look unique but no uniqueness preference was given; "+
			"set unique explicitly to silence this warning",
			"distribution", winner.Type().Implements)
	}
	return winner, nil
}

// FromDict reconstructs a distribution from its serialized record, located by
// stored identifier and variable type. A miss means data corruption or a
// missing provider and is reported, never silently substituted.
func (l *List) FromDict(rec *dist.Record, vt vartype.Type) (dist.Distribution, error) {
	for _, p := range l.providers {
		for _, t := range p.ForVarType(vt) {
			if !t.IsNamed(rec.Implements) {
				continue
			}
			d, err := t.FromParams(rec.Parameters)
			if err != nil {
				return nil, fmt.Errorf("restoring %s: %w", t.Implements, err)
			}
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w %q for variable type %q; is its provider installed?",
		dist.ErrNotFound, rec.Implements, vt)
}

// IsNotFound reports whether err is a lookup failure.
func IsNotFound(err error) bool {
	return errors.Is(err, dist.ErrNotFound)
}
