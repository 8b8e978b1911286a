// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package builtin

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/vartype"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// minSigma keeps degenerate (constant) columns fittable.
const minSigma = 1e-8

func continuousParamsSchema(names ...string) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(names))
	for _, n := range names {
		props[n] = &jsonschema.Schema{Type: "number"}
	}
	return dist.RecordSchema(&jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   names,
	})
}

// --- uniform ---

type uniformParams struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
}

type uniformDist struct {
	p uniformParams
}

// UniformType is a continuous uniform distribution over [lower, upper].
var UniformType = &dist.Type{
	Implements: "builtin.uniform",
	ClassName:  "UniformDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Continuous},
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		xs, err := asFloats(values)
		if err != nil {
			return nil, err
		}
		lower, upper := xs[0], xs[0]
		for _, x := range xs {
			lower = math.Min(lower, x)
			upper = math.Max(upper, x)
		}
		return &uniformDist{p: uniformParams{Lower: lower, Upper: upper}}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p uniformParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if p.Upper < p.Lower {
			return nil, fmt.Errorf("%w: uniform upper %v below lower %v", dist.ErrSchema, p.Upper, p.Lower)
		}
		return &uniformDist{p: p}, nil
	},
	Default: func() dist.Distribution {
		return &uniformDist{p: uniformParams{Lower: 0, Upper: 1}}
	},
	Schema: func() *jsonschema.Schema {
		return continuousParamsSchema("lower", "upper")
	},
}

func (d *uniformDist) Type() *dist.Type { return UniformType }
func (d *uniformDist) Params() any      { return d.p }
func (d *uniformDist) DrawReset()       {}

func (d *uniformDist) Draw() any {
	return d.p.Lower + rand.Float64()*(d.p.Upper-d.p.Lower)
}

func (d *uniformDist) InformationCriterion(values []any) float64 {
	xs, err := asFloats(values)
	if err != nil {
		return math.Inf(1)
	}
	width := d.p.Upper - d.p.Lower
	if width <= 0 {
		width = minSigma
	}
	logLik := -float64(len(xs)) * math.Log(width)
	for _, x := range xs {
		if x < d.p.Lower || x > d.p.Upper {
			return math.Inf(1)
		}
	}
	return aic(2, logLik)
}

// --- normal ---

type normalParams struct {
	Mean float64 `json:"mean"`
	SD   float64 `json:"sd"`
}

type normalDist struct {
	p normalParams
}

// NormalType is a Gaussian fit by maximum likelihood.
var NormalType = &dist.Type{
	Implements: "builtin.normal",
	ClassName:  "NormalDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Continuous},
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		xs, err := asFloats(values)
		if err != nil {
			return nil, err
		}
		sd := stat.StdDev(xs, nil)
		if math.IsNaN(sd) || sd < minSigma {
			sd = minSigma
		}
		return &normalDist{p: normalParams{Mean: stat.Mean(xs, nil), SD: sd}}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p normalParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if p.SD <= 0 {
			return nil, fmt.Errorf("%w: normal sd must be positive, got %v", dist.ErrSchema, p.SD)
		}
		return &normalDist{p: p}, nil
	},
	Default: func() dist.Distribution {
		return &normalDist{p: normalParams{Mean: 0, SD: 1}}
	},
	Schema: func() *jsonschema.Schema {
		return continuousParamsSchema("mean", "sd")
	},
}

func (d *normalDist) Type() *dist.Type { return NormalType }
func (d *normalDist) Params() any      { return d.p }
func (d *normalDist) DrawReset()       {}

func (d *normalDist) Draw() any {
	return distuv.Normal{Mu: d.p.Mean, Sigma: d.p.SD}.Rand()
}

func (d *normalDist) InformationCriterion(values []any) float64 {
	xs, err := asFloats(values)
	if err != nil {
		return math.Inf(1)
	}
	n := distuv.Normal{Mu: d.p.Mean, Sigma: d.p.SD}
	logLik := 0.0
	for _, x := range xs {
		logLik += n.LogProb(x)
	}
	return aic(2, logLik)
}

// --- log-normal ---

type logNormalParams struct {
	Mu    float64 `json:"mu"`
	Sigma float64 `json:"sigma"`
}

type logNormalDist struct {
	p logNormalParams
}

// LogNormalType models positive, right-skewed columns.
var LogNormalType = &dist.Type{
	Implements: "builtin.lognormal",
	ClassName:  "LogNormalDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Continuous},
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		xs, err := asFloats(values)
		if err != nil {
			return nil, err
		}
		logs := make([]float64, 0, len(xs))
		for _, x := range xs {
			if x > 0 {
				logs = append(logs, math.Log(x))
			}
		}
		if len(logs) == 0 {
			return nil, fmt.Errorf("%w: lognormal needs positive values", dist.ErrFitting)
		}
		sigma := stat.StdDev(logs, nil)
		if math.IsNaN(sigma) || sigma < minSigma {
			sigma = minSigma
		}
		return &logNormalDist{p: logNormalParams{Mu: stat.Mean(logs, nil), Sigma: sigma}}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p logNormalParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if p.Sigma <= 0 {
			return nil, fmt.Errorf("%w: lognormal sigma must be positive, got %v", dist.ErrSchema, p.Sigma)
		}
		return &logNormalDist{p: p}, nil
	},
	Default: func() dist.Distribution {
		return &logNormalDist{p: logNormalParams{Mu: 0, Sigma: 1}}
	},
	Schema: func() *jsonschema.Schema {
		return continuousParamsSchema("mu", "sigma")
	},
}

func (d *logNormalDist) Type() *dist.Type { return LogNormalType }
func (d *logNormalDist) Params() any      { return d.p }
func (d *logNormalDist) DrawReset()       {}

func (d *logNormalDist) Draw() any {
	return distuv.LogNormal{Mu: d.p.Mu, Sigma: d.p.Sigma}.Rand()
}

func (d *logNormalDist) InformationCriterion(values []any) float64 {
	xs, err := asFloats(values)
	if err != nil {
		return math.Inf(1)
	}
	ln := distuv.LogNormal{Mu: d.p.Mu, Sigma: d.p.Sigma}
	logLik := 0.0
	for _, x := range xs {
		if x <= 0 {
			return math.Inf(1)
		}
		logLik += ln.LogProb(x)
	}
	return aic(2, logLik)
}

// --- truncated normal ---

type truncNormalParams struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Mean  float64 `json:"mean"`
	SD    float64 `json:"sd"`
}

type truncNormalDist struct {
	p truncNormalParams
}

// TruncatedNormalType is a Gaussian restricted to the observed range.
var TruncatedNormalType = &dist.Type{
	Implements: "builtin.truncated_normal",
	ClassName:  "TruncatedNormalDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Continuous},
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		xs, err := asFloats(values)
		if err != nil {
			return nil, err
		}
		lower, upper := xs[0], xs[0]
		for _, x := range xs {
			lower = math.Min(lower, x)
			upper = math.Max(upper, x)
		}
		sd := stat.StdDev(xs, nil)
		if math.IsNaN(sd) || sd < minSigma {
			sd = minSigma
		}
		margin := (upper - lower) * 1e-3
		return &truncNormalDist{p: truncNormalParams{
			Lower: lower - margin,
			Upper: upper + margin,
			Mean:  stat.Mean(xs, nil),
			SD:    sd,
		}}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p truncNormalParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if p.SD <= 0 || p.Upper < p.Lower {
			return nil, fmt.Errorf("%w: invalid truncated normal parameters", dist.ErrSchema)
		}
		return &truncNormalDist{p: p}, nil
	},
	Default: func() dist.Distribution {
		return &truncNormalDist{p: truncNormalParams{Lower: -1, Upper: 1, Mean: 0, SD: 1}}
	},
	Schema: func() *jsonschema.Schema {
		return continuousParamsSchema("lower", "upper", "mean", "sd")
	},
}

func (d *truncNormalDist) Type() *dist.Type { return TruncatedNormalType }
func (d *truncNormalDist) Params() any      { return d.p }
func (d *truncNormalDist) DrawReset()       {}

func (d *truncNormalDist) Draw() any {
	n := distuv.Normal{Mu: d.p.Mean, Sigma: d.p.SD}
	for i := 0; i < 1000; i++ {
		x := n.Rand()
		if x >= d.p.Lower && x <= d.p.Upper {
			return x
		}
	}
	// Degenerate truncation window; fall back to a uniform draw inside it.
	return d.p.Lower + rand.Float64()*(d.p.Upper-d.p.Lower)
}

func (d *truncNormalDist) InformationCriterion(values []any) float64 {
	xs, err := asFloats(values)
	if err != nil {
		return math.Inf(1)
	}
	n := distuv.Normal{Mu: d.p.Mean, Sigma: d.p.SD}
	mass := n.CDF(d.p.Upper) - n.CDF(d.p.Lower)
	if mass <= 0 {
		return math.Inf(1)
	}
	logLik := 0.0
	for _, x := range xs {
		if x < d.p.Lower || x > d.p.Upper {
			return math.Inf(1)
		}
		logLik += n.LogProb(x) - math.Log(mass)
	}
	return aic(4, logLik)
}
