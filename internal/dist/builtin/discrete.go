// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package builtin

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/vartype"
	"gonum.org/v1/gonum/stat/distuv"
)

func intParamsSchema(names map[string]string) *jsonschema.Schema {
	props := make(map[string]*jsonschema.Schema, len(names))
	required := make([]string, 0, len(names))
	for n, typ := range names {
		props[n] = &jsonschema.Schema{Type: typ}
		required = append(required, n)
	}
	sort.Strings(required)
	return dist.RecordSchema(&jsonschema.Schema{
		Type:       "object",
		Properties: props,
		Required:   required,
	})
}

// --- discrete uniform ---

type discreteUniformParams struct {
	// Low is inclusive, High exclusive.
	Low  int64 `json:"low"`
	High int64 `json:"high"`
}

type discreteUniformDist struct {
	p discreteUniformParams
}

// DiscreteUniformType draws integers uniformly from [low, high).
var DiscreteUniformType = &dist.Type{
	Implements: "builtin.discrete_uniform",
	ClassName:  "DiscreteUniformDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Discrete},
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		xs, err := asInts(values)
		if err != nil {
			return nil, err
		}
		low, high := xs[0], xs[0]
		for _, x := range xs {
			if x < low {
				low = x
			}
			if x > high {
				high = x
			}
		}
		return &discreteUniformDist{p: discreteUniformParams{Low: low, High: high + 1}}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p discreteUniformParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if p.High <= p.Low {
			return nil, fmt.Errorf("%w: discrete uniform high %d not above low %d", dist.ErrSchema, p.High, p.Low)
		}
		return &discreteUniformDist{p: p}, nil
	},
	Default: func() dist.Distribution {
		return &discreteUniformDist{p: discreteUniformParams{Low: 0, High: 10}}
	},
	Schema: func() *jsonschema.Schema {
		return intParamsSchema(map[string]string{"low": "integer", "high": "integer"})
	},
}

func (d *discreteUniformDist) Type() *dist.Type { return DiscreteUniformType }
func (d *discreteUniformDist) Params() any      { return d.p }
func (d *discreteUniformDist) DrawReset()       {}

func (d *discreteUniformDist) Draw() any {
	return d.p.Low + rand.Int64N(d.p.High-d.p.Low)
}

func (d *discreteUniformDist) InformationCriterion(values []any) float64 {
	xs, err := asInts(values)
	if err != nil {
		return math.Inf(1)
	}
	span := float64(d.p.High - d.p.Low)
	for _, x := range xs {
		if x < d.p.Low || x >= d.p.High {
			return math.Inf(1)
		}
	}
	return aic(2, -float64(len(xs))*math.Log(span))
}

// --- poisson ---

type poissonParams struct {
	Rate float64 `json:"rate"`
}

type poissonDist struct {
	p poissonParams
}

// PoissonType models non-negative count data.
var PoissonType = &dist.Type{
	Implements: "builtin.poisson",
	ClassName:  "PoissonDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Discrete},
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		xs, err := asInts(values)
		if err != nil {
			return nil, err
		}
		sum := int64(0)
		for _, x := range xs {
			sum += x
		}
		rate := float64(sum) / float64(len(xs))
		if rate <= 0 {
			rate = minSigma
		}
		return &poissonDist{p: poissonParams{Rate: rate}}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p poissonParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if p.Rate <= 0 {
			return nil, fmt.Errorf("%w: poisson rate must be positive, got %v", dist.ErrSchema, p.Rate)
		}
		return &poissonDist{p: p}, nil
	},
	Default: func() dist.Distribution {
		return &poissonDist{p: poissonParams{Rate: 1}}
	},
	Schema: func() *jsonschema.Schema {
		return dist.RecordSchema(&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"rate": {Type: "number"},
			},
			Required: []string{"rate"},
		})
	},
}

func (d *poissonDist) Type() *dist.Type { return PoissonType }
func (d *poissonDist) Params() any      { return d.p }
func (d *poissonDist) DrawReset()       {}

func (d *poissonDist) Draw() any {
	return int64(distuv.Poisson{Lambda: d.p.Rate}.Rand())
}

func (d *poissonDist) InformationCriterion(values []any) float64 {
	xs, err := asInts(values)
	if err != nil {
		return math.Inf(1)
	}
	pd := distuv.Poisson{Lambda: d.p.Rate}
	logLik := 0.0
	for _, x := range xs {
		if x < 0 {
			return math.Inf(1)
		}
		logLik += pd.LogProb(float64(x))
	}
	return aic(1, logLik)
}

// --- unique key ---

type uniqueKeyParams struct {
	Low int64 `json:"low"`
	// High is the exclusive upper bound used for non-consecutive draws.
	High        int64 `json:"high"`
	Consecutive bool  `json:"consecutive"`
}

// uniqueKeyDist draws identifiers without replacement. counter and seen are
// the per-series state cleared by DrawReset.
type uniqueKeyDist struct {
	p       uniqueKeyParams
	counter int64
	seen    map[int64]struct{}
}

// UniqueKeyType models identifier columns where every value is distinct.
var UniqueKeyType = &dist.Type{
	Implements: "builtin.unique_key",
	ClassName:  "UniqueKeyDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Discrete},
	Unique:     true,
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		xs, err := asInts(values)
		if err != nil {
			return nil, err
		}
		sorted := append([]int64(nil), xs...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		consecutive := true
		for i := 1; i < len(sorted); i++ {
			if sorted[i] == sorted[i-1] {
				return nil, fmt.Errorf("%w: unique key fit on data with duplicates", dist.ErrFitting)
			}
			if sorted[i] != sorted[i-1]+1 {
				consecutive = false
			}
		}
		return newUniqueKey(uniqueKeyParams{
			Low:         sorted[0],
			High:        sorted[len(sorted)-1] + 1,
			Consecutive: consecutive,
		}), nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p uniqueKeyParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if p.High <= p.Low {
			return nil, fmt.Errorf("%w: unique key high %d not above low %d", dist.ErrSchema, p.High, p.Low)
		}
		return newUniqueKey(p), nil
	},
	Default: func() dist.Distribution {
		return newUniqueKey(uniqueKeyParams{Low: 0, High: 100, Consecutive: true})
	},
	Schema: func() *jsonschema.Schema {
		return dist.RecordSchema(&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"low":         {Type: "integer"},
				"high":        {Type: "integer"},
				"consecutive": {Type: "boolean"},
			},
			Required: []string{"low", "high", "consecutive"},
		})
	},
}

func newUniqueKey(p uniqueKeyParams) *uniqueKeyDist {
	return &uniqueKeyDist{p: p, seen: make(map[int64]struct{})}
}

func (d *uniqueKeyDist) Type() *dist.Type { return UniqueKeyType }
func (d *uniqueKeyDist) Params() any      { return d.p }

func (d *uniqueKeyDist) DrawReset() {
	d.counter = 0
	d.seen = make(map[int64]struct{})
}

func (d *uniqueKeyDist) Draw() any {
	if d.p.Consecutive {
		v := d.p.Low + d.counter
		d.counter++
		return v
	}
	span := d.p.High - d.p.Low
	for {
		// Grow the range once the observed one is exhausted, keeping draws
		// distinct indefinitely.
		if int64(len(d.seen)) >= span {
			span *= 2
		}
		v := d.p.Low + rand.Int64N(span)
		if _, ok := d.seen[v]; !ok {
			d.seen[v] = struct{}{}
			return v
		}
	}
}

func (d *uniqueKeyDist) InformationCriterion(values []any) float64 {
	xs, err := asInts(values)
	if err != nil {
		return math.Inf(1)
	}
	seen := make(map[int64]struct{}, len(xs))
	for _, x := range xs {
		if _, ok := seen[x]; ok {
			return math.Inf(1)
		}
		seen[x] = struct{}{}
	}
	if d.p.Consecutive {
		// The sequence is fully determined by low: only the parameters count.
		return aic(3, 0)
	}
	span := float64(d.p.High - d.p.Low)
	logLik := 0.0
	for i := range xs {
		remaining := span - float64(i)
		if remaining < 1 {
			remaining = 1
		}
		logLik -= math.Log(remaining)
	}
	return aic(3, logLik)
}
