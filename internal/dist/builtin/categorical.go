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
)

type multinoulliParams struct {
	Labels []string  `json:"labels"`
	Probs  []float64 `json:"probs"`
}

type multinoulliDist struct {
	p multinoulliParams
}

// MultinoulliType models categorical columns by their observed label
// frequencies. Labels are sorted so fitting is deterministic.
var MultinoulliType = &dist.Type{
	Implements: "builtin.multinoulli",
	ClassName:  "MultinoulliDistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   []vartype.Type{vartype.Categorical, vartype.String},
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if err := requireValues(values); err != nil {
			return nil, err
		}
		labels, err := asStrings(values)
		if err != nil {
			return nil, err
		}
		counts := make(map[string]int, len(labels))
		for _, l := range labels {
			counts[l]++
		}
		sorted := make([]string, 0, len(counts))
		for l := range counts {
			sorted = append(sorted, l)
		}
		sort.Strings(sorted)
		probs := make([]float64, len(sorted))
		for i, l := range sorted {
			probs[i] = float64(counts[l]) / float64(len(labels))
		}
		return &multinoulliDist{p: multinoulliParams{Labels: sorted, Probs: probs}}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		var p multinoulliParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
		}
		if len(p.Labels) == 0 || len(p.Labels) != len(p.Probs) {
			return nil, fmt.Errorf("%w: multinoulli needs matching labels and probs", dist.ErrSchema)
		}
		total := 0.0
		for _, pr := range p.Probs {
			if pr < 0 {
				return nil, fmt.Errorf("%w: multinoulli probability below zero", dist.ErrSchema)
			}
			total += pr
		}
		if math.Abs(total-1) > 1e-6 {
			return nil, fmt.Errorf("%w: multinoulli probabilities sum to %v", dist.ErrSchema, total)
		}
		return &multinoulliDist{p: p}, nil
	},
	Default: func() dist.Distribution {
		return &multinoulliDist{p: multinoulliParams{
			Labels: []string{"a", "b", "c"},
			Probs:  []float64{0.3, 0.4, 0.3},
		}}
	},
	Schema: func() *jsonschema.Schema {
		return dist.RecordSchema(&jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"labels": {Type: "array", Items: &jsonschema.Schema{Type: "string"}},
				"probs":  {Type: "array", Items: &jsonschema.Schema{Type: "number"}},
			},
			Required: []string{"labels", "probs"},
		})
	},
}

func (d *multinoulliDist) Type() *dist.Type { return MultinoulliType }
func (d *multinoulliDist) Params() any      { return d.p }
func (d *multinoulliDist) DrawReset()       {}

func (d *multinoulliDist) Draw() any {
	r := rand.Float64()
	cum := 0.0
	for i, p := range d.p.Probs {
		cum += p
		if r < cum {
			return d.p.Labels[i]
		}
	}
	return d.p.Labels[len(d.p.Labels)-1]
}

func (d *multinoulliDist) InformationCriterion(values []any) float64 {
	labels, err := asStrings(values)
	if err != nil {
		return math.Inf(1)
	}
	probs := make(map[string]float64, len(d.p.Labels))
	for i, l := range d.p.Labels {
		probs[l] = d.p.Probs[i]
	}
	logLik := 0.0
	for _, l := range labels {
		p, ok := probs[l]
		if !ok || p == 0 {
			return math.Inf(1)
		}
		logLik += math.Log(p)
	}
	return aic(len(d.p.Labels)-1, logLik)
}
