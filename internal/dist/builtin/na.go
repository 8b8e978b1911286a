// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package builtin

import (
	"encoding/json"
	"math"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/vartype"
)

type naDist struct{}

// NAType is the degenerate distribution for columns that contain only
// missing values. It models every variable type and always draws the absent
// marker. During automatic selection it only wins when there is nothing to
// fit on.
var NAType = &dist.Type{
	Implements: "builtin.na",
	ClassName:  "NADistribution",
	Provenance: "builtin",
	Version:    Version,
	VarTypes:   vartype.All,
	Privacy:    "none",
	Fit: func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		return naDist{}, nil
	},
	FromParams: func(raw json.RawMessage) (dist.Distribution, error) {
		return naDist{}, nil
	},
	Default: func() dist.Distribution { return naDist{} },
	Schema: func() *jsonschema.Schema {
		return dist.RecordSchema(&jsonschema.Schema{Type: "object"})
	},
}

func (naDist) Type() *dist.Type { return NAType }
func (naDist) Draw() any        { return nil }
func (naDist) DrawReset()       {}
func (naDist) Params() any      { return struct{}{} }

func (naDist) InformationCriterion(values []any) float64 {
	if len(values) == 0 {
		return 0
	}
	return math.Inf(1)
}
