// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package builtin

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/vartype"
)

// Serialization layouts per temporal variable type.
const (
	layoutDate     = "2006-01-02"
	layoutTime     = "15:04:05"
	layoutDateTime = "2006-01-02T15:04:05"
)

type temporalParams struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// temporalDist draws uniformly between two instants, truncated to the
// precision of its layout.
type temporalDist struct {
	typ        *dist.Type
	layout     string
	start, end time.Time
}

func asTimes(values []any) ([]time.Time, error) {
	out := make([]time.Time, len(values))
	for i, v := range values {
		t, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("%w: expected time.Time value, got %T", dist.ErrFitting, v)
		}
		out[i] = t
	}
	return out, nil
}

func fitTemporal(typ *dist.Type, layout string, values []any) (dist.Distribution, error) {
	if err := requireValues(values); err != nil {
		return nil, err
	}
	ts, err := asTimes(values)
	if err != nil {
		return nil, err
	}
	start, end := ts[0], ts[0]
	for _, t := range ts {
		if t.Before(start) {
			start = t
		}
		if t.After(end) {
			end = t
		}
	}
	return &temporalDist{typ: typ, layout: layout, start: start, end: end}, nil
}

func temporalFromParams(typ *dist.Type, layout string, raw json.RawMessage) (dist.Distribution, error) {
	var p temporalParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
	}
	start, err := time.Parse(layout, p.Start)
	if err != nil {
		return nil, fmt.Errorf("%w: start %q: %v", dist.ErrSchema, p.Start, err)
	}
	end, err := time.Parse(layout, p.End)
	if err != nil {
		return nil, fmt.Errorf("%w: end %q: %v", dist.ErrSchema, p.End, err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %q before start %q", dist.ErrSchema, p.End, p.Start)
	}
	return &temporalDist{typ: typ, layout: layout, start: start, end: end}, nil
}

func temporalSchema() *jsonschema.Schema {
	return dist.RecordSchema(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"start": {Type: "string"},
			"end":   {Type: "string"},
		},
		Required: []string{"start", "end"},
	})
}

func newTemporalType(implements, className string, vt vartype.Type, layout, defStart, defEnd string) *dist.Type {
	t := &dist.Type{
		Implements: implements,
		ClassName:  className,
		Provenance: "builtin",
		Version:    Version,
		VarTypes:   []vartype.Type{vt},
		Privacy:    "none",
		Schema:     temporalSchema,
	}
	t.Fit = func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		return fitTemporal(t, layout, values)
	}
	t.FromParams = func(raw json.RawMessage) (dist.Distribution, error) {
		return temporalFromParams(t, layout, raw)
	}
	t.Default = func() dist.Distribution {
		d, err := temporalFromParams(t, layout, json.RawMessage(
			fmt.Sprintf(`{"start": %q, "end": %q}`, defStart, defEnd)))
		if err != nil {
			panic(err)
		}
		return d
	}
	return t
}

// DateUniformType draws calendar dates uniformly from the observed range.
var DateUniformType = newTemporalType(
	"builtin.date_uniform", "DateUniformDistribution",
	vartype.Date, layoutDate, "2020-01-01", "2020-12-31")

// TimeUniformType draws times of day uniformly from the observed range.
var TimeUniformType = newTemporalType(
	"builtin.time_uniform", "TimeUniformDistribution",
	vartype.Time, layoutTime, "09:00:00", "17:00:00")

// DateTimeUniformType draws timestamps uniformly from the observed range.
var DateTimeUniformType = newTemporalType(
	"builtin.datetime_uniform", "DateTimeUniformDistribution",
	vartype.DateTime, layoutDateTime, "2020-01-01T00:00:00", "2020-12-31T23:59:59")

func (d *temporalDist) Type() *dist.Type { return d.typ }
func (d *temporalDist) DrawReset()       {}

func (d *temporalDist) Params() any {
	return temporalParams{
		Start: d.start.Format(d.layout),
		End:   d.end.Format(d.layout),
	}
}

func (d *temporalDist) Draw() any {
	span := d.end.Sub(d.start)
	if span <= 0 {
		return d.start
	}
	offset := time.Duration(rand.Int64N(int64(span) + 1))
	drawn := d.start.Add(offset)
	// Round-trip through the layout so drawn values carry the same precision
	// as serialized parameters.
	truncated, err := time.Parse(d.layout, drawn.Format(d.layout))
	if err != nil {
		return drawn
	}
	return truncated
}

func (d *temporalDist) InformationCriterion(values []any) float64 {
	ts, err := asTimes(values)
	if err != nil {
		return math.Inf(1)
	}
	span := d.end.Sub(d.start).Seconds()
	if span <= 0 {
		span = 1
	}
	for _, t := range ts {
		if t.Before(d.start) || t.After(d.end) {
			return math.Inf(1)
		}
	}
	return aic(2, -float64(len(ts))*math.Log(span))
}
