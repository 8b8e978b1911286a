// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package metavar

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/dist/builtin"
	_ "github.com/sodascience/metasynth/internal/dist/disclosure"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/series"
	"github.com/sodascience/metasynth/internal/vartype"
)

func mustSeries(t *testing.T, name, dtype string, values []any) *series.Series {
	t.Helper()
	s, err := series.New(name, dtype, values)
	require.NoError(t, err)
	return s
}

func TestNew_Bounds(t *testing.T) {
	d := builtin.NormalType.Default()

	_, err := New("x", vartype.Continuous, d, series.DTypeFloat64, 0.5, "")
	assert.NoError(t, err)

	// Floating point noise just outside [0, 1] is tolerated.
	_, err = New("x", vartype.Continuous, d, series.DTypeFloat64, -1e-9, "")
	assert.NoError(t, err)
	_, err = New("x", vartype.Continuous, d, series.DTypeFloat64, 1+1e-9, "")
	assert.NoError(t, err)

	_, err = New("x", vartype.Continuous, d, series.DTypeFloat64, -0.1, "")
	assert.ErrorIs(t, err, dist.ErrValidation)
	_, err = New("x", vartype.Continuous, d, series.DTypeFloat64, 1.1, "")
	assert.ErrorIs(t, err, dist.ErrValidation)
}

func TestNew_VarTypeCompatibility(t *testing.T) {
	d := builtin.NormalType.Default()
	_, err := New("x", vartype.Categorical, d, series.DTypeCategorical, 0, "")
	assert.ErrorIs(t, err, dist.ErrValidation)
}

func TestFit_Automatic(t *testing.T) {
	s := mustSeries(t, "income", series.DTypeFloat64,
		[]any{1000.0, 1200.0, nil, 900.0, 1100.0, nil})

	v, err := Fit(s, FitConfig{})
	require.NoError(t, err)

	assert.Equal(t, "income", v.Name)
	assert.Equal(t, vartype.Continuous, v.VarType)
	assert.Equal(t, series.DTypeFloat64, v.DType)
	assert.InDelta(t, 1.0/3.0, v.PropMissing, 1e-12)
	assert.Equal(t, "builtin", v.Distribution.Type().Provenance)
}

func TestFit_DiscreteSelection(t *testing.T) {
	s := mustSeries(t, "counts", series.DTypeInt64,
		[]any{int64(1), int64(1), int64(2), int64(2), int64(2), int64(3)})

	v, err := Fit(s, FitConfig{})
	require.NoError(t, err)

	assert.Equal(t, vartype.Discrete, v.VarType)
	// Duplicates rule the unique key out; a plain discrete family wins.
	assert.False(t, v.Distribution.Type().Unique)
}

func TestFit_ExplicitSpec(t *testing.T) {
	s := mustSeries(t, "score", series.DTypeFloat64, []any{1.0, 2.0, 3.0})

	v, err := Fit(s, FitConfig{Spec: "normal"})
	require.NoError(t, err)
	assert.Equal(t, "builtin.normal", v.Distribution.Type().Implements)

	v, err = Fit(s, FitConfig{Spec: map[string]any{"implements": "builtin.uniform"}})
	require.NoError(t, err)
	assert.Equal(t, "builtin.uniform", v.Distribution.Type().Implements)

	_, err = Fit(s, FitConfig{Spec: "multinoulli"})
	assert.ErrorIs(t, err, dist.ErrNotFound,
		"a categorical family cannot serve a continuous column")
}

func TestFit_AllMissing(t *testing.T) {
	s := mustSeries(t, "empty", series.DTypeUtf8, []any{nil, nil, nil})

	v, err := Fit(s, FitConfig{})
	require.NoError(t, err)

	assert.Equal(t, "builtin.na", v.Distribution.Type().Implements)
	assert.Equal(t, 1.0, v.PropMissing)
	assert.Nil(t, v.Draw())
}

func TestFit_PropMissingOverride(t *testing.T) {
	s := mustSeries(t, "x", series.DTypeFloat64, []any{1.0, 2.0})
	override := 0.25

	v, err := Fit(s, FitConfig{PropMissing: &override})
	require.NoError(t, err)
	assert.Equal(t, 0.25, v.PropMissing)

	bad := 1.5
	_, err = Fit(s, FitConfig{PropMissing: &bad})
	assert.ErrorIs(t, err, dist.ErrValidation)
}

func TestFit_DisclosurePolicy(t *testing.T) {
	values := make([]any, 0, 30)
	for i := range 30 {
		values = append(values, float64(i))
	}
	s := mustSeries(t, "x", series.DTypeFloat64, values)

	v, err := Fit(s, FitConfig{Policy: privacy.Disclosure{PartitionSize: 5}})
	require.NoError(t, err)
	assert.Equal(t, "disclosure", v.Distribution.Type().Provenance)
}

func TestDraw_MissingRate(t *testing.T) {
	s := mustSeries(t, "x", series.DTypeFloat64, []any{1.0, 2.0, 3.0, 4.0})
	half := 0.5

	v, err := Fit(s, FitConfig{PropMissing: &half})
	require.NoError(t, err)

	missing := 0
	const n = 2000
	for range n {
		if v.Draw() == nil {
			missing++
		}
	}
	rate := float64(missing) / n
	assert.InDelta(t, 0.5, rate, 0.08)
}

func TestDrawSeries_CastsToStorageType(t *testing.T) {
	s := mustSeries(t, "ids", series.DTypeInt64,
		[]any{int64(10), int64(11), int64(12), int64(13)})

	v, err := Fit(s, FitConfig{})
	require.NoError(t, err)

	drawn, err := v.DrawSeries(25)
	require.NoError(t, err)
	assert.Equal(t, 25, drawn.Len())
	assert.Equal(t, series.DTypeInt64, drawn.DType)
	for _, val := range drawn.Values {
		if val != nil {
			assert.IsType(t, int64(0), val)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	s := mustSeries(t, "category", series.DTypeCategorical,
		[]any{"a", "b", "a", nil, "c"})

	v, err := Fit(s, FitConfig{Description: "a labelled column"})
	require.NoError(t, err)

	rec, err := v.ToDict()
	require.NoError(t, err)
	assert.Equal(t, "category", rec.Name)
	assert.Equal(t, "categorical", rec.Type)
	assert.Equal(t, series.DTypeCategorical, rec.DType)
	assert.InDelta(t, 0.2, rec.PropMissing, 1e-12)
	assert.Equal(t, "a labelled column", rec.Description)
	require.NotNil(t, rec.Distribution)
	assert.Equal(t, "builtin.multinoulli", rec.Distribution.Implements)

	restored, err := FromDict(rec, nil)
	require.NoError(t, err)
	assert.Equal(t, v.Name, restored.Name)
	assert.Equal(t, v.VarType, restored.VarType)
	assert.Equal(t, v.PropMissing, restored.PropMissing)
	assert.Equal(t, v.Distribution.Type(), restored.Distribution.Type())
}

func TestFromDict_Errors(t *testing.T) {
	_, err := FromDict(&Record{Name: "x", Type: "imaginary"}, nil)
	assert.ErrorIs(t, err, dist.ErrValidation)

	_, err = FromDict(&Record{Name: "x", Type: "continuous"}, nil)
	assert.ErrorIs(t, err, dist.ErrSchema)

	_, err = FromDict(&Record{
		Name: "x", Type: "continuous", DType: series.DTypeFloat64,
		Distribution: &dist.Record{Implements: "builtin.vanished"},
	}, nil)
	assert.ErrorIs(t, err, dist.ErrNotFound)
}
