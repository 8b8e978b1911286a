// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package provider

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/vartype"
)

type stubParams struct {
	Score float64 `json:"score"`
}

type stubDist struct {
	t     *dist.Type
	score float64
}

func (d *stubDist) Type() *dist.Type { return d.t }
func (d *stubDist) Draw() any        { return d.score }
func (d *stubDist) DrawReset()       {}
func (d *stubDist) InformationCriterion(values []any) float64 {
	return d.score
}
func (d *stubDist) Params() any { return stubParams{Score: d.score} }

// stubType builds a descriptor whose fit always succeeds with a fixed
// information criterion, or always fails when score is NaN.
func stubType(provName, alias string, vt vartype.Type, unique bool, score float64) *dist.Type {
	t := &dist.Type{
		Implements: provName + "." + alias,
		ClassName:  alias,
		Provenance: provName,
		Version:    "1.0",
		VarTypes:   []vartype.Type{vt},
		Unique:     unique,
		Privacy:    "none",
	}
	t.Fit = func(values []any, opts dist.FitOptions) (dist.Distribution, error) {
		if math.IsNaN(score) {
			return nil, fmt.Errorf("%w: stub refuses", dist.ErrFitting)
		}
		return &stubDist{t: t, score: score}, nil
	}
	t.FromParams = func(raw json.RawMessage) (dist.Distribution, error) {
		var p stubParams
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, err
		}
		return &stubDist{t: t, score: p.Score}, nil
	}
	t.Default = func() dist.Distribution { return &stubDist{t: t, score: score} }
	t.Schema = func() *jsonschema.Schema {
		return dist.RecordSchema(&jsonschema.Schema{Type: "object"})
	}
	return t
}

func stubProvider(name string, types ...*dist.Type) *Provider {
	return &Provider{Name: name, Version: "0.1.0", Distributions: types}
}

func TestProvider_Validate(t *testing.T) {
	good := stubProvider("alpha", stubType("alpha", "uniform", vartype.Continuous, false, 1))
	assert.NoError(t, good.Validate())

	t.Run("empty name", func(t *testing.T) {
		p := stubProvider("", stubType("alpha", "uniform", vartype.Continuous, false, 1))
		p.Name = ""
		assert.ErrorIs(t, p.Validate(), dist.ErrValidation)
	})

	t.Run("empty catalog", func(t *testing.T) {
		p := stubProvider("alpha")
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "empty catalog")
	})

	t.Run("provenance mismatch", func(t *testing.T) {
		p := stubProvider("alpha", stubType("beta", "uniform", vartype.Continuous, false, 1))
		err := p.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "provenance")
	})
}

func TestRegistry(t *testing.T) {
	p := stubProvider("regtest", stubType("regtest", "uniform", vartype.Continuous, false, 1))
	Register(p)

	got, err := Get("regtest")
	require.NoError(t, err)
	assert.Same(t, p, got)

	_, err = Get("missing")
	assert.ErrorIs(t, err, dist.ErrNotFound)

	assert.Contains(t, Available(), "regtest")

	assert.Panics(t, func() { Register(p) }, "duplicate registration must panic")
	assert.Panics(t, func() {
		Register(stubProvider("broken"))
	}, "invalid provider must panic")
}

func TestFromNames_UnknownProvider(t *testing.T) {
	_, err := FromNames("no-such-provider")
	assert.ErrorIs(t, err, dist.ErrNotFound)
}

func TestList_FindDistribution(t *testing.T) {
	first := stubType("alpha", "normal", vartype.Continuous, false, 1)
	second := stubType("beta", "normal", vartype.Continuous, false, 2)
	unique := stubType("beta", "key", vartype.Discrete, true, 3)
	list, err := NewList(
		stubProvider("alpha", first),
		stubProvider("beta", second, unique),
	)
	require.NoError(t, err)

	t.Run("alias resolves in provider order", func(t *testing.T) {
		got, err := list.FindDistribution("normal", vartype.Continuous, privacy.Basic{}, nil)
		require.NoError(t, err)
		assert.Same(t, first, got)
	})

	t.Run("full identifier skips earlier providers", func(t *testing.T) {
		got, err := list.FindDistribution("beta.normal", vartype.Continuous, privacy.Basic{}, nil)
		require.NoError(t, err)
		assert.Same(t, second, got)
	})

	t.Run("variable type gates the match", func(t *testing.T) {
		_, err := list.FindDistribution("normal", vartype.Discrete, privacy.Basic{}, nil)
		assert.ErrorIs(t, err, dist.ErrNotFound)
	})

	t.Run("uniqueness flag filters", func(t *testing.T) {
		want := true
		got, err := list.FindDistribution("key", vartype.Discrete, privacy.Basic{}, &want)
		require.NoError(t, err)
		assert.Same(t, unique, got)

		dontWant := false
		_, err = list.FindDistribution("key", vartype.Discrete, privacy.Basic{}, &dontWant)
		assert.ErrorIs(t, err, dist.ErrNotFound)
	})

	t.Run("privacy predicate filters", func(t *testing.T) {
		_, err := list.FindDistribution("normal", vartype.Continuous, privacy.Disclosure{}, nil)
		assert.ErrorIs(t, err, dist.ErrNotFound)
	})
}

func TestList_Fit_Explicit(t *testing.T) {
	ok := stubType("alpha", "normal", vartype.Continuous, false, 5)
	failing := stubType("alpha", "broken", vartype.Continuous, false, math.NaN())
	list, err := NewList(stubProvider("alpha", ok, failing))
	require.NoError(t, err)

	d, err := list.Fit([]any{1.0, 2.0}, vartype.Continuous, dist.Spec{Implements: "normal"}, privacy.Basic{})
	require.NoError(t, err)
	assert.Equal(t, "alpha.normal", d.Type().Implements)

	// An explicitly requested implementation that cannot fit propagates the
	// error instead of falling back to another candidate.
	_, err = list.Fit([]any{1.0}, vartype.Continuous, dist.Spec{Implements: "broken"}, privacy.Basic{})
	assert.ErrorIs(t, err, dist.ErrFitting)
}

func TestList_Fit_SelectsLowestScore(t *testing.T) {
	worse := stubType("alpha", "worse", vartype.Continuous, false, 10)
	better := stubType("alpha", "better", vartype.Continuous, false, 2)
	failing := stubType("alpha", "broken", vartype.Continuous, false, math.NaN())
	list, err := NewList(stubProvider("alpha", worse, better, failing))
	require.NoError(t, err)

	d, err := list.Fit([]any{1.0, 2.0}, vartype.Continuous, dist.Spec{}, privacy.Basic{})
	require.NoError(t, err)
	assert.Equal(t, "alpha.better", d.Type().Implements)
}

func TestList_Fit_TieKeepsFirstRegistered(t *testing.T) {
	a := stubType("alpha", "a", vartype.Continuous, false, 3)
	b := stubType("alpha", "b", vartype.Continuous, false, 3)
	list, err := NewList(stubProvider("alpha", a, b))
	require.NoError(t, err)

	for range 10 {
		d, err := list.Fit([]any{1.0, 2.0}, vartype.Continuous, dist.Spec{}, privacy.Basic{})
		require.NoError(t, err)
		assert.Equal(t, "alpha.a", d.Type().Implements)
	}
}

func TestList_Fit_UniquenessFilter(t *testing.T) {
	plain := stubType("alpha", "plain", vartype.Discrete, false, 5)
	keyed := stubType("alpha", "keyed", vartype.Discrete, true, 1)
	list, err := NewList(stubProvider("alpha", plain, keyed))
	require.NoError(t, err)

	wantUnique := false
	d, err := list.Fit([]any{int64(1)}, vartype.Discrete, dist.Spec{Unique: &wantUnique}, privacy.Basic{})
	require.NoError(t, err)
	assert.Equal(t, "alpha.plain", d.Type().Implements, "better-scoring unique candidate must be filtered out")

	wantUnique = true
	d, err = list.Fit([]any{int64(1)}, vartype.Discrete, dist.Spec{Unique: &wantUnique}, privacy.Basic{})
	require.NoError(t, err)
	assert.Equal(t, "alpha.keyed", d.Type().Implements)
}

func TestList_Fit_WarnsWhenBestIsUnique(t *testing.T) {
	plain := stubType("alpha", "plain", vartype.Discrete, false, 9)
	keyed := stubType("alpha", "keyed", vartype.Discrete, true, 1)
	list, err := NewList(stubProvider("alpha", plain, keyed))
	require.NoError(t, err)

	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	// No uniqueness preference: the unique candidate still wins on score, and
	// the caller is warned to make the choice explicit.
	d, err := list.Fit([]any{int64(1), int64(2)}, vartype.Discrete, dist.Spec{}, privacy.Basic{})
	require.NoError(t, err)
	assert.Equal(t, "alpha.keyed", d.Type().Implements)
	assert.Contains(t, logs.String(), "uniqueness preference")
	assert.Contains(t, logs.String(), "alpha.keyed")

	logs.Reset()
	wantUnique := true
	d, err = list.Fit([]any{int64(1), int64(2)}, vartype.Discrete, dist.Spec{Unique: &wantUnique}, privacy.Basic{})
	require.NoError(t, err)
	assert.Equal(t, "alpha.keyed", d.Type().Implements)
	assert.NotContains(t, logs.String(), "uniqueness preference", "explicit preference silences the warning")
}

func TestList_Fit_NoCandidates(t *testing.T) {
	cont := stubType("alpha", "normal", vartype.Continuous, false, 1)
	list, err := NewList(stubProvider("alpha", cont))
	require.NoError(t, err)

	_, err = list.Fit([]any{"x"}, vartype.String, dist.Spec{}, privacy.Basic{})
	assert.ErrorIs(t, err, dist.ErrNotFound)
}

func TestList_Fit_AllCandidatesFail(t *testing.T) {
	failing := stubType("alpha", "broken", vartype.Continuous, false, math.NaN())
	list, err := NewList(stubProvider("alpha", failing))
	require.NoError(t, err)

	_, err = list.Fit([]any{1.0}, vartype.Continuous, dist.Spec{}, privacy.Basic{})
	assert.ErrorIs(t, err, dist.ErrFitting)
	assert.False(t, IsNotFound(err))
}

func TestList_FromDict(t *testing.T) {
	ty := stubType("alpha", "normal", vartype.Continuous, false, 4)
	list, err := NewList(stubProvider("alpha", ty))
	require.NoError(t, err)

	rec, err := dist.ToDict(ty.Default())
	require.NoError(t, err)

	d, err := list.FromDict(rec, vartype.Continuous)
	require.NoError(t, err)
	assert.Equal(t, "alpha.normal", d.Type().Implements)
	assert.Equal(t, 4.0, d.InformationCriterion(nil))

	rec.Implements = "alpha.missing"
	_, err = list.FromDict(rec, vartype.Continuous)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}
