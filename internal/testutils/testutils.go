// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package testutils provides conformance checks for distribution providers
// and their implementations. Provider packages run these in their own tests;
// third-party providers are expected to do the same.
package testutils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/privacy"
	"github.com/sodascience/metasynth/internal/provider"
)

// CheckProvider asserts the internal consistency of a registered provider.
func CheckProvider(t *testing.T, name string) {
	t.Helper()
	p, err := provider.Get(name)
	require.NoError(t, err)
	require.NoError(t, p.Validate())
	assert.Equal(t, name, p.Name)
	assert.NotEmpty(t, p.Version)
	assert.NotEmpty(t, p.Distributions)
}

// CheckDistribution asserts that one catalog entry satisfies the full
// distribution contract under the given policy.
func CheckDistribution(t *testing.T, typ *dist.Type, policy privacy.Policy, provenance string) {
	t.Helper()
	require.NoError(t, typ.Validate())
	assert.Equal(t, provenance, typ.Provenance)
	assert.Len(t, strings.Split(typ.Implements, "."), 2)

	// The default instance's serialized form must validate against the
	// published schema.
	def := typ.Default()
	rec, err := dist.ToDict(def)
	require.NoError(t, err)
	require.NoError(t, dist.ValidateSchema(typ, rec))

	// Privacy compatibility and findability for every modeled variable type.
	assert.True(t, policy.IsCompatible(typ))
	list, err := provider.FromNames(provenance)
	require.NoError(t, err)
	unique := typ.Unique
	for _, vt := range typ.VarTypes {
		found, err := list.FindDistribution(typ.Implements, vt, policy, &unique)
		require.NoError(t, err, "find %s for %s", typ.Implements, vt)
		assert.Same(t, typ, found)
	}

	// Draw from the default instance, refit on the draws, and check the
	// required record keys survive.
	def.DrawReset()
	values := make([]any, 0, 100)
	for i := 0; i < 100; i++ {
		if v := def.Draw(); v != nil {
			values = append(values, v)
		}
	}
	refit, err := typ.Fit(values, policy.FitOptions())
	if typ.Implements == "builtin.na" {
		// The all-missing distribution draws no values at all.
		require.NoError(t, err)
		return
	}
	require.NoError(t, err)
	assert.Same(t, typ, refit.Type())

	refitRec, err := dist.ToDict(refit)
	require.NoError(t, err)
	m, err := refitRec.AsMap()
	require.NoError(t, err)
	for _, key := range []string{"implements", "provenance", "class_name", "parameters"} {
		assert.Contains(t, m, key)
	}

	// Round trip: the record restores to an equivalent instance.
	restored, err := typ.FromParams(refitRec.Parameters)
	require.NoError(t, err)
	restoredRec, err := dist.ToDict(restored)
	require.NoError(t, err)
	assert.JSONEq(t, string(refitRec.Parameters), string(restoredRec.Parameters))
}
