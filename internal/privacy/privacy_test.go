// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package privacy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodascience/metasynth/internal/dist"
)

func TestBasic(t *testing.T) {
	p := Basic{}
	assert.Equal(t, "none", p.Name())
	assert.True(t, p.IsCompatible(&dist.Type{Privacy: "none"}))
	assert.False(t, p.IsCompatible(&dist.Type{Privacy: "disclosure"}))
	assert.Zero(t, p.FitOptions().PartitionSize)
}

func TestDisclosure(t *testing.T) {
	p := Disclosure{PartitionSize: 15}
	assert.Equal(t, "disclosure", p.Name())
	assert.True(t, p.IsCompatible(&dist.Type{Privacy: "disclosure"}))
	assert.False(t, p.IsCompatible(&dist.Type{Privacy: "none"}))
	assert.Equal(t, 15, p.FitOptions().PartitionSize)

	// The conventional output-checking threshold applies when unset.
	assert.Equal(t, 11, Disclosure{}.FitOptions().PartitionSize)
}

func TestForName(t *testing.T) {
	p, err := ForName("", 0)
	require.NoError(t, err)
	assert.Equal(t, "none", p.Name())

	p, err = ForName("none", 0)
	require.NoError(t, err)
	assert.IsType(t, Basic{}, p)

	p, err = ForName("disclosure", 20)
	require.NoError(t, err)
	assert.Equal(t, 20, p.FitOptions().PartitionSize)

	_, err = ForName("secure-multiparty", 0)
	assert.Error(t, err)
}
