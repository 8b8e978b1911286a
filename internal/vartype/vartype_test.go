// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package vartype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, vt := range All {
		got, err := Parse(string(vt))
		require.NoError(t, err)
		assert.Equal(t, vt, got)
	}

	_, err := Parse("unknown")
	assert.Error(t, err, "the sentinel is not a parseable type")

	_, err = Parse("ordinal")
	assert.Error(t, err)
}

func TestIn(t *testing.T) {
	assert.True(t, In(Discrete, All))
	assert.False(t, In(Unknown, All))
	assert.False(t, In(Discrete, []Type{Continuous, String}))
}
