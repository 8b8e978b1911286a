// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package csvio

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sodascience/metasynth/internal/series"
)

func TestReadFrom_InfersTypes(t *testing.T) {
	csv := strings.Join([]string{
		"id,score,city,joined",
		"1,2.5,utrecht,2021-03-01",
		"2,3.75,leiden,2021-06-15",
		"3,,utrecht,",
	}, "\n")

	cols, err := readFrom(strings.NewReader(csv), map[string]bool{"city": true})
	require.NoError(t, err)
	require.Len(t, cols, 4)

	assert.Equal(t, series.DTypeInt64, cols[0].DType)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, cols[0].Values)

	assert.Equal(t, series.DTypeFloat64, cols[1].DType)
	assert.Equal(t, 2.5, cols[1].Values[0])
	assert.Nil(t, cols[1].Values[2])

	assert.Equal(t, series.DTypeCategorical, cols[2].DType)

	assert.Equal(t, series.DTypeDate, cols[3].DType)
	assert.IsType(t, time.Time{}, cols[3].Values[0])
	assert.Nil(t, cols[3].Values[2])
}

func TestReadFrom_FallsBackToString(t *testing.T) {
	csv := "mixed\n12\nhello\n3.5\n"
	cols, err := readFrom(strings.NewReader(csv), nil)
	require.NoError(t, err)
	assert.Equal(t, series.DTypeUtf8, cols[0].DType)
}

func TestReadFrom_AllEmptyColumn(t *testing.T) {
	csv := "blank\n\n\n"
	cols, err := readFrom(strings.NewReader(csv), nil)
	require.NoError(t, err)
	assert.Equal(t, series.DTypeUtf8, cols[0].DType)
	assert.Equal(t, 1.0, cols[0].PropMissing())
}

func TestReadFrom_NoHeader(t *testing.T) {
	_, err := readFrom(strings.NewReader(""), nil)
	assert.ErrorContains(t, err, "no header row")
}

func TestInferDType(t *testing.T) {
	tests := []struct {
		name  string
		cells []string
		want  string
	}{
		{"ints", []string{"1", "-5", ""}, series.DTypeInt64},
		{"floats", []string{"1", "2.5"}, series.DTypeFloat64},
		{"dates", []string{"2020-01-01", "2021-12-31"}, series.DTypeDate},
		{"times", []string{"09:00:00", "17:30:00"}, series.DTypeTime},
		{"datetimes", []string{"2020-01-01T09:00:00"}, series.DTypeDatetime},
		{"strings", []string{"x", "2020-01-01"}, series.DTypeUtf8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, inferDType(tt.cells))
		})
	}
}

func TestWriteTo_RoundTrip(t *testing.T) {
	joined, err := time.Parse("2006-01-02", "2021-03-01")
	require.NoError(t, err)
	id, err := series.New("id", series.DTypeInt64, []any{int64(1), int64(2)})
	require.NoError(t, err)
	score, err := series.New("score", series.DTypeFloat64, []any{2.5, nil})
	require.NoError(t, err)
	date, err := series.New("joined", series.DTypeDate, []any{joined, nil})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeTo(&buf, []*series.Series{id, score, date}))

	assert.Equal(t, "id,score,joined\n1,2.5,2021-03-01\n2,,\n", buf.String())

	cols, err := readFrom(&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, id.Values, cols[0].Values)
	assert.Equal(t, score.Values, cols[1].Values)
	assert.Equal(t, date.Values, cols[2].Values)
}

func TestWriteTo_NoColumns(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, writeTo(&buf, nil))
}
