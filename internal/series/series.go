// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package series provides the column representation the fitting engine
// operates on: a named slice of values with an explicit storage type, where a
// nil element marks a missing value.
package series

import (
	"fmt"
	"time"

	"github.com/sodascience/metasynth/internal/vartype"
)

// Storage type identifiers, mirroring the dtype names of the source data
// frames they are read from.
const (
	DTypeInt64       = "Int64"
	DTypeFloat64     = "Float64"
	DTypeUtf8        = "Utf8"
	DTypeCategorical = "Categorical"
	DTypeDate        = "Date"
	DTypeTime        = "Time"
	DTypeDatetime    = "Datetime"
)

// Series is a single column of data. Values holds one element per row; nil
// marks a missing value. Non-missing elements must agree with DType: int64
// for Int64, float64 for Float64, string for Utf8/Categorical and time.Time
// for Date/Time/Datetime.
type Series struct {
	Name   string
	DType  string
	Values []any
}

// New creates a series after checking that all non-missing values match the
// declared storage type.
func New(name, dtype string, values []any) (*Series, error) {
	s := &Series{Name: name, DType: dtype, Values: values}
	for i, v := range values {
		if v == nil {
			continue
		}
		if err := checkElem(dtype, v); err != nil {
			return nil, fmt.Errorf("series %q row %d: %w", name, i, err)
		}
	}
	return s, nil
}

func checkElem(dtype string, v any) error {
	switch dtype {
	case DTypeInt64:
		if _, ok := v.(int64); !ok {
			return fmt.Errorf("expected int64, got %T", v)
		}
	case DTypeFloat64:
		if _, ok := v.(float64); !ok {
			return fmt.Errorf("expected float64, got %T", v)
		}
	case DTypeUtf8, DTypeCategorical:
		if _, ok := v.(string); !ok {
			return fmt.Errorf("expected string, got %T", v)
		}
	case DTypeDate, DTypeTime, DTypeDatetime:
		if _, ok := v.(time.Time); !ok {
			return fmt.Errorf("expected time.Time, got %T", v)
		}
	default:
		return fmt.Errorf("unsupported storage type %q", dtype)
	}
	return nil
}

// Len returns the number of rows, missing values included.
func (s *Series) Len() int { return len(s.Values) }

// DropNulls returns the non-missing values in order.
func (s *Series) DropNulls() []any {
	out := make([]any, 0, len(s.Values))
	for _, v := range s.Values {
		if v != nil {
			out = append(out, v)
		}
	}
	return out
}

// PropMissing returns the fraction of missing values. An empty series counts
// as fully missing.
func (s *Series) PropMissing() float64 {
	if len(s.Values) == 0 {
		return 1
	}
	missing := 0
	for _, v := range s.Values {
		if v == nil {
			missing++
		}
	}
	return float64(missing) / float64(len(s.Values))
}

// VarType maps the storage type to a variable type. It fails for storage
// types the engine has no distribution family for.
func (s *Series) VarType() (vartype.Type, error) {
	switch s.DType {
	case DTypeInt64:
		return vartype.Discrete, nil
	case DTypeFloat64:
		return vartype.Continuous, nil
	case DTypeUtf8:
		return vartype.String, nil
	case DTypeCategorical:
		return vartype.Categorical, nil
	case DTypeDate:
		return vartype.Date, nil
	case DTypeTime:
		return vartype.Time, nil
	case DTypeDatetime:
		return vartype.DateTime, nil
	}
	return vartype.Unknown, fmt.Errorf("unsupported storage type %q", s.DType)
}
