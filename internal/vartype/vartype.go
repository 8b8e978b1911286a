// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package vartype defines the coarse semantic categories a column can have.
package vartype

import "fmt"

// Type is the semantic category of a column, independent of its storage type.
type Type string

const (
	Discrete    Type = "discrete"
	Continuous  Type = "continuous"
	Categorical Type = "categorical"
	String      Type = "string"
	Date        Type = "date"
	Time        Type = "time"
	DateTime    Type = "datetime"

	// Unknown is a sentinel used before detection; it never appears on a
	// fitted variable or distribution.
	Unknown Type = "unknown"
)

// All lists every concrete variable type, in a stable order.
var All = []Type{Discrete, Continuous, Categorical, String, Date, Time, DateTime}

// Parse converts a string to a Type, rejecting unrecognized values.
func Parse(s string) (Type, error) {
	for _, t := range All {
		if string(t) == s {
			return t, nil
		}
	}
	return Unknown, fmt.Errorf("unsupported variable type %q", s)
}

// In reports whether t is a member of types.
func In(t Type, types []Type) bool {
	for _, other := range types {
		if t == other {
			return true
		}
	}
	return false
}
