// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package dist

import "fmt"

// Spec is the normalized form of an explicit distribution request. Implements
// selects an implementation by identifier or alias; Unique, when non-nil,
// constrains the uniqueness flag of the match. The zero value matches
// anything, which means automatic selection.
type Spec struct {
	Implements string
	Unique     *bool
}

// IsEmpty reports whether the spec places no constraint at all.
func (s Spec) IsEmpty() bool {
	return s.Implements == "" && s.Unique == nil
}

// NormalizeSpec converts the accepted request forms into a Spec:
//
//   - nil: no constraint
//   - string: name or alias, e.g. "normal" or "builtin.normal"
//   - *Type: a descriptor reference
//   - Distribution: an already-fitted instance
//   - *Record or map[string]any: a (partial) serialized record
//
// Any other form fails with ErrSpecType.
func NormalizeSpec(raw any) (Spec, error) {
	switch v := raw.(type) {
	case nil:
		return Spec{}, nil
	case Spec:
		return v, nil
	case string:
		return Spec{Implements: v}, nil
	case *Type:
		unique := v.Unique
		return Spec{Implements: v.Implements, Unique: &unique}, nil
	case Distribution:
		t := v.Type()
		unique := t.Unique
		return Spec{Implements: t.Implements, Unique: &unique}, nil
	case *Record:
		return Spec{Implements: v.Implements}, nil
	case map[string]any:
		spec := Spec{}
		if impl, ok := v["implements"]; ok {
			s, ok := impl.(string)
			if !ok {
				return Spec{}, fmt.Errorf("%w: implements must be a string, got %T", ErrSpecType, impl)
			}
			spec.Implements = s
		}
		if u, ok := v["unique"]; ok {
			b, ok := u.(bool)
			if !ok {
				return Spec{}, fmt.Errorf("%w: unique must be a bool, got %T", ErrSpecType, u)
			}
			spec.Unique = &b
		}
		return spec, nil
	}
	return Spec{}, fmt.Errorf("%w: %T", ErrSpecType, raw)
}
