// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package dist

import (
	"encoding/json"
	"fmt"
)

// Record is the serialized form of a fitted distribution. It is the boundary
// contract consumed by the dataset-level metadata format: implements,
// provenance, class_name and parameters are always present.
type Record struct {
	Implements string          `json:"implements"`
	Version    string          `json:"version,omitempty"`
	Provenance string          `json:"provenance"`
	ClassName  string          `json:"class_name"`
	Unique     bool            `json:"unique"`
	Parameters json.RawMessage `json:"parameters"`
}

// ToDict serializes a distribution instance to its record form.
func ToDict(d Distribution) (*Record, error) {
	t := d.Type()
	params, err := json.Marshal(d.Params())
	if err != nil {
		return nil, fmt.Errorf("serializing parameters of %s: %w", t.Implements, err)
	}
	return &Record{
		Implements: t.Implements,
		Version:    t.Version,
		Provenance: t.Provenance,
		ClassName:  t.ClassName,
		Unique:     t.Unique,
		Parameters: params,
	}, nil
}

// RecordFromMap converts a decoded JSON object into a Record, checking the
// required keys are present.
func RecordFromMap(m map[string]any) (*Record, error) {
	for _, key := range []string{"implements", "provenance", "class_name", "parameters"} {
		if _, ok := m[key]; !ok {
			return nil, fmt.Errorf("%w: distribution record missing key %q", ErrSchema, key)
		}
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSchema, err)
	}
	return &rec, nil
}

// AsMap converts the record to a generic JSON object, the form schema
// validation operates on.
func (r *Record) AsMap() (map[string]any, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
