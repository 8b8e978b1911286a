// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package dist

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// RecordSchema builds the schema for the serialized form of a distribution
// type, with the given schema describing the "parameters" object.
// Implementations pass their parameter schema here so all records share the
// same envelope.
func RecordSchema(params *jsonschema.Schema) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"implements": {Type: "string"},
			"version":    {Type: "string"},
			"provenance": {Type: "string"},
			"class_name": {Type: "string"},
			"unique":     {Type: "boolean"},
			"parameters": params,
		},
		Required: []string{"implements", "provenance", "class_name", "parameters"},
	}
}

// ValidateSchema checks that a serialized record conforms to the schema its
// own type publishes. This is the conformance gate run for every registered
// distribution; a failure here means the implementation's serialization and
// schema disagree.
func ValidateSchema(t *Type, rec *Record) error {
	resolved, err := t.Schema().Resolve(nil)
	if err != nil {
		return fmt.Errorf("%w: resolving schema of %s: %v", ErrSchema, t.Implements, err)
	}
	m, err := rec.AsMap()
	if err != nil {
		return fmt.Errorf("%w: serializing record of %s: %v", ErrSchema, t.Implements, err)
	}
	if err := resolved.Validate(m); err != nil {
		return fmt.Errorf("%w: record of %s: %v", ErrSchema, t.Implements, err)
	}
	return nil
}
