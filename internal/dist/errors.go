// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package dist

import "errors"

// Error taxonomy for the fitting engine. Callers discriminate with errors.Is;
// concrete sites wrap these with context via fmt.Errorf and %w.
var (
	// ErrFitting marks a distribution that could not be fit, e.g. because the
	// data is empty or type-incompatible.
	ErrFitting = errors.New("fitting failed")

	// ErrNotFound marks a name/var-type/privacy/uniqueness combination no
	// registered distribution satisfies. It is always fatal to the operation
	// that requested it; nothing is silently substituted.
	ErrNotFound = errors.New("cannot find distribution")

	// ErrSchema marks a serialized distribution that fails its own published
	// schema, or a record missing required keys.
	ErrSchema = errors.New("schema violation")

	// ErrValidation marks malformed construction input, such as a missing
	// proportion outside [0, 1] or an unsupported storage type.
	ErrValidation = errors.New("validation failed")

	// ErrSpecType marks a distribution specification in a form that is not a
	// name, type descriptor, instance or record.
	ErrSpecType = errors.New("unrecognized distribution specification")
)
