// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package metavar

import (
	"fmt"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/provider"
	"github.com/sodascience/metasynth/internal/vartype"
)

// Record is the serialized variable form consumed by the dataset-level
// metadata format.
type Record struct {
	Name         string       `json:"name"`
	Type         string       `json:"type"`
	DType        string       `json:"dtype"`
	PropMissing  float64      `json:"prop_missing"`
	Distribution *dist.Record `json:"distribution"`
	Description  string       `json:"description,omitempty"`
}

// ToDict serializes the variable, wrapping its distribution's record.
func (v *MetaVar) ToDict() (*Record, error) {
	var distRec *dist.Record
	if v.Distribution != nil {
		var err error
		if distRec, err = dist.ToDict(v.Distribution); err != nil {
			return nil, fmt.Errorf("serializing variable %q: %w", v.Name, err)
		}
	}
	return &Record{
		Name:         v.Name,
		Type:         string(v.VarType),
		DType:        v.DType,
		PropMissing:  v.PropMissing,
		Distribution: distRec,
		Description:  v.Description,
	}, nil
}

// FromDict restores a variable from its serialized form, resolving the
// distribution through the provider list (all registered providers when nil).
func FromDict(rec *Record, providers *provider.List) (*MetaVar, error) {
	vt, err := vartype.Parse(rec.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: variable %q: %v", dist.ErrValidation, rec.Name, err)
	}
	if rec.Distribution == nil {
		return nil, fmt.Errorf("%w: variable %q has no distribution record", dist.ErrSchema, rec.Name)
	}
	if providers == nil {
		if providers, err = provider.FromNames(); err != nil {
			return nil, err
		}
	}
	d, err := providers.FromDict(rec.Distribution, vt)
	if err != nil {
		return nil, fmt.Errorf("variable %q: %w", rec.Name, err)
	}
	return New(rec.Name, vt, d, rec.DType, rec.PropMissing, rec.Description)
}
