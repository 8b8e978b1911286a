// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package provider organizes distribution implementations into named,
// versioned catalogs and resolves fitting requests against an ordered list of
// them. Provider packages self-register on import; the order of registration
// is the precedence order for lookups and tie-breaks.
package provider

import (
	"fmt"
	"sync"

	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/vartype"
)

// Provider is a named, versioned bundle of distribution implementations.
type Provider struct {
	Name          string
	Version       string
	Distributions []*dist.Type
}

// Validate checks the provider identity and every catalog entry.
func (p *Provider) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("%w: provider has empty name", dist.ErrValidation)
	}
	if p.Version == "" {
		return fmt.Errorf("%w: provider %q has empty version", dist.ErrValidation, p.Name)
	}
	if len(p.Distributions) == 0 {
		return fmt.Errorf("%w: provider %q has an empty catalog", dist.ErrValidation, p.Name)
	}
	for _, t := range p.Distributions {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("provider %q: %w", p.Name, err)
		}
		if t.Provenance != p.Name {
			return fmt.Errorf("%w: distribution %q has provenance %q, expected %q",
				dist.ErrValidation, t.Implements, t.Provenance, p.Name)
		}
	}
	return nil
}

// ForVarType returns the catalog entries that can model vt, in catalog order.
func (p *Provider) ForVarType(vt vartype.Type) []*dist.Type {
	var out []*dist.Type
	for _, t := range p.Distributions {
		if t.ModelsVarType(vt) {
			out = append(out, t)
		}
	}
	return out
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]*Provider)
	// order preserves registration order, which doubles as default
	// precedence when building a list of all providers.
	order []string
)

// Register adds a provider to the process-wide registry. Identity is
// immutable after registration: re-registering a name panics, as does an
// invalid provider. It is intended to be called from init functions.
func Register(p *Provider) {
	if err := p.Validate(); err != nil {
		panic(err)
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[p.Name]; ok {
		panic(fmt.Sprintf("provider %q registered twice", p.Name))
	}
	registry[p.Name] = p
	order = append(order, p.Name)
}

// Get retrieves a registered provider by name.
func Get(name string) (*Provider, error) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	p, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: no provider named %q", dist.ErrNotFound, name)
	}
	return p, nil
}

// Available returns all registered provider names in registration order.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]string(nil), order...)
}
