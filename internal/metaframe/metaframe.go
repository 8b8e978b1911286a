// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package metaframe is the thin dataset-level container over fitted
// variables: it maps a tabular schema to a set of MetaVars and persists them
// in the generative metadata format (GMF), a JSON document that holds
// everything needed to synthesize data without the original.
package metaframe

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sodascience/metasynth/internal/metavar"
	"github.com/sodascience/metasynth/internal/provider"
	"github.com/sodascience/metasynth/internal/series"
	"github.com/sodascience/metasynth/internal/version"
)

// MetaFrame owns one fitted MetaVar per column.
type MetaFrame struct {
	NRows int
	Vars  []*metavar.MetaVar
}

// Provenance records which program wrote a GMF file and when.
type Provenance struct {
	CreatedBy    CreatedBy `json:"created_by"`
	CreationTime time.Time `json:"creation_time"`
}

// CreatedBy identifies the generating program.
type CreatedBy struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// Document is the GMF file layout.
type Document struct {
	NRows      int               `json:"n_rows"`
	NColumns   int               `json:"n_columns"`
	Provenance Provenance        `json:"provenance"`
	Vars       []*metavar.Record `json:"vars"`
}

// Fit fits every column independently under one shared configuration.
func Fit(columns []*series.Series, cfg metavar.FitConfig) (*MetaFrame, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("no columns to fit")
	}
	mf := &MetaFrame{NRows: columns[0].Len()}
	for _, col := range columns {
		v, err := metavar.Fit(col, cfg)
		if err != nil {
			return nil, err
		}
		mf.Vars = append(mf.Vars, v)
	}
	return mf, nil
}

// Synthesize draws n rows for every variable.
func (mf *MetaFrame) Synthesize(n int) ([]*series.Series, error) {
	out := make([]*series.Series, 0, len(mf.Vars))
	for _, v := range mf.Vars {
		s, err := v.DrawSeries(n)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// ToDocument serializes the frame with fresh provenance.
func (mf *MetaFrame) ToDocument() (*Document, error) {
	doc := &Document{
		NRows:    mf.NRows,
		NColumns: len(mf.Vars),
		Provenance: Provenance{
			CreatedBy:    CreatedBy{Name: "metasynth", Version: version.Version},
			CreationTime: time.Now().UTC().Truncate(time.Second),
		},
	}
	for _, v := range mf.Vars {
		rec, err := v.ToDict()
		if err != nil {
			return nil, err
		}
		doc.Vars = append(doc.Vars, rec)
	}
	return doc, nil
}

// FromDocument restores a frame, resolving distributions through the
// provider list (all registered providers when nil).
func FromDocument(doc *Document, providers *provider.List) (*MetaFrame, error) {
	mf := &MetaFrame{NRows: doc.NRows}
	for _, rec := range doc.Vars {
		v, err := metavar.FromDict(rec, providers)
		if err != nil {
			return nil, err
		}
		mf.Vars = append(mf.Vars, v)
	}
	return mf, nil
}

// Save writes the frame as a GMF JSON file.
func (mf *MetaFrame) Save(path string) error {
	doc, err := mf.ToDocument()
	if err != nil {
		return err
	}
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Load reads a GMF JSON file and restores the frame.
func Load(path string, providers *provider.List) (*MetaFrame, *Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, nil, err
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("parsing GMF file %s: %w", path, err)
	}
	mf, err := FromDocument(&doc, providers)
	if err != nil {
		return nil, nil, err
	}
	return mf, &doc, nil
}
