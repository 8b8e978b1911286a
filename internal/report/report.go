// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package report renders a human-readable markdown summary of a GMF
// document, so reviewers can check what will be synthesized without reading
// JSON.
package report

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/sodascience/metasynth/internal/metaframe"
	"github.com/sodascience/metasynth/internal/metavar"
)

//go:embed report.md.tmpl
var tmplFS embed.FS

var tmpl = template.Must(template.ParseFS(tmplFS, "report.md.tmpl"))

type varData struct {
	Name        string
	ClassName   string
	VarType     string
	MissingPerc string
	Parameters  []string
	Examples    string
	Disclosure  string
}

type reportData struct {
	FileName  string
	NRows     int
	NColumns  int
	Program   string
	Version   string
	Created   string
	Variables []varData
}

// Render produces the markdown report for a GMF document. Example values are
// drawn fresh from each restored variable.
func Render(fileName string, mf *metaframe.MetaFrame, doc *metaframe.Document) ([]byte, error) {
	data := reportData{
		FileName: fileName,
		NRows:    doc.NRows,
		NColumns: doc.NColumns,
		Program:  doc.Provenance.CreatedBy.Name,
		Version:  doc.Provenance.CreatedBy.Version,
		Created:  doc.Provenance.CreationTime.Format("2006-01-02 15:04:05"),
	}
	for i, v := range mf.Vars {
		rec := doc.Vars[i]
		vd := varData{
			Name:        v.Name,
			ClassName:   rec.Distribution.ClassName,
			VarType:     string(v.VarType),
			MissingPerc: fmt.Sprintf("%.2f", 100*v.PropMissing),
		}
		params, err := paramLines(rec.Distribution.Parameters)
		if err != nil {
			return nil, fmt.Errorf("variable %q: %w", v.Name, err)
		}
		vd.Parameters = params
		vd.Examples = exampleList(v)
		if rec.Distribution.Provenance == "disclosure" {
			vd.Disclosure = " using micro aggregation"
		}
		data.Variables = append(data.Variables, vd)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "report.md.tmpl", data); err != nil {
		return nil, fmt.Errorf("rendering report: %w", err)
	}
	return buf.Bytes(), nil
}

func paramLines(raw json.RawMessage) ([]string, error) {
	var params map[string]any
	if err := json.Unmarshal(raw, &params); err != nil {
		return nil, err
	}
	if len(params) == 0 {
		return []string{"(none)"}, nil
	}
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	// Deterministic output for diffs and tests.
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, params[k]))
	}
	return lines, nil
}

func exampleList(v *metavar.MetaVar) string {
	s, err := v.DrawSeries(5)
	if err != nil {
		return "(no examples available)"
	}
	parts := make([]string, 0, 5)
	for _, val := range s.Values {
		if val == nil {
			parts = append(parts, "NA")
			continue
		}
		parts = append(parts, fmt.Sprintf("%v", val))
	}
	return strings.Join(parts, ", ") + ", ..."
}
