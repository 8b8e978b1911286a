// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

// Package csvio reads tabular CSV files into typed series and writes
// synthesized series back out. Storage types are inferred per column; empty
// cells are missing values.
package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/sodascience/metasynth/internal/series"
)

// Inference layouts for temporal columns, tried in order.
var (
	dateLayout     = "2006-01-02"
	timeLayout     = "15:04:05"
	datetimeLayout = "2006-01-02T15:04:05"
)

// Read parses a CSV file with a header row into one series per column.
// Columns named in categorical get the Categorical storage type instead of
// plain strings.
func Read(path string, categorical map[string]bool) ([]*series.Series, error) {
	f, err := os.Open(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck
	return readFrom(f, categorical)
}

func readFrom(r io.Reader, categorical map[string]bool) ([]*series.Series, error) {
	reader := csv.NewReader(r)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading CSV: %w", err)
	}
	if len(rows) < 1 {
		return nil, fmt.Errorf("CSV has no header row")
	}
	header := rows[0]
	cells := make([][]string, len(header))
	for c := range header {
		col := make([]string, 0, len(rows)-1)
		for _, row := range rows[1:] {
			if c >= len(row) {
				col = append(col, "")
				continue
			}
			col = append(col, row[c])
		}
		cells[c] = col
	}

	out := make([]*series.Series, 0, len(header))
	for c, name := range header {
		dtype := inferDType(cells[c])
		if dtype == series.DTypeUtf8 && categorical[name] {
			dtype = series.DTypeCategorical
		}
		values, err := parseColumn(cells[c], dtype)
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", name, err)
		}
		s, err := series.New(name, dtype, values)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// inferDType picks the narrowest storage type that parses every non-empty
// cell, in the order int, float, date, time, datetime, string.
func inferDType(cells []string) string {
	nonEmpty := 0
	isInt, isFloat, isDate, isTime, isDatetime := true, true, true, true, true
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		nonEmpty++
		if _, err := strconv.ParseInt(cell, 10, 64); err != nil {
			isInt = false
		}
		if _, err := strconv.ParseFloat(cell, 64); err != nil {
			isFloat = false
		}
		if _, err := time.Parse(dateLayout, cell); err != nil {
			isDate = false
		}
		if _, err := time.Parse(timeLayout, cell); err != nil {
			isTime = false
		}
		if _, err := time.Parse(datetimeLayout, cell); err != nil {
			isDatetime = false
		}
	}
	if nonEmpty == 0 {
		return series.DTypeUtf8
	}
	switch {
	case isInt:
		return series.DTypeInt64
	case isFloat:
		return series.DTypeFloat64
	case isDate:
		return series.DTypeDate
	case isTime:
		return series.DTypeTime
	case isDatetime:
		return series.DTypeDatetime
	}
	return series.DTypeUtf8
}

func parseColumn(cells []string, dtype string) ([]any, error) {
	values := make([]any, len(cells))
	for i, cell := range cells {
		if cell == "" {
			continue
		}
		switch dtype {
		case series.DTypeInt64:
			v, err := strconv.ParseInt(cell, 10, 64)
			if err != nil {
				return nil, err
			}
			values[i] = v
		case series.DTypeFloat64:
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, err
			}
			values[i] = v
		case series.DTypeDate:
			v, err := time.Parse(dateLayout, cell)
			if err != nil {
				return nil, err
			}
			values[i] = v
		case series.DTypeTime:
			v, err := time.Parse(timeLayout, cell)
			if err != nil {
				return nil, err
			}
			values[i] = v
		case series.DTypeDatetime:
			v, err := time.Parse(datetimeLayout, cell)
			if err != nil {
				return nil, err
			}
			values[i] = v
		default:
			values[i] = cell
		}
	}
	return values, nil
}

// Write writes the series as a CSV file with a header row; missing values
// become empty cells.
func Write(path string, columns []*series.Series) error {
	f, err := os.Create(path) //nolint:gosec // path is provided by caller
	if err != nil {
		return err
	}
	defer f.Close() //nolint:errcheck
	return writeTo(f, columns)
}

func writeTo(w io.Writer, columns []*series.Series) error {
	if len(columns) == 0 {
		return fmt.Errorf("no columns to write")
	}
	writer := csv.NewWriter(w)
	header := make([]string, len(columns))
	nRows := 0
	for i, col := range columns {
		header[i] = col.Name
		if col.Len() > nRows {
			nRows = col.Len()
		}
	}
	if err := writer.Write(header); err != nil {
		return err
	}
	row := make([]string, len(columns))
	for r := 0; r < nRows; r++ {
		for c, col := range columns {
			row[c] = ""
			if r >= col.Len() || col.Values[r] == nil {
				continue
			}
			row[c] = formatCell(col.Values[r], col.DType)
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatCell(v any, dtype string) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		switch dtype {
		case series.DTypeDate:
			return x.Format(dateLayout)
		case series.DTypeTime:
			return x.Format(timeLayout)
		}
		return x.Format(datetimeLayout)
	case string:
		return x
	}
	return fmt.Sprintf("%v", v)
}
