// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 SoDa Science Team

package builtin

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/sodascience/metasynth/internal/dist"
	"github.com/sodascience/metasynth/internal/vartype"
)

// segment is one character-class run of an inferred string pattern.
type segment struct {
	alphabet string
	minLen   int
	maxLen   int
}

const (
	digits  = "0123456789"
	lowers  = "abcdefghijklmnopqrstuvwxyz"
	uppers  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	maxDraw = 1000
)

func classOf(r rune) string {
	switch {
	case r >= '0' && r <= '9':
		return digits
	case r >= 'a' && r <= 'z':
		return lowers
	case r >= 'A' && r <= 'Z':
		return uppers
	}
	return string(r)
}

// segmentString splits s into runs of equal character class; runs of
// out-of-class characters collect the exact characters seen.
func segmentString(s string) []segment {
	var segs []segment
	for _, r := range s {
		class := classOf(r)
		n := len(segs)
		if n > 0 && segs[n-1].alphabet == class {
			segs[n-1].minLen++
			segs[n-1].maxLen++
			continue
		}
		segs = append(segs, segment{alphabet: class, minLen: 1, maxLen: 1})
	}
	return segs
}

// inferPattern derives a shared segment sequence. When all strings agree on
// the class sequence the lengths are merged per segment; otherwise the
// pattern collapses to a single segment over the union alphabet.
func inferPattern(values []string) []segment {
	base := segmentString(values[0])
	aligned := true
	for _, v := range values[1:] {
		segs := segmentString(v)
		if len(segs) != len(base) {
			aligned = false
			break
		}
		for i, s := range segs {
			if s.alphabet != base[i].alphabet {
				aligned = false
				break
			}
			if s.minLen < base[i].minLen {
				base[i].minLen = s.minLen
			}
			if s.maxLen > base[i].maxLen {
				base[i].maxLen = s.maxLen
			}
		}
		if !aligned {
			break
		}
	}
	if aligned {
		return base
	}

	chars := make(map[rune]struct{})
	minLen, maxLen := math.MaxInt, 0
	for _, v := range values {
		n := 0
		for _, r := range v {
			chars[r] = struct{}{}
			n++
		}
		if n < minLen {
			minLen = n
		}
		if n > maxLen {
			maxLen = n
		}
	}
	union := make([]rune, 0, len(chars))
	for r := range chars {
		union = append(union, r)
	}
	sort.Slice(union, func(i, j int) bool { return union[i] < union[j] })
	if minLen == 0 {
		minLen = 1
	}
	return []segment{{alphabet: string(union), minLen: minLen, maxLen: maxLen}}
}

func classText(alphabet string) string {
	switch alphabet {
	case digits:
		return "0-9"
	case lowers:
		return "a-z"
	case uppers:
		return "A-Z"
	}
	var sb strings.Builder
	for _, r := range alphabet {
		if r == ']' || r == '\\' || r == '^' || r == '-' {
			sb.WriteByte('\\')
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

func patternString(segs []segment) string {
	var sb strings.Builder
	for _, s := range segs {
		fmt.Fprintf(&sb, "[%s]{%d,%d}", classText(s.alphabet), s.minLen, s.maxLen)
	}
	return sb.String()
}

var segmentRe = regexp.MustCompile(`\[((?:\\.|[^\]\\])+)\]\{(\d+),(\d+)\}`)

func parsePattern(pattern string) ([]segment, error) {
	matches := segmentRe.FindAllStringSubmatchIndex(pattern, -1)
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: unparseable regex %q", dist.ErrSchema, pattern)
	}
	end := 0
	var segs []segment
	for _, m := range matches {
		if m[0] != end {
			return nil, fmt.Errorf("%w: unparseable regex %q", dist.ErrSchema, pattern)
		}
		end = m[1]
		class := pattern[m[2]:m[3]]
		minLen, _ := strconv.Atoi(pattern[m[4]:m[5]])
		maxLen, _ := strconv.Atoi(pattern[m[6]:m[7]])
		if minLen < 1 || maxLen < minLen {
			return nil, fmt.Errorf("%w: invalid lengths in regex %q", dist.ErrSchema, pattern)
		}
		alphabet, err := expandClass(class)
		if err != nil {
			return nil, err
		}
		segs = append(segs, segment{alphabet: alphabet, minLen: minLen, maxLen: maxLen})
	}
	if end != len(pattern) {
		return nil, fmt.Errorf("%w: unparseable regex %q", dist.ErrSchema, pattern)
	}
	return segs, nil
}

func expandClass(class string) (string, error) {
	var sb strings.Builder
	runes := []rune(class)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			sb.WriteRune(runes[i])
		case i+2 < len(runes) && runes[i+1] == '-':
			lo, hi := r, runes[i+2]
			if hi < lo {
				return "", fmt.Errorf("%w: invalid range %c-%c", dist.ErrSchema, lo, hi)
			}
			for c := lo; c <= hi; c++ {
				sb.WriteRune(c)
			}
			i += 2
		default:
			sb.WriteRune(r)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("%w: empty character class", dist.ErrSchema)
	}
	return sb.String(), nil
}

type regexParams struct {
	Regex string `json:"regex"`
}

type regexDist struct {
	typ  *dist.Type
	p    regexParams
	segs []segment
	seen map[string]struct{}
}

func regexSchema() *jsonschema.Schema {
	return dist.RecordSchema(&jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"regex": {Type: "string"},
		},
		Required: []string{"regex"},
	})
}

func fitRegex(typ *dist.Type, values []any) (dist.Distribution, error) {
	if err := requireValues(values); err != nil {
		return nil, err
	}
	strs, err := asStrings(values)
	if err != nil {
		return nil, err
	}
	nonEmpty := make([]string, 0, len(strs))
	for _, s := range strs {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	if len(nonEmpty) == 0 {
		return nil, fmt.Errorf("%w: only empty strings to infer a pattern from", dist.ErrFitting)
	}
	segs := inferPattern(nonEmpty)
	return &regexDist{
		typ:  typ,
		p:    regexParams{Regex: patternString(segs)},
		segs: segs,
		seen: make(map[string]struct{}),
	}, nil
}

func regexFromParams(typ *dist.Type, raw json.RawMessage) (dist.Distribution, error) {
	var p regexParams
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", dist.ErrSchema, err)
	}
	segs, err := parsePattern(p.Regex)
	if err != nil {
		return nil, err
	}
	return &regexDist{typ: typ, p: p, segs: segs, seen: make(map[string]struct{})}, nil
}

func defaultRegex(typ *dist.Type) dist.Distribution {
	d, err := regexFromParams(typ, json.RawMessage(`{"regex": "[A-Z]{1,2}[0-9]{3,4}"}`))
	if err != nil {
		panic(err)
	}
	return d
}

func newRegexType(implements, className string, unique bool) *dist.Type {
	t := &dist.Type{
		Implements: implements,
		ClassName:  className,
		Provenance: "builtin",
		Version:    Version,
		VarTypes:   []vartype.Type{vartype.String},
		Unique:     unique,
		Privacy:    "none",
		Schema:     regexSchema,
	}
	t.Fit = func(values []any, _ dist.FitOptions) (dist.Distribution, error) {
		if unique {
			if err := requireDistinctStrings(values); err != nil {
				return nil, err
			}
		}
		return fitRegex(t, values)
	}
	t.FromParams = func(raw json.RawMessage) (dist.Distribution, error) {
		return regexFromParams(t, raw)
	}
	t.Default = func() dist.Distribution { return defaultRegex(t) }
	return t
}

func requireDistinctStrings(values []any) error {
	strs, err := asStrings(values)
	if err != nil {
		return nil
	}
	seen := make(map[string]struct{}, len(strs))
	for _, s := range strs {
		if _, ok := seen[s]; ok {
			return fmt.Errorf("%w: unique regex fit on data with duplicates", dist.ErrFitting)
		}
		seen[s] = struct{}{}
	}
	return nil
}

// RegexType infers a character-class pattern from observed strings and draws
// fresh strings matching it.
var RegexType = newRegexType("builtin.regex", "RegexDistribution", false)

// UniqueRegexType is the without-replacement variant for identifier-like
// string columns.
var UniqueRegexType = newRegexType("builtin.unique_regex", "UniqueRegexDistribution", true)

func (d *regexDist) Type() *dist.Type { return d.typ }
func (d *regexDist) Params() any      { return d.p }

func (d *regexDist) DrawReset() {
	d.seen = make(map[string]struct{})
}

func (d *regexDist) drawOne() string {
	var sb strings.Builder
	for _, s := range d.segs {
		n := s.minLen + rand.IntN(s.maxLen-s.minLen+1)
		alphabet := []rune(s.alphabet)
		for i := 0; i < n; i++ {
			sb.WriteRune(alphabet[rand.IntN(len(alphabet))])
		}
	}
	return sb.String()
}

func (d *regexDist) Draw() any {
	if !d.typ.Unique {
		return d.drawOne()
	}
	for i := 0; i < maxDraw; i++ {
		s := d.drawOne()
		if _, ok := d.seen[s]; !ok {
			d.seen[s] = struct{}{}
			return s
		}
	}
	// Pattern space exhausted; extend with a serial suffix to keep the
	// uniqueness guarantee.
	s := d.drawOne() + strconv.Itoa(len(d.seen))
	d.seen[s] = struct{}{}
	return s
}

func (d *regexDist) InformationCriterion(values []any) float64 {
	strs, err := asStrings(values)
	if err != nil {
		return math.Inf(1)
	}
	// Description cost per drawn string: choosing a length and the characters
	// of each segment.
	cost := 0.0
	for _, s := range d.segs {
		avgLen := float64(s.minLen+s.maxLen) / 2
		cost += math.Log(float64(s.maxLen-s.minLen+1)) + avgLen*math.Log(float64(len([]rune(s.alphabet))))
	}
	return aic(2*len(d.segs), -float64(len(strs))*cost)
}
