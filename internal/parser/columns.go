package parser

import (
	"fmt"
	"regexp"
	"strings"
)

// Column resolution. Each distributor's layout is declared as data: an
// ordered list of ColumnSpec entries, resolved once per file. A column
// found by name is trusted over its assumed position, because export
// layouts drift between files; the positional fallback only fills in
// when no candidate name matches.

// ColumnSpec declares where one logical field lives in a source layout.
type ColumnSpec struct {
	Field    string   // logical field name, e.g. "customer"
	Names    []string // candidate header substrings, case-insensitive, tried in order
	Fallback int      // positional fallback index; -1 means name-only
	Required bool
}

// ColumnIndex maps logical field names to resolved column positions.
// Missing optional fields resolve to -1.
type ColumnIndex map[string]int

// Get returns the resolved position for a field, -1 if unresolved.
func (ci ColumnIndex) Get(field string) int {
	if idx, ok := ci[field]; ok {
		return idx
	}
	return -1
}

// Cell returns the trimmed cell for a field from a row, "" if the field
// is unresolved or the row is short.
func (ci ColumnIndex) Cell(row []string, field string) string {
	idx := ci.Get(field)
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// ResolveColumns resolves every spec against a header row. Specs whose
// Required flag is set and which resolve to no column produce an error
// naming all the missing columns at once.
func ResolveColumns(header []string, specs []ColumnSpec) (ColumnIndex, error) {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = NormalizeColumnName(h)
	}

	index := make(ColumnIndex, len(specs))
	var missing []string

	for _, spec := range specs {
		idx := findByName(normalized, spec.Names)
		if idx < 0 && spec.Fallback >= 0 && spec.Fallback < len(header) {
			idx = spec.Fallback
		}
		if idx < 0 && spec.Required {
			missing = append(missing, spec.Names[0])
			continue
		}
		index[spec.Field] = idx
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return index, nil
}

func findByName(normalized []string, candidates []string) int {
	for _, cand := range candidates {
		want := NormalizeColumnName(cand)
		for i, col := range normalized {
			if col != "" && strings.Contains(col, want) {
				return i
			}
		}
	}
	return -1
}

// FindHeaderRow scans the first maxScan rows for one containing every
// signature substring (case-insensitive). Returns -1 when no row matches;
// callers then fall back to positional layout or an empty result.
func FindHeaderRow(rows [][]string, signature []string, maxScan int) int {
	if maxScan > len(rows) {
		maxScan = len(rows)
	}
	for i := 0; i < maxScan; i++ {
		joined := NormalizeColumnName(strings.Join(rows[i], " "))
		matched := true
		for _, sig := range signature {
			if !strings.Contains(joined, NormalizeColumnName(sig)) {
				matched = false
				break
			}
		}
		if matched {
			return i
		}
	}
	return -1
}

var spaceRun = regexp.MustCompile(`\s+`)

// NormalizeColumnName lowercases and collapses whitespace so header
// matching tolerates line breaks and double spaces inside header cells.
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	return spaceRun.ReplaceAllString(name, " ")
}

// nonDataMarkers flags subtotal, legend, and footer rows that look like
// data but are not.
var nonDataMarkers = []string{
	"grand total", "customer total", "account total", "report total",
	"subtotal", "sub-total", "page ", "legend", "continued",
	"*** ", "---",
}

// IsNonDataRow reports whether a row is a recognizable subtotal, legend,
// or footer line rather than a line item.
func IsNonDataRow(row []string) bool {
	joined := strings.ToLower(strings.TrimSpace(strings.Join(row, " ")))
	if joined == "" {
		return true
	}
	for _, marker := range nonDataMarkers {
		if strings.Contains(joined, marker) {
			return true
		}
	}
	return false
}
