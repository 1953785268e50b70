// Package fetcher reads header-keyed tables from XLSX workbooks and CSV streams.
package fetcher

import (
	"strings"
)

// Table is a header row plus the data rows beneath it. Cell values are raw
// strings; callers decide how to parse them.
type Table struct {
	Header []string
	Rows   [][]string
}

// NewTable splits raw rows into a trimmed header and the non-blank data rows.
func NewTable(raw [][]string) *Table {
	t := &Table{}
	if len(raw) == 0 {
		return t
	}

	t.Header = make([]string, len(raw[0]))
	for i, h := range raw[0] {
		t.Header[i] = strings.TrimSpace(h)
	}

	for _, row := range raw[1:] {
		if isBlank(row) {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// Index returns the position of the named column, or -1 if the header does not
// contain it. Matching ignores surrounding whitespace and case.
func (t *Table) Index(name string) int {
	name = strings.TrimSpace(name)
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

// Value returns the trimmed cell at column idx, or "" when the row is short or
// idx is negative.
func (t *Table) Value(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
