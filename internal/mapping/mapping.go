// Package mapping loads the master tax-line mapping table that account
// descriptions are matched against.
package mapping

import (
	"fmt"
	"sort"
	"strings"

	"github.com/taxprep-dev/taxprep/internal/model"
)

// mapCols holds resolved header positions; -1 marks an absent column.
type mapCols struct {
	number  int
	name    int
	taxLine int
}

// resolveColumns finds the mapping columns by header name. The name
// column and a column containing "tax line" are required; the account
// number column is optional.
func resolveColumns(header []string) (mapCols, error) {
	cols := mapCols{number: -1, name: -1, taxLine: -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.ReplaceAll(h, "_", " ")))
		switch {
		case strings.Contains(h, "tax line"):
			if cols.taxLine == -1 {
				cols.taxLine = i
			}
		case strings.Contains(h, "number"):
			if cols.number == -1 {
				cols.number = i
			}
		case strings.Contains(h, "name") || strings.Contains(h, "description"):
			if cols.name == -1 {
				cols.name = i
			}
		}
	}
	if cols.name == -1 {
		return cols, fmt.Errorf("no account name column in header %v", header)
	}
	if cols.taxLine == -1 {
		return cols, fmt.Errorf("no tax line column in header %v", header)
	}
	return cols, nil
}

func (c mapCols) entry(row []string) model.MappingEntry {
	cell := func(idx int) string {
		if idx < 0 || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}
	return model.MappingEntry{
		Number:  cell(c.number),
		Name:    cell(c.name),
		TaxLine: cell(c.taxLine),
	}
}

// TaxLines returns the sorted, de-duplicated tax line universe of a
// mapping table, skipping the empty "unmapped" sentinel.
func TaxLines(entries []model.MappingEntry) []string {
	seen := make(map[string]bool, len(entries))
	var lines []string
	for _, e := range entries {
		if e.TaxLine == "" || seen[e.TaxLine] {
			continue
		}
		seen[e.TaxLine] = true
		lines = append(lines, e.TaxLine)
	}
	sort.Strings(lines)
	return lines
}
