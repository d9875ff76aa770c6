// Package extract turns noisy document content into transaction candidates.
//
// Nothing here returns an error for bad input: a line or row that cannot be
// read is skipped and extraction carries on.
package extract

import (
	"regexp"
	"strings"
)

// Table is a header row plus data rows, as handed over by a table source.
type Table struct {
	Header []string
	Rows   [][]string
}

// Empty reports whether the table carries no header and no rows.
func (t Table) Empty() bool {
	return len(t.Header) == 0 && len(t.Rows) == 0
}

var spaces = regexp.MustCompile(`\s+`)

func collapse(s string) string {
	return strings.TrimSpace(spaces.ReplaceAllString(s, " "))
}

func blankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
