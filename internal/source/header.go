package source

import (
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/columns"
)

// headerSearchRows bounds how far into a file we look for the header,
// since bank exports often open with account metadata.
const headerSearchRows = 20

// findHeader returns the index of the first row naming at least two known
// fields, or the first non-blank row when none does. -1 means all rows are blank.
func findHeader(rows [][]string) int {
	first := -1

	for i, row := range rows {
		if i >= headerSearchRows {
			break
		}

		if blank(row) {
			continue
		}

		if first < 0 {
			first = i
		}

		res := columns.DefaultVocabulary.Match(row)

		known := 0
		for _, f := range columns.Required {
			if res.Has(f) {
				known++
			}
		}

		if known >= 2 {
			return i
		}
	}

	if first < 0 {
		for i, row := range rows {
			if !blank(row) {
				return i
			}
		}
	}

	return first
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

func trimCells(row []string) []string {
	out := make([]string, len(row))
	for i, c := range row {
		out[i] = strings.TrimSpace(c)
	}

	return out
}
