// Package columns binds the logical transaction fields to positions in a table header,
// either from caller supplied column names or by keyword heuristics.
package columns

import (
	"errors"
	"fmt"
	"strings"
)

type Field string

const (
	Date        Field = "date"
	Description Field = "description"
	Amount      Field = "amount"
	Category    Field = "category"
)

// Required are the fields every importable row must carry.
var Required = []Field{Date, Description, Amount}

var fieldOrder = []Field{Date, Description, Amount, Category}

var ErrUnresolved = errors.New("column resolution failed")

// ResolutionError names the field that could not be bound to a header column.
type ResolutionError struct {
	Field  Field
	Column string
}

func (e *ResolutionError) Error() string {
	if e.Column == "" {
		return fmt.Sprintf("no column found for %s", e.Field)
	}

	return fmt.Sprintf("column %q for %s not found in header", e.Column, e.Field)
}

func (e *ResolutionError) Unwrap() error {
	return ErrUnresolved
}

// Mapping holds caller supplied header names. Category is optional.
type Mapping struct {
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Category    string `json:"category,omitempty"`
}

func (m Mapping) Column(f Field) string {
	switch f {
	case Date:
		return m.Date
	case Description:
		return m.Description
	case Amount:
		return m.Amount
	case Category:
		return m.Category
	}

	return ""
}

func (m *Mapping) set(f Field, name string) {
	switch f {
	case Date:
		m.Date = name
	case Description:
		m.Description = name
	case Amount:
		m.Amount = name
	case Category:
		m.Category = name
	}
}

// Resolution is a Mapping bound to the column positions of one header.
type Resolution struct {
	Mapping Mapping

	// Positional lists fields bound by position rather than by name. Such bindings are guesses.
	Positional []Field

	indexes map[Field]int
}

// Index returns the column position for f, or -1 when f is unbound.
func (r Resolution) Index(f Field) int {
	i, ok := r.indexes[f]
	if !ok {
		return -1
	}

	return i
}

func (r Resolution) Has(f Field) bool {
	_, ok := r.indexes[f]
	return ok
}

// Value returns the trimmed cell for f, or "" when f is unbound or the row is short.
func (r Resolution) Value(row []string, f Field) string {
	i := r.Index(f)
	if i < 0 || i >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[i])
}

// Complete reports the first required field left unbound.
func (r Resolution) Complete() error {
	for _, f := range Required {
		if !r.Has(f) {
			return &ResolutionError{Field: f}
		}
	}

	return nil
}

func (r *Resolution) bind(f Field, index int, name string) {
	if r.indexes == nil {
		r.indexes = make(map[Field]int, len(fieldOrder))
	}

	r.indexes[f] = index
	r.Mapping.set(f, name)
}

// ResolveExplicit requires the date, description and amount columns named in m to be present.
// A category column that is missing from the header is dropped and rows get auto-categorized.
func ResolveExplicit(m Mapping, header []string) (Resolution, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, seen := positions[name]; !seen {
			positions[name] = i
		}
	}

	var res Resolution

	for _, f := range fieldOrder {
		name := strings.TrimSpace(m.Column(f))

		i, ok := positions[name]
		if name == "" || !ok {
			if f == Category {
				continue
			}

			return Resolution{}, &ResolutionError{Field: f, Column: name}
		}

		res.bind(f, i, header[i])
	}

	return res, nil
}

// ResolveByKeyword matches header cells against DefaultVocabulary and falls back to positions.
func ResolveByKeyword(header []string) Resolution {
	return DefaultVocabulary.Resolve(header)
}
