package importer

import (
	"errors"
	"fmt"

	"github.com/MrJamesThe3rd/tally/internal/category"
	"github.com/MrJamesThe3rd/tally/internal/extract"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Document is what a document source could make of a file: tables when it
// found any, otherwise text lines grouped by page.
type Document struct {
	Pages  [][]string
	Tables []extract.Table
}

type BatchResult struct {
	Imported          int                        `json:"imported"`
	SkippedDuplicates int                        `json:"skipped_duplicates"`
	SkippedInvalid    int                        `json:"skipped_invalid"`
	Transactions      []*transaction.Transaction `json:"-"`
	Categories        []*category.Category       `json:"-"`
}

var ErrPersistence = errors.New("persisting batch")

// PersistenceError wraps a storage failure. Nothing from the batch was stored.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%v: %v", ErrPersistence, e.Err)
}

func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
