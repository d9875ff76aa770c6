package source

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MrJamesThe3rd/tally/internal/extract"
)

// ReadWorkbook returns one table per non-empty sheet, the active sheet first.
func ReadWorkbook(r io.Reader) ([]extract.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if active := f.GetSheetName(f.GetActiveSheetIndex()); active != "" {
		ordered := []string{active}

		for _, name := range sheets {
			if name != active {
				ordered = append(ordered, name)
			}
		}

		sheets = ordered
	}

	var tables []extract.Table

	for _, sheet := range sheets {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
		}

		headerIdx := findHeader(rows)
		if headerIdx < 0 {
			continue
		}

		t := extract.Table{Header: trimCells(rows[headerIdx])}

		for _, row := range rows[headerIdx+1:] {
			if blank(row) {
				continue
			}

			t.Rows = append(t.Rows, row)
		}

		tables = append(tables, t)
	}

	return tables, nil
}
