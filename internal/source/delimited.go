package source

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/MrJamesThe3rd/tally/internal/encoding"
	"github.com/MrJamesThe3rd/tally/internal/extract"
)

var delimiters = []rune{';', '\t', ',', '|'}

// ReadDelimited decodes a delimited text file into a table. The charset and
// delimiter are detected; rows above the header are dropped, as are blank rows.
func ReadDelimited(r io.Reader) (extract.Table, encoding.Charset, error) {
	utf8r, cs, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return extract.Table{}, "", fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return extract.Table{}, cs, fmt.Errorf("read input: %w", err)
	}

	text := string(data)

	reader := csv.NewReader(strings.NewReader(text))
	reader.Comma = detectDelimiter(text)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return extract.Table{}, cs, fmt.Errorf("read csv: %w", err)
	}

	headerIdx := findHeader(rows)
	if headerIdx < 0 {
		return extract.Table{}, cs, ErrNoTable
	}

	t := extract.Table{Header: trimCells(rows[headerIdx])}

	for _, row := range rows[headerIdx+1:] {
		if blank(row) {
			continue
		}

		t.Rows = append(t.Rows, row)
	}

	return t, cs, nil
}

// detectDelimiter counts candidate delimiters over the leading lines and
// returns the most frequent one, defaulting to a comma.
func detectDelimiter(text string) rune {
	counts := make(map[rune]int, len(delimiters))

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for lines := 0; sc.Scan() && lines < headerSearchRows; {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		lines++

		for _, d := range delimiters {
			counts[d] += strings.Count(line, string(d))
		}
	}

	best, bestCount := ',', 0

	for _, d := range delimiters {
		if counts[d] > bestCount {
			best, bestCount = d, counts[d]
		}
	}

	return best
}
