package source

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadPages splits plain text into pages on form feeds, then into lines.
// Empty lines are dropped; a page with no lines left is dropped too.
func ReadPages(r io.Reader) ([][]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var (
		pages [][]string
		page  []string
	)

	flush := func() {
		if len(page) > 0 {
			pages = append(pages, page)
		}

		page = nil
	}

	for sc.Scan() {
		parts := strings.Split(sc.Text(), "\f")

		for i, part := range parts {
			if i > 0 {
				flush()
			}

			if line := strings.TrimRight(part, " \t\r"); strings.TrimSpace(line) != "" {
				page = append(page, line)
			}
		}
	}

	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read text: %w", err)
	}

	flush()

	return pages, nil
}
