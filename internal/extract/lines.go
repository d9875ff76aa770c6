package extract

import (
	"regexp"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/normalize"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

// Date families in priority order: ISO, US slash, abbreviated month.
var lineDatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\d{4}-\d{2}-\d{2}`),
	regexp.MustCompile(`\d{2}/\d{2}/\d{4}`),
	regexp.MustCompile(`\d{1,2}-[A-Za-z]{3}-\d{4}`),
}

// Amount families in priority order. Group 1 is the token that gets removed.
// Currency-prefixed amounts come first, then bare decimals with an optional
// trailing marker; whole numbers are tried last.
var lineAmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(-?\$\s*-?\d[\d,]*(?:\.\d+)?)`),
	regexp.MustCompile(`(?:^|\s)(-?\d[\d,]*\.\d{1,2}\s*\$?)(?:\s|$)`),
	regexp.MustCompile(`(?:^|\s)(-?\d[\d,]*\s*\$?)(?:\s|$)`),
}

// LineExtractor reads one transaction per free-text line.
type LineExtractor struct {
	Dates normalize.DateChain
}

func NewLineExtractor() *LineExtractor {
	return &LineExtractor{Dates: normalize.DefaultChain}
}

// ExtractPages walks pages in order, then lines in order.
func (x *LineExtractor) ExtractPages(pages [][]string) []transaction.Candidate {
	var out []transaction.Candidate
	for _, page := range pages {
		out = append(out, x.Extract(page)...)
	}

	return out
}

func (x *LineExtractor) Extract(lines []string) []transaction.Candidate {
	var out []transaction.Candidate

	for _, line := range lines {
		if c, ok := x.extractLine(line); ok {
			out = append(out, c)
		}
	}

	return out
}

func (x *LineExtractor) extractLine(line string) (transaction.Candidate, bool) {
	for _, pattern := range lineDatePatterns {
		loc := pattern.FindStringIndex(line)
		if loc == nil {
			continue
		}

		date, err := x.Dates.Parse(line[loc[0]:loc[1]])
		if err != nil {
			continue
		}

		rest := line[:loc[0]] + " " + line[loc[1]:]

		amount, rest, ok := findAmount(rest)
		if !ok {
			return transaction.Candidate{}, false
		}

		description := collapse(rest)
		if description == "" {
			return transaction.Candidate{}, false
		}

		return transaction.Candidate{
			Date:        date,
			Description: description,
			Amount:      amount,
		}, true
	}

	return transaction.Candidate{}, false
}

// findAmount returns the first parsable amount and s with that token cut out.
func findAmount(s string) (decimal.Decimal, string, bool) {
	for _, pattern := range lineAmountPatterns {
		m := pattern.FindStringSubmatchIndex(s)
		if m == nil {
			continue
		}

		start, end := m[2], m[3]

		amount, err := normalize.ParseAmount(s[start:end])
		if err != nil {
			continue
		}

		return amount, s[:start] + " " + s[end:], true
	}

	return decimal.Zero, s, false
}
