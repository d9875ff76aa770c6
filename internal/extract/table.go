package extract

import (
	"regexp"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/columns"
	"github.com/MrJamesThe3rd/tally/internal/normalize"
	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const (
	maxAmountCellLen  = 20
	minDescriptionLen = 3
)

var (
	strictDashDate = regexp.MustCompile(`^\d{2}-\d{2}-\d{4}$`)
	numericCell    = regexp.MustCompile(`^[+-]?\d[\d,]*(?:\.\d+)?$`)
	twoDecimals    = regexp.MustCompile(`-?\d[\d,]*\.\d{2}`)
)

// SignPolicy decides which positional rows are credits. Statements laid out
// without headers usually print every amount unsigned.
type SignPolicy struct {
	CreditKeywords []string
}

var DefaultCreditKeywords = []string{"abono", "deposito", "depósito", "transferencia recibida", "intereses"}

func DefaultSignPolicy() SignPolicy {
	return SignPolicy{CreditKeywords: DefaultCreditKeywords}
}

func (p SignPolicy) IsCredit(description string) bool {
	d := strings.ToLower(description)
	for _, kw := range p.CreditKeywords {
		if kw = strings.ToLower(strings.TrimSpace(kw)); kw != "" && strings.Contains(d, kw) {
			return true
		}
	}

	return false
}

// Apply makes credits negative and leaves debits as extracted.
func (p SignPolicy) Apply(description string, amount decimal.Decimal) decimal.Decimal {
	if p.IsCredit(description) {
		return amount.Abs().Neg()
	}

	return amount
}

type TableResult struct {
	Candidates []transaction.Candidate
	// Failed counts rows that looked like transactions but could not be read.
	Failed int
	// Positional is set when the header was not recognised.
	Positional bool
}

// TableExtractor reads candidates from tables pulled out of documents.
type TableExtractor struct {
	Vocabulary columns.Vocabulary
	Dates      normalize.DateChain
	Sign       SignPolicy
}

func NewTableExtractor(sign SignPolicy) *TableExtractor {
	return &TableExtractor{
		Vocabulary: columns.DefaultVocabulary,
		Dates:      normalize.TableChain,
		Sign:       sign,
	}
}

func (x *TableExtractor) Extract(t Table) TableResult {
	res := x.Vocabulary.Match(t.Header)
	if res.Complete() == nil {
		return x.byHeader(res, t.Rows)
	}

	// Without a usable header the first row may well be data.
	rows := t.Rows
	if len(t.Header) > 0 {
		rows = append([][]string{t.Header}, t.Rows...)
	}

	out := x.byPosition(rows)
	out.Positional = true

	return out
}

func (x *TableExtractor) byHeader(res columns.Resolution, rows [][]string) TableResult {
	var out TableResult

	for _, row := range rows {
		if blankRow(row) {
			continue
		}

		date, err := x.Dates.Parse(res.Value(row, columns.Date))
		if err != nil {
			out.Failed++
			continue
		}

		description := res.Value(row, columns.Description)
		if description == "" {
			out.Failed++
			continue
		}

		amount, err := normalize.ParseAmount(res.Value(row, columns.Amount))
		if err != nil {
			out.Failed++
			continue
		}

		out.Candidates = append(out.Candidates, transaction.Candidate{
			Date:         date,
			Description:  description,
			Amount:       amount,
			CategoryName: res.Value(row, columns.Category),
		})
	}

	return out
}

func (x *TableExtractor) byPosition(rows [][]string) TableResult {
	var out TableResult

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}

		dateIdx, date := findDashDate(cells)
		if dateIdx < 0 {
			// No date: a heading, a subtotal or page furniture.
			continue
		}

		amountIdx, amount := findShortAmount(cells, dateIdx)
		description := findDescription(cells, dateIdx, amountIdx)

		if amountIdx < 0 {
			var ok bool
			if amount, ok = scanTwoDecimals(cells, dateIdx); !ok {
				out.Failed++
				continue
			}
		}

		if description == "" {
			description = "Transaction " + date.Format(time.DateOnly)
		}

		out.Candidates = append(out.Candidates, transaction.Candidate{
			Date:        date,
			Description: description,
			Amount:      x.Sign.Apply(description, amount),
		})
	}

	return out
}

func findDashDate(cells []string) (int, time.Time) {
	for i, cell := range cells {
		if !strictDashDate.MatchString(cell) {
			continue
		}

		if d, ok := normalize.DashDate.TryParse(cell); ok {
			return i, d
		}
	}

	return -1, time.Time{}
}

func findShortAmount(cells []string, skip int) (int, decimal.Decimal) {
	for i, cell := range cells {
		if i == skip {
			continue
		}

		stripped := normalize.StripAmount(cell)
		if stripped == "" || len(stripped) >= maxAmountCellLen || !numericCell.MatchString(stripped) {
			continue
		}

		amount, err := normalize.ParseAmount(stripped)
		if err != nil {
			continue
		}

		return i, amount
	}

	return -1, decimal.Zero
}

func findDescription(cells []string, skip ...int) string {
	for i, cell := range cells {
		if slices.Contains(skip, i) {
			continue
		}

		if utf8.RuneCountInString(cell) <= minDescriptionLen {
			continue
		}

		if numericCell.MatchString(normalize.StripAmount(cell)) {
			continue
		}

		return collapse(cell)
	}

	return ""
}

func scanTwoDecimals(cells []string, skip int) (decimal.Decimal, bool) {
	for i, cell := range cells {
		if i == skip {
			continue
		}

		token := twoDecimals.FindString(cell)
		if token == "" {
			continue
		}

		if amount, err := normalize.ParseAmount(token); err == nil {
			return amount, true
		}
	}

	return decimal.Zero, false
}
