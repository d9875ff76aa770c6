package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/MrJamesThe3rd/tally/internal/transaction"
)

const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Row is one exported transaction as it appears in the CSV file.
type Row struct {
	Date        string `csv:"date"`
	Description string `csv:"description"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Type        string `csv:"type"`
}

// Service handles the export of stored transactions.
type Service struct {
	transactions *transaction.Service
}

func NewService(txService *transaction.Service) *Service {
	return &Service{transactions: txService}
}

// Export returns the rows for transactions matching the filter, newest first.
func (s *Service) Export(ctx context.Context, filter transaction.ListFilter) ([]Row, error) {
	transactions, err := s.transactions.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	rows := make([]Row, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, toRow(t))
	}

	return rows, nil
}

// WriteCSV writes the matching transactions to w with a header line.
func (s *Service) WriteCSV(ctx context.Context, filter transaction.ListFilter, w io.Writer) (int, error) {
	rows, err := s.Export(ctx, filter)
	if err != nil {
		return 0, err
	}

	if err := gocsv.Marshal(rows, w); err != nil {
		return 0, fmt.Errorf("writing csv: %w", err)
	}

	return len(rows), nil
}

// Report renders rows as a plain text list, one transaction per line.
func Report(rows []Row) string {
	var sb strings.Builder

	for _, r := range rows {
		sign := "-"
		if r.Type == TypeIncome {
			sign = "+"
		}

		fmt.Fprintf(&sb, "* %s | %s | %s%s | %s\n", r.Date, r.Description, sign, strings.TrimPrefix(r.Amount, "-"), r.Category)
	}

	return sb.String()
}

func toRow(t *transaction.Transaction) Row {
	row := Row{
		Date:        t.Date.Format("2006-01-02"),
		Description: t.Description,
		Amount:      t.Amount.String(),
		Category:    t.CategoryName,
		Type:        TypeExpense,
	}

	if t.IsIncome() {
		row.Type = TypeIncome
	}

	if row.Category == "" {
		row.Category = transaction.UncategorizedLabel
	}

	return row
}
