package transaction

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
)

const UncategorizedLabel = "Uncategorized"

type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Count    int             `json:"count"`
}

// Summary reports income as a positive magnitude. Net is income minus expenses.
type Summary struct {
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	Net           decimal.Decimal `json:"net"`
	ByCategory    []CategoryTotal `json:"by_category"`
}

// Summarize groups expenses by category name, largest total first.
func Summarize(txs []*Transaction) *Summary {
	s := &Summary{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
	}

	byName := make(map[string]*CategoryTotal)

	for _, tx := range txs {
		if tx.IsIncome() {
			s.TotalIncome = s.TotalIncome.Add(tx.Amount.Abs())
			continue
		}

		if !tx.IsExpense() {
			continue
		}

		s.TotalExpenses = s.TotalExpenses.Add(tx.Amount)

		name := tx.CategoryName
		if name == "" {
			name = UncategorizedLabel
		}

		total, ok := byName[name]
		if !ok {
			total = &CategoryTotal{Category: name, Total: decimal.Zero}
			byName[name] = total
		}

		total.Total = total.Total.Add(tx.Amount)
		total.Count++
	}

	s.Net = s.TotalIncome.Sub(s.TotalExpenses)

	s.ByCategory = make([]CategoryTotal, 0, len(byName))
	for _, total := range byName {
		s.ByCategory = append(s.ByCategory, *total)
	}

	slices.SortFunc(s.ByCategory, func(a, b CategoryTotal) int {
		if c := b.Total.Cmp(a.Total); c != 0 {
			return c
		}

		return cmp.Compare(a.Category, b.Category)
	})

	return s
}
