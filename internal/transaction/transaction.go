package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/tally/internal/dedup"
)

// Transaction is a persisted money movement.
// Negative amounts are income (credits), positive amounts are expenses (debits).
type Transaction struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Date         time.Time
	Description  string
	Amount       decimal.Decimal
	CategoryID   *uuid.UUID
	CategoryName string // Loaded via JOIN
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}

func (t *Transaction) IsExpense() bool {
	return t.Amount.IsPositive()
}

func (t *Transaction) IsIncome() bool {
	return t.Amount.IsNegative()
}

func (t *Transaction) DedupKey() dedup.Key {
	return dedup.KeyOf(t.Date, t.Description, t.Amount)
}

// Candidate is a normalized row that has not been persisted yet.
// CategoryName stays empty until a categorizer or a category column fills it.
type Candidate struct {
	Date         time.Time
	Description  string
	Amount       decimal.Decimal
	CategoryName string
}

func (c Candidate) DedupKey() dedup.Key {
	return dedup.KeyOf(c.Date, c.Description, c.Amount)
}

// FromCandidate builds an unsaved transaction owned by owner.
func FromCandidate(owner uuid.UUID, c Candidate, categoryID *uuid.UUID) *Transaction {
	return &Transaction{
		OwnerID:      owner,
		Date:         c.Date,
		Description:  c.Description,
		Amount:       c.Amount,
		CategoryID:   categoryID,
		CategoryName: c.CategoryName,
	}
}
