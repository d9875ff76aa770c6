// Package dedup identifies transactions that already exist for an owner.
//
// Two transactions are the same when date, description and amount match exactly.
// Descriptions are compared case-sensitively and without any trimming beyond what
// the normalizers already did.
package dedup

import (
	"time"

	"github.com/shopspring/decimal"
)

type Key struct {
	Date        string
	Description string
	Amount      string
}

// KeyOf builds the canonical key. Amounts use decimal's canonical string so
// 25.5 and 25.50 collide.
func KeyOf(date time.Time, description string, amount decimal.Decimal) Key {
	return Key{
		Date:        date.Format(time.DateOnly),
		Description: description,
		Amount:      amount.String(),
	}
}

type Keyed interface {
	DedupKey() Key
}

type KeySet map[Key]struct{}

func NewKeySet(keys ...Key) KeySet {
	s := make(KeySet, len(keys))
	for _, k := range keys {
		s.Add(k)
	}

	return s
}

func (s KeySet) Add(k Key) {
	s[k] = struct{}{}
}

func (s KeySet) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// FilterNew keeps the items whose key is absent from existing, in input order.
// Repeats inside items are not collapsed against each other; existing is the
// snapshot taken before the batch and is not modified.
func FilterNew[T Keyed](items []T, existing KeySet) (accepted []T, skipped int) {
	accepted = make([]T, 0, len(items))

	for _, item := range items {
		if existing.Has(item.DedupKey()) {
			skipped++
			continue
		}

		accepted = append(accepted, item)
	}

	return accepted, skipped
}
