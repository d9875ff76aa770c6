package normalize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	amountDecoration = strings.NewReplacer("$", "", ",", "")
	plainDecimal     = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)$`)
)

// AmountParser converts decorated amount strings ("$1,234.50", "-25.5") into decimals.
// The sign present in the input is always preserved.
type AmountParser struct {
	// SkipZero rejects amounts that are exactly zero with ErrZeroAmount.
	SkipZero bool
}

func (p AmountParser) Parse(raw string) (decimal.Decimal, error) {
	clean := StripAmount(raw)
	if clean == "" {
		return decimal.Zero, fieldError(FieldAmount, raw, ErrEmptyField)
	}

	if !plainDecimal.MatchString(clean) {
		return decimal.Zero, fieldError(FieldAmount, raw, ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fieldError(FieldAmount, raw, ErrInvalidAmount)
	}

	if p.SkipZero && d.IsZero() {
		return decimal.Zero, fieldError(FieldAmount, raw, ErrZeroAmount)
	}

	return d, nil
}

// ParseAmount parses with the lenient policy: zero is a valid result.
func ParseAmount(raw string) (decimal.Decimal, error) {
	return AmountParser{}.Parse(raw)
}

// StripAmount removes currency symbols, thousands separators and all whitespace.
func StripAmount(raw string) string {
	return strings.Join(strings.Fields(amountDecoration.Replace(raw)), "")
}
