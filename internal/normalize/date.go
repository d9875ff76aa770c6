package normalize

import (
	"regexp"
	"strings"
	"time"
)

// Locale selects how ambiguous NN/NN/YYYY dates are read.
type Locale int

const (
	LocaleUS Locale = iota
	LocaleDayFirst
)

// DateStrategy recognises one textual date shape.
type DateStrategy interface {
	Name() string
	TryParse(s string) (time.Time, bool)
}

type layoutStrategy struct {
	name   string
	shape  *regexp.Regexp
	layout string
}

func (l layoutStrategy) Name() string {
	return l.name
}

// TryParse only hands the value to time.Parse when its digit groups match the
// shape, so a 4-digit first group never reaches a day-first layout.
func (l layoutStrategy) TryParse(s string) (time.Time, bool) {
	if !l.shape.MatchString(s) {
		return time.Time{}, false
	}

	t, err := time.Parse(l.layout, s)
	if err != nil {
		return time.Time{}, false
	}

	return t, true
}

var (
	IsoDate DateStrategy = layoutStrategy{
		name:   "YYYY-MM-DD",
		shape:  regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`),
		layout: time.DateOnly,
	}
	SlashDate DateStrategy = layoutStrategy{
		name:   "MM/DD/YYYY",
		shape:  regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		layout: "1/2/2006",
	}
	AbbrevMonthDate DateStrategy = layoutStrategy{
		name:   "D-Mon-YYYY",
		shape:  regexp.MustCompile(`^\d{1,2}-[A-Za-z]{3}-\d{4}$`),
		layout: "2-Jan-2006",
	}
	DashDate DateStrategy = layoutStrategy{
		name:   "DD-MM-YYYY",
		shape:  regexp.MustCompile(`^\d{1,2}-\d{1,2}-\d{4}$`),
		layout: "2-1-2006",
	}
	DaySlashDate DateStrategy = layoutStrategy{
		name:   "DD/MM/YYYY",
		shape:  regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`),
		layout: "2/1/2006",
	}
	YearSlashDate DateStrategy = layoutStrategy{
		name:   "YYYY/MM/DD",
		shape:  regexp.MustCompile(`^\d{4}/\d{1,2}/\d{1,2}$`),
		layout: "2006/1/2",
	}
)

// DateChain tries its strategies in order; the first success wins.
type DateChain []DateStrategy

var (
	DefaultChain  = DateChain{IsoDate, SlashDate, AbbrevMonthDate, DashDate, DaySlashDate, YearSlashDate}
	DayFirstChain = DateChain{IsoDate, DaySlashDate, SlashDate, AbbrevMonthDate, DashDate, YearSlashDate}

	// TableChain is used for header-driven tables pulled out of documents.
	TableChain = DateChain{IsoDate, DaySlashDate, SlashDate, DashDate, YearSlashDate}
)

func (c DateChain) Parse(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fieldError(FieldDate, raw, ErrEmptyField)
	}

	for _, strategy := range c {
		if t, ok := strategy.TryParse(s); ok {
			return t, nil
		}
	}

	return time.Time{}, fieldError(FieldDate, raw, ErrInvalidDate)
}

func ParseDate(raw string) (time.Time, error) {
	return DefaultChain.Parse(raw)
}

func ParseDateLocale(raw string, locale Locale) (time.Time, error) {
	return ChainFor(locale).Parse(raw)
}

func ChainFor(locale Locale) DateChain {
	if locale == LocaleDayFirst {
		return DayFirstChain
	}

	return DefaultChain
}

// DashToISO rewrites DD-MM-YYYY as YYYY-MM-DD and returns anything else untouched.
func DashToISO(s string) string {
	t, ok := DashDate.TryParse(strings.TrimSpace(s))
	if !ok {
		return s
	}

	return t.Format(time.DateOnly)
}
