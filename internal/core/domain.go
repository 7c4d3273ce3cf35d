package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Enterprise Package = "ENTERPRISE"
	Flexible   Package = "FLEXIBLE"
)

type (
	// Package labels a subscription kind. The set is open: unknown values
	// are carried through untouched.
	Package string

	Date struct {
		time.Time
	}

	Documents struct {
		Incomes  Count `json:"incomes"`
		Expenses Count `json:"expenses"`
	}

	PeriodEntry struct {
		Period    string    `json:"period"`
		Documents Documents `json:"documents"`
	}

	Item struct {
		Package Package       `json:"package"`
		Created Date          `json:"created"`
		Summary []PeriodEntry `json:"summary"`
	}

	Dataset struct {
		Items []Item `json:"items"`
	}

	// DocumentTotals is the aggregated document count for one period.
	DocumentTotals struct {
		Incomes  int64 `json:"incomes"`
		Expenses int64 `json:"expenses"`
		Total    int64 `json:"total"`
	}
)

var (
	ErrInvalidPeriod    = errors.New("invalid period")
	ErrInvalidDate      = errors.New("invalid created date")
	ErrNoPeriods        = errors.New("no periods in data")
	ErrMissingDocuments = errors.New("missing document counts")
)

// Layouts accepted for created timestamps, most specific first.
var dateLayouts = []string{
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a naive created timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Date{Time: t}, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (d *Date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidDate, string(b))
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(dateLayouts[0]))
}

// NewDocuments builds Documents with both counts present.
func NewDocuments(incomes, expenses int64) Documents {
	return Documents{Incomes: NewCount(incomes), Expenses: NewCount(expenses)}
}

// Sum returns incomes+expenses, treating absent counts as zero.
func (d Documents) Sum() int64 {
	return d.Incomes.Or(0) + d.Expenses.Or(0)
}

// Total returns the summed counts, or ErrMissingDocuments when either is absent.
func (d Documents) Total() (DocumentTotals, error) {
	if !d.Incomes.Valid || !d.Expenses.Valid {
		return DocumentTotals{}, ErrMissingDocuments
	}
	return DocumentTotals{
		Incomes:  d.Incomes.Value,
		Expenses: d.Expenses.Value,
		Total:    d.Incomes.Value + d.Expenses.Value,
	}, nil
}

// Add accumulates other into t.
func (t *DocumentTotals) Add(other DocumentTotals) {
	t.Incomes += other.Incomes
	t.Expenses += other.Expenses
	t.Total += other.Total
}

// Qualifies reports whether the package takes part in the trailing average.
func (p Package) Qualifies() bool {
	return p == Enterprise || p == Flexible
}
