package stats

import (
	"fmt"

	"docstats/internal/core"
)

// PeriodTotals sums document counts per period label.
type PeriodTotals struct {
	totals map[string]*core.DocumentTotals
}

func NewPeriodTotals() *PeriodTotals {
	return &PeriodTotals{totals: make(map[string]*core.DocumentTotals)}
}

// entry returns the running totals for period, inserting zeros on first access.
func (p *PeriodTotals) entry(period string) *core.DocumentTotals {
	t, ok := p.totals[period]
	if !ok {
		t = &core.DocumentTotals{}
		p.totals[period] = t
	}
	return t
}

func (p *PeriodTotals) Add(it core.Item) error {
	for _, e := range it.Summary {
		docs, err := e.Documents.Total()
		if err != nil {
			return fmt.Errorf("period %s: %w", e.Period, err)
		}
		p.entry(e.Period).Add(docs)
	}
	return nil
}

func (p *PeriodTotals) Result() map[string]core.DocumentTotals {
	out := make(map[string]core.DocumentTotals, len(p.totals))
	for k, v := range p.totals {
		out[k] = *v
	}
	return out
}

// PeriodDocumentTotals returns incomes, expenses and total per period as it
// appears in the data. Periods are never synthesized.
func PeriodDocumentTotals(items []core.Item) (map[string]core.DocumentTotals, error) {
	p := NewPeriodTotals()
	for _, it := range items {
		if err := p.Add(it); err != nil {
			return nil, err
		}
	}
	return p.Result(), nil
}
