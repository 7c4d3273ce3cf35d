package stats

import (
	"fmt"
	"time"

	"docstats/internal/core"
)

// windowDays is a fixed day count, not three calendar months: depending on
// month lengths the window reaches into a fourth month.
const windowDays = 90

// window is the inclusive range [end-90d, end].
type window struct {
	start, end time.Time
}

func newWindow(lastPeriod string) (window, error) {
	ym, err := core.ParseYearMonth(lastPeriod)
	if err != nil {
		return window{}, err
	}
	end := ym.FirstDay()
	return window{start: end.AddDate(0, 0, -windowDays), end: end}, nil
}

func (w window) contains(period string) (bool, error) {
	ym, err := core.ParseYearMonth(period)
	if err != nil {
		return false, err
	}
	d := ym.FirstDay()
	return !d.Before(w.start) && !d.After(w.end), nil
}

func lastPeriod(items []core.Item) (string, bool) {
	var last string
	found := false
	for _, it := range items {
		for _, e := range it.Summary {
			if !found || e.Period > last {
				last = e.Period
				found = true
			}
		}
	}
	return last, found
}

func mean(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// TrailingQuarterAverage returns the truncated mean of documents per
// (item, period) pair for ENTERPRISE and FLEXIBLE items over the 90 days
// ending at the latest period of any package. It fails with core.ErrNoPeriods
// when the data carries no period at all.
func TrailingQuarterAverage(items []core.Item) (int64, error) {
	last, ok := lastPeriod(items)
	if !ok {
		return 0, core.ErrNoPeriods
	}
	w, err := newWindow(last)
	if err != nil {
		return 0, fmt.Errorf("last period: %w", err)
	}

	var total, count int64
	for _, it := range items {
		if !it.Package.Qualifies() {
			continue
		}
		for _, e := range it.Summary {
			in, err := w.contains(e.Period)
			if err != nil {
				return 0, err
			}
			if in {
				total += e.Documents.Sum()
				count++
			}
		}
	}
	return mean(total, count), nil
}

type periodSum struct {
	total, count int64
}

// TrailingAverage computes the same value as TrailingQuarterAverage in a
// single pass. The window end is unknown until the input is exhausted, so
// qualifying documents are kept per period until Result.
type TrailingAverage struct {
	last    string
	found   bool
	periods map[string]*periodSum
}

func NewTrailingAverage() *TrailingAverage {
	return &TrailingAverage{periods: make(map[string]*periodSum)}
}

func (a *TrailingAverage) Add(it core.Item) {
	qualifies := it.Package.Qualifies()
	for _, e := range it.Summary {
		if !a.found || e.Period > a.last {
			a.last = e.Period
			a.found = true
		}
		if !qualifies {
			continue
		}
		s, ok := a.periods[e.Period]
		if !ok {
			s = &periodSum{}
			a.periods[e.Period] = s
		}
		s.total += e.Documents.Sum()
		s.count++
	}
}

func (a *TrailingAverage) Result() (int64, error) {
	if !a.found {
		return 0, core.ErrNoPeriods
	}
	w, err := newWindow(a.last)
	if err != nil {
		return 0, fmt.Errorf("last period: %w", err)
	}

	var total, count int64
	for period, s := range a.periods {
		in, err := w.contains(period)
		if err != nil {
			return 0, err
		}
		if in {
			total += s.total
			count += s.count
		}
	}
	return mean(total, count), nil
}
