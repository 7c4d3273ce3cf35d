package stats

import (
	"docstats/internal/core"
)

// MonthHistogram counts items per created month.
type MonthHistogram struct {
	counts   map[string]int64
	min, max core.Date
	seen     bool
}

func NewMonthHistogram() *MonthHistogram {
	return &MonthHistogram{counts: make(map[string]int64)}
}

func (h *MonthHistogram) Add(it core.Item) {
	h.counts[core.MonthOf(it.Created.Time).String()]++

	if !h.seen || it.Created.Before(h.min.Time) {
		h.min = it.Created
	}
	if !h.seen || it.Created.After(h.max.Time) {
		h.max = it.Created
	}
	h.seen = true
}

// Result returns the histogram with every month between the earliest and
// latest created date present, zero when no item falls in it.
func (h *MonthHistogram) Result() map[string]int64 {
	out := make(map[string]int64, len(h.counts))
	for k, v := range h.counts {
		out[k] = v
	}
	if !h.seen {
		return out
	}

	last := core.MonthOf(h.max.Time)
	for ym := core.MonthOf(h.min.Time); !last.Before(ym); ym = ym.Next() {
		key := ym.String()
		if _, ok := out[key]; !ok {
			out[key] = 0
		}
	}
	return out
}

// MonthlyCreationHistogram returns the number of items per created
// year-month, gap-filled with zeros over the observed range.
func MonthlyCreationHistogram(items []core.Item) map[string]int64 {
	h := NewMonthHistogram()
	for _, it := range items {
		h.Add(it)
	}
	return h.Result()
}
