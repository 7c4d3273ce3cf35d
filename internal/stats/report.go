package stats

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"docstats/internal/core"
)

// Report bundles the three aggregations computed over one dataset.
type Report struct {
	Monthly map[string]int64               `json:"monthly"`
	Periods map[string]core.DocumentTotals `json:"periods"`
	Average int64                          `json:"average"`
}

// Source yields items one at a time and returns how many were read.
type Source interface {
	Each(ctx context.Context, fn func(core.Item) error) (int, error)
}

// Compute runs the three aggregations concurrently over the same read-only
// items. Each goroutine owns its result. The aggregations are not
// interruptible, so ctx is only checked before they start.
func Compute(ctx context.Context, items []core.Item) (Report, error) {
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}
	var (
		r Report
		g errgroup.Group
	)

	g.Go(func() error {
		r.Monthly = MonthlyCreationHistogram(items)
		return nil
	})
	g.Go(func() error {
		totals, err := PeriodDocumentTotals(items)
		if err != nil {
			return fmt.Errorf("period totals: %w", err)
		}
		r.Periods = totals
		return nil
	})
	g.Go(func() error {
		avg, err := TrailingQuarterAverage(items)
		if err != nil {
			return fmt.Errorf("trailing average: %w", err)
		}
		r.Average = avg
		return nil
	})

	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	return r, nil
}

// ComputeStream feeds a single pass over src into all three aggregations.
func ComputeStream(ctx context.Context, src Source) (Report, int, error) {
	hist := NewMonthHistogram()
	totals := NewPeriodTotals()
	avg := NewTrailingAverage()

	n, err := src.Each(ctx, func(it core.Item) error {
		hist.Add(it)
		avg.Add(it)
		if err := totals.Add(it); err != nil {
			return fmt.Errorf("period totals: %w", err)
		}
		return nil
	})
	if err != nil {
		return Report{}, n, err
	}

	average, err := avg.Result()
	if err != nil {
		return Report{}, n, fmt.Errorf("trailing average: %w", err)
	}
	return Report{
		Monthly: hist.Result(),
		Periods: totals.Result(),
		Average: average,
	}, n, nil
}

// SliceSource adapts an in-memory item slice to Source.
type SliceSource []core.Item

func (s SliceSource) Each(ctx context.Context, fn func(core.Item) error) (int, error) {
	for i, it := range s {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if err := fn(it); err != nil {
			return i, err
		}
	}
	return len(s), nil
}
