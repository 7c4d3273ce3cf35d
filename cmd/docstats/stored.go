package main

import (
	"context"
	"fmt"
	"io"

	"docstats/internal/storage"
)

type reportFinder interface {
	GetReport(ctx context.Context, id int64) (storage.StoredReport, error)
	LatestReport(ctx context.Context, source string) (storage.StoredReport, error)
}

// findStored returns the report with id, or the latest one stored for
// source when id is zero.
func findStored(ctx context.Context, f reportFinder, source string, id int64) (storage.StoredReport, error) {
	if id != 0 {
		sr, err := f.GetReport(ctx, id)
		if err != nil {
			return storage.StoredReport{}, fmt.Errorf("report %d: %w", id, err)
		}
		return sr, nil
	}
	sr, err := f.LatestReport(ctx, source)
	if err != nil {
		return storage.StoredReport{}, fmt.Errorf("latest report for %s: %w", source, err)
	}
	return sr, nil
}

// writeStored prints a stored report header to w followed by its tasks.
func writeStored(w io.Writer, sr storage.StoredReport) error {
	if _, err := fmt.Fprintf(w, "# report %d: %s (%d items, %s)\n",
		sr.ID, sr.Source, sr.Items, sr.CreatedAt.Format("2006-01-02T15:04:05Z07:00")); err != nil {
		return err
	}
	return writeTasks(w, sr.Report)
}
