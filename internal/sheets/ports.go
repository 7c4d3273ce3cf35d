package sheets

import (
	"context"

	"docstats/internal/stats"
)

// Ports for outbound adapters.
type (
	// ReportExporter publishes a computed report to an external destination.
	ReportExporter interface {
		ExportReport(ctx context.Context, source string, r stats.Report) error
	}
)
