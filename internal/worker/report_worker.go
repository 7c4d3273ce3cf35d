package worker

import (
	"context"
	"fmt"
	"time"

	"docstats/internal/amqp"
	applog "docstats/internal/log"
	"docstats/internal/services"
)

// ReadyPublisher announces finished reports.
type ReadyPublisher interface {
	PublishReportReady(ctx context.Context, msg *amqp.ReportReadyMessage) error
}

// ReportRunner computes and persists a report for one dataset.
type ReportRunner interface {
	Run(ctx context.Context, source string) (services.Outcome, error)
}

// ReportWorker turns report requests into stored reports.
type ReportWorker struct {
	runner    ReportRunner
	publisher ReadyPublisher
	logger    *applog.Logger
}

func NewReportWorker(runner ReportRunner, publisher ReadyPublisher, logger *applog.Logger) *ReportWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &ReportWorker{
		runner:    runner,
		publisher: publisher,
		logger:    logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleReportRequest processes a single report request from AMQP.
// Requests that can never succeed are logged and acknowledged; any other
// failure is returned so the message is requeued.
func (w *ReportWorker) HandleReportRequest(ctx context.Context, msg *amqp.ReportRequestMessage) error {
	w.logger.InfoContext(ctx, "Processing report request",
		applog.FieldSource, msg.Source,
		applog.FieldRequestID, msg.RequestID)

	out, err := w.runner.Run(ctx, msg.Source)
	if err != nil {
		if services.IsPermanent(err) {
			w.logger.ErrorContext(ctx, "Dropping report request",
				applog.FieldSource, msg.Source,
				applog.FieldRequestID, msg.RequestID,
				applog.FieldError, err)
			return nil
		}
		return fmt.Errorf("run report: %w", err)
	}

	if w.publisher != nil {
		ready := &amqp.ReportReadyMessage{
			ReportID:  out.ReportID,
			Source:    msg.Source,
			RequestID: msg.RequestID,
			Items:     out.Items,
			Average:   out.Report.Average,
			Timestamp: time.Now(),
		}
		if err := w.publisher.PublishReportReady(ctx, ready); err != nil {
			// The report is stored; a lost notification is not worth recomputing.
			w.logger.ErrorContext(ctx, "Failed to publish report ready",
				applog.FieldReportID, out.ReportID,
				applog.FieldError, err)
		}
	}

	w.logger.InfoContext(ctx, "Report request completed",
		applog.FieldSource, msg.Source,
		applog.FieldReportID, out.ReportID,
		applog.FieldItems, out.Items,
		"cached", out.Cached)
	return nil
}
