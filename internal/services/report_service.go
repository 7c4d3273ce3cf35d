package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"docstats/internal/cache"
	"docstats/internal/core"
	"docstats/internal/dataset"
	applog "docstats/internal/log"
	"docstats/internal/sheets"
	"docstats/internal/stats"
)

// ReportStore persists computed reports.
type ReportStore interface {
	SaveReport(ctx context.Context, source string, items int, r stats.Report) (int64, error)
}

// Result is a computed report and the number of items it covers.
type Result struct {
	Report stats.Report
	Items  int
	Cached bool
}

// Outcome is a Result after persistence. ReportID is zero when no store is configured.
type Outcome struct {
	Result
	ReportID int64
}

// ReportService computes reports for dataset files and hands them to the
// configured store and exporter. Every collaborator is optional.
type ReportService struct {
	store    ReportStore
	exporter sheets.ReportExporter
	cache    cache.Cache[Result]
	stream   bool
	logger   *applog.Logger
}

type Option func(*ReportService)

func WithStore(s ReportStore) Option { return func(r *ReportService) { r.store = s } }

func WithExporter(e sheets.ReportExporter) Option { return func(r *ReportService) { r.exporter = e } }

func WithCache(c cache.Cache[Result]) Option { return func(r *ReportService) { r.cache = c } }

func WithLogger(l *applog.Logger) Option { return func(r *ReportService) { r.logger = l } }

// WithStreaming selects single-pass streamed decoding over whole-file loading.
func WithStreaming(enabled bool) Option { return func(r *ReportService) { r.stream = enabled } }

func NewReportService(opts ...Option) *ReportService {
	s := &ReportService{stream: true}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = applog.New(applog.DefaultConfig())
	}
	s.logger = s.logger.WithComponent(applog.ComponentStats)
	return s
}

// Compute returns the report for the dataset at source, from the cache when
// the file is unchanged since the last computation.
func (s *ReportService) Compute(ctx context.Context, source string) (Result, error) {
	var key string
	if s.cache != nil {
		k, err := cache.FileKey(source)
		if err != nil {
			return Result{}, fmt.Errorf("open dataset: %w", err)
		}
		if res, ok := s.cache.Get(k); ok {
			res.Cached = true
			s.logger.DebugContext(ctx, "Report served from cache", applog.FieldSource, source)
			return res, nil
		}
		key = k
	}

	start := time.Now()
	res, err := s.compute(ctx, source)
	if err != nil {
		return Result{}, err
	}

	fields := applog.NewFields().
		WithOperation(applog.OpCompute).
		WithSource(source).
		WithReport(res.Items, len(res.Report.Monthly), len(res.Report.Periods), res.Report.Average)
	fields[applog.FieldDuration] = time.Since(start).Milliseconds()
	s.logger.InfoContext(ctx, "Report computed", fields.ToSlice()...)

	if s.cache != nil {
		s.cache.Set(key, res)
	}
	return res, nil
}

func (s *ReportService) compute(ctx context.Context, source string) (Result, error) {
	if s.stream {
		r, n, err := stats.ComputeStream(ctx, dataset.FileSource{Path: source})
		if err != nil {
			return Result{}, fmt.Errorf("compute %s: %w", source, err)
		}
		return Result{Report: r, Items: n}, nil
	}

	ds, err := dataset.Load(source)
	if err != nil {
		return Result{}, fmt.Errorf("load %s: %w", source, err)
	}
	r, err := stats.Compute(ctx, ds.Items)
	if err != nil {
		return Result{}, fmt.Errorf("compute %s: %w", source, err)
	}
	return Result{Report: r, Items: len(ds.Items)}, nil
}

// Run computes the report, stores it and exports it. A failed export is
// logged but does not fail the run: the report is already stored.
func (s *ReportService) Run(ctx context.Context, source string) (Outcome, error) {
	res, err := s.Compute(ctx, source)
	if err != nil {
		return Outcome{}, err
	}
	out := Outcome{Result: res}

	if s.store != nil {
		id, err := s.store.SaveReport(ctx, source, res.Items, res.Report)
		if err != nil {
			return Outcome{}, fmt.Errorf("save report: %w", err)
		}
		out.ReportID = id
	}

	if s.exporter != nil {
		if err := s.exporter.ExportReport(ctx, source, res.Report); err != nil {
			s.logger.ErrorContext(ctx, "Failed to export report",
				applog.FieldSource, source,
				applog.FieldOperation, applog.OpExport,
				applog.FieldError, err)
		}
	}

	return out, nil
}

// IsPermanent reports whether err will recur on retry with the same input.
func IsPermanent(err error) bool {
	return errors.Is(err, core.ErrNoPeriods) ||
		errors.Is(err, core.ErrInvalidPeriod) ||
		errors.Is(err, core.ErrMissingDocuments) ||
		errors.Is(err, dataset.ErrMissingItems) ||
		errors.Is(err, dataset.ErrMalformed) ||
		errors.Is(err, os.ErrNotExist)
}
