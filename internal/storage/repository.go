package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"docstats/internal/core"
	"docstats/internal/stats"

	_ "modernc.org/sqlite"
)

var ErrReportNotFound = errors.New("report not found")

// StoredReport is a persisted report with its run metadata.
type StoredReport struct {
	ID        int64
	Source    string
	Items     int
	CreatedAt time.Time
	Report    stats.Report
}

type SQLiteRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db, now: time.Now}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// SaveReport stores a report and its monthly and period rows in one transaction.
func (r *SQLiteRepository) SaveReport(ctx context.Context, source string, items int, rep stats.Report) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO reports (source, item_count, average, created_at) VALUES (?, ?, ?, ?)`,
		source, items, rep.Average, r.now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return 0, fmt.Errorf("insert report: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("report id: %w", err)
	}

	monthStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO report_months (report_id, month, items) VALUES (?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare month insert: %w", err)
	}
	defer monthStmt.Close()
	for month, n := range rep.Monthly {
		if _, err := monthStmt.ExecContext(ctx, id, month, n); err != nil {
			return 0, fmt.Errorf("insert month %s: %w", month, err)
		}
	}

	periodStmt, err := tx.PrepareContext(ctx,
		`INSERT INTO report_periods (report_id, period, incomes, expenses, total) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare period insert: %w", err)
	}
	defer periodStmt.Close()
	for period, t := range rep.Periods {
		if _, err := periodStmt.ExecContext(ctx, id, period, t.Incomes, t.Expenses, t.Total); err != nil {
			return 0, fmt.Errorf("insert period %s: %w", period, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit report: %w", err)
	}

	slog.InfoContext(ctx, "Report saved to SQLite",
		"id", id,
		"source", source,
		"items", items,
		"months", len(rep.Monthly),
		"periods", len(rep.Periods))

	return id, nil
}

// GetReport loads a stored report by ID.
func (r *SQLiteRepository) GetReport(ctx context.Context, id int64) (StoredReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source, item_count, average, created_at FROM reports WHERE id = ?`, id)
	return r.load(ctx, row)
}

// LatestReport loads the most recently stored report for source.
func (r *SQLiteRepository) LatestReport(ctx context.Context, source string) (StoredReport, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, source, item_count, average, created_at FROM reports WHERE source = ? ORDER BY id DESC LIMIT 1`, source)
	return r.load(ctx, row)
}

func (r *SQLiteRepository) load(ctx context.Context, row *sql.Row) (StoredReport, error) {
	var (
		sr      StoredReport
		created string
	)
	if err := row.Scan(&sr.ID, &sr.Source, &sr.Items, &sr.Report.Average, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return StoredReport{}, ErrReportNotFound
		}
		return StoredReport{}, fmt.Errorf("get report: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return StoredReport{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	sr.CreatedAt = t

	if sr.Report.Monthly, err = r.months(ctx, sr.ID); err != nil {
		return StoredReport{}, err
	}
	if sr.Report.Periods, err = r.periods(ctx, sr.ID); err != nil {
		return StoredReport{}, err
	}
	return sr, nil
}

func (r *SQLiteRepository) months(ctx context.Context, id int64) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT month, items FROM report_months WHERE report_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get report months: %w", err)
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var (
			month string
			n     int64
		)
		if err := rows.Scan(&month, &n); err != nil {
			return nil, fmt.Errorf("scan report month: %w", err)
		}
		out[month] = n
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) periods(ctx context.Context, id int64) (map[string]core.DocumentTotals, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT period, incomes, expenses, total FROM report_periods WHERE report_id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("get report periods: %w", err)
	}
	defer rows.Close()

	out := make(map[string]core.DocumentTotals)
	for rows.Next() {
		var (
			period string
			t      core.DocumentTotals
		)
		if err := rows.Scan(&period, &t.Incomes, &t.Expenses, &t.Total); err != nil {
			return nil, fmt.Errorf("scan report period: %w", err)
		}
		out[period] = t
	}
	return out, rows.Err()
}
