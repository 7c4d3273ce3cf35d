package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	ports "docstats/internal/sheets"
	"docstats/internal/stats"
)

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	monthlySheet  string
	periodsSheet  string
}

// Ensure interface conformance
var _ ports.ReportExporter = (*Client)(nil)

// NewFromEnv creates a Sheets client using environment variables.
// Required: GOOGLE_SPREADSHEET_ID
// Optional sheet names: GOOGLE_MONTHLY_SHEET_NAME (default "Monthly"),
// GOOGLE_PERIODS_SHEET_NAME (default "Periods").
func NewFromEnv(ctx context.Context) (*Client, error) {
	spreadsheetID := strings.TrimSpace(os.Getenv("GOOGLE_SPREADSHEET_ID"))
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}

	monthly := strings.TrimSpace(os.Getenv("GOOGLE_MONTHLY_SHEET_NAME"))
	if monthly == "" {
		monthly = "Monthly"
	}
	periods := strings.TrimSpace(os.Getenv("GOOGLE_PERIODS_SHEET_NAME"))
	if periods == "" {
		periods = "Periods"
	}

	svc, err := newSheetsService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		monthlySheet:  monthly,
		periodsSheet:  periods,
	}, nil
}

// credentialsFromEnv resolves service account credentials from
// GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE or
// GOOGLE_APPLICATION_CREDENTIALS, in that order.
func credentialsFromEnv() ([]byte, error) {
	if inline := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_JSON")); inline != "" {
		return []byte(inline), nil
	}
	file := strings.TrimSpace(os.Getenv("GOOGLE_SERVICE_ACCOUNT_FILE"))
	if file == "" {
		file = strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
	}
	if file == "" {
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON, GOOGLE_SERVICE_ACCOUNT_FILE, or GOOGLE_APPLICATION_CREDENTIALS)")
	}
	b, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read service account file: %w", err)
	}
	return b, nil
}

func newSheetsService(ctx context.Context) (*gsheet.Service, error) {
	credentialsJSON, err := credentialsFromEnv()
	if err != nil {
		return nil, err
	}

	service, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	slog.InfoContext(ctx, "Google Sheets service created successfully")
	return service, nil
}

// ExportReport replaces the contents of the monthly and periods sheets.
func (c *Client) ExportReport(ctx context.Context, source string, r stats.Report) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.replace(gctx, c.monthlySheet, MonthlyRows(r))
	})
	g.Go(func() error {
		return c.replace(gctx, c.periodsSheet, PeriodRows(r))
	})
	if err := g.Wait(); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Report exported to Google Sheets",
		"source", source,
		"spreadsheet_id", c.spreadsheetID,
		"months", len(r.Monthly),
		"periods", len(r.Periods))
	return nil
}

func (c *Client) replace(ctx context.Context, sheet string, rows [][]any) error {
	_, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, sheet, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet %s: %w", sheet, err)
	}

	rng := fmt.Sprintf("%s!A1", sheet)
	_, err = c.svc.Spreadsheets.Values.Update(c.spreadsheetID, rng, &gsheet.ValueRange{Values: rows}).
		ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update sheet %s: %w", sheet, err)
	}
	return nil
}

// MonthlyRows renders the histogram as a header plus one row per month, oldest first.
func MonthlyRows(r stats.Report) [][]any {
	rows := [][]any{{"month", "items"}}
	for _, k := range sortedKeys(r.Monthly) {
		rows = append(rows, []any{k, r.Monthly[k]})
	}
	return rows
}

// PeriodRows renders the period totals, followed by the trailing average.
func PeriodRows(r stats.Report) [][]any {
	rows := [][]any{{"period", "incomes", "expenses", "total"}}
	keys := make([]string, 0, len(r.Periods))
	for k := range r.Periods {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		t := r.Periods[k]
		rows = append(rows, []any{k, t.Incomes, t.Expenses, t.Total})
	}
	rows = append(rows, []any{}, []any{"trailing average", r.Average})
	return rows
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
