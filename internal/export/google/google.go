// Package google exports the summary report to a Google Sheets tab.
package google

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"spendwise/internal/aggregate"
	"spendwise/internal/export"
)

const DefaultSheetName = "Summary"

var _ export.Writer = (*Client)(nil)

// Config selects the spreadsheet and the service account used to reach it.
// CredentialsJSON takes precedence over CredentialsFile.
type Config struct {
	SpreadsheetID   string
	SheetName       string
	CredentialsJSON string
	CredentialsFile string
}

type Client struct {
	svc           *gsheet.Service
	spreadsheetID string
	sheetName     string
}

// New creates a Sheets client. Extra options are applied after the service
// account credentials, so tests can redirect the endpoint.
func New(ctx context.Context, cfg Config, opts ...goption.ClientOption) (*Client, error) {
	spreadsheetID := strings.TrimSpace(cfg.SpreadsheetID)
	if spreadsheetID == "" {
		return nil, errors.New("missing GOOGLE_SPREADSHEET_ID")
	}
	sheetName := strings.TrimSpace(cfg.SheetName)
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	svc, err := newSheetsService(ctx, cfg, opts)
	if err != nil {
		return nil, fmt.Errorf("sheets service: %w", err)
	}

	return &Client{svc: svc, spreadsheetID: spreadsheetID, sheetName: sheetName}, nil
}

func newSheetsService(ctx context.Context, cfg Config, extra []goption.ClientOption) (*gsheet.Service, error) {
	credentialsJSON, err := readCredentials(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var opts []goption.ClientOption
	switch {
	case credentialsJSON != nil:
		opts = append(opts,
			goption.WithCredentialsJSON(credentialsJSON),
			goption.WithScopes(gsheet.SpreadsheetsScope))
	case len(extra) == 0:
		return nil, errors.New("missing service account credentials (set GOOGLE_SERVICE_ACCOUNT_JSON or GOOGLE_SERVICE_ACCOUNT_FILE)")
	}
	opts = append(opts, extra...)

	service, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	slog.DebugContext(ctx, "Google Sheets service created")
	return service, nil
}

func readCredentials(ctx context.Context, cfg Config) ([]byte, error) {
	if inline := strings.TrimSpace(cfg.CredentialsJSON); inline != "" {
		slog.DebugContext(ctx, "Using inline service account credentials")
		return []byte(inline), nil
	}
	if path := strings.TrimSpace(cfg.CredentialsFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
		slog.DebugContext(ctx, "Read service account file", "path", path, "size", len(data))
		return data, nil
	}
	return nil, nil
}

func (c *Client) Name() string { return "sheets" }

// Write replaces the content of the target tab with the report.
func (c *Client) Write(ctx context.Context, report aggregate.Report) error {
	if c.svc == nil {
		return errors.New("sheets service not initialized")
	}

	clearRange := fmt.Sprintf("%s!A:Z", quoteSheetName(c.sheetName))
	if _, err := c.svc.Spreadsheets.Values.Clear(c.spreadsheetID, clearRange, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return fmt.Errorf("clear sheet %s: %w", c.sheetName, err)
	}

	rows := BuildValues(report)
	updateRange := fmt.Sprintf("%s!A1", quoteSheetName(c.sheetName))
	vr := &gsheet.ValueRange{Values: rows}
	if _, err := c.svc.Spreadsheets.Values.Update(c.spreadsheetID, updateRange, vr).
		ValueInputOption("USER_ENTERED").Context(ctx).Do(); err != nil {
		return fmt.Errorf("update sheet %s: %w", c.sheetName, err)
	}

	slog.InfoContext(ctx, "Report written to sheet", "sheet", c.sheetName, "rows", len(rows))
	return nil
}

// BuildValues lays the report out as three stacked tables separated by a
// blank row: monthly summary, weekly summary, alerts.
func BuildValues(report aggregate.Report) [][]any {
	rows := [][]any{
		{"Monthly Summary"},
		{"Month", "Income", "Expense", "Spending Ratio (%)"},
	}
	for _, m := range report.MonthlySummary {
		rows = append(rows, []any{m.Month, m.Income, m.Expense, m.SpendingRatio})
	}

	rows = append(rows,
		[]any{},
		[]any{"Weekly Summary"},
		[]any{"Week Start", "Weekly Expense", "Cumulative Expense", "Estimated Budget"},
	)
	for _, w := range report.WeeklySummary {
		rows = append(rows, []any{w.WeekStart, w.WeeklyExpense, w.CumulativeExpense, w.EstimatedBudget})
	}

	rows = append(rows, []any{}, []any{"Weekly Alerts"})
	for _, a := range report.WeeklyAlerts {
		rows = append(rows, []any{a})
	}
	return rows
}

// quoteSheetName quotes tab names that A1 notation would otherwise misread.
func quoteSheetName(name string) string {
	for _, r := range name {
		if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
			return "'" + strings.ReplaceAll(name, "'", "''") + "'"
		}
	}
	return name
}
