package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/config"
	"spendwise/internal/core"
	"spendwise/internal/export"
	"spendwise/internal/inbox"
	"spendwise/internal/log"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Port:                 "8081",
		DataBackend:          "memory",
		InboxMaxCount:        100,
		Timezone:             "UTC",
		ReportMonths:         6,
		ReportRollingWeeks:   4,
		ReportCategoryMonths: 1,
		ReportOutput:         filepath.Join(t.TempDir(), "financial_summary.json"),
		LogLevel:             "info",
		LogFormat:            "text",
	}
}

func quietLogger() *log.Logger {
	return log.New(log.Config{Output: &bytes.Buffer{}, Component: log.ComponentApp})
}

func TestNewAppWiresServices(t *testing.T) {
	ctx := context.Background()
	provider := &inbox.Static{Messages: []core.RawMessage{
		{ExternalID: "1", Sender: "VM-HDFCBK", Body: "Rs 250.50 debited to Swiggy", TimestampMillis: "1759831200000"},
	}}

	app, err := NewApp(ctx, testConfig(t), quietLogger(), provider)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	res, err := app.Ingestion.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	txs, err := app.Transactions.List(ctx)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "Food", txs[0].Category)
	assert.Equal(t, "UTC", app.Location.String())
}

func TestNewAppRejectsBadRulesFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.RulesFile = filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(cfg.RulesFile, []byte("payees: [not: valid"), 0o644))

	_, err := NewApp(context.Background(), cfg, quietLogger(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categorization rules")
}

func TestNewAppRejectsBadTimezone(t *testing.T) {
	cfg := testConfig(t)
	cfg.Timezone = "Mars/Olympus"

	_, err := NewApp(context.Background(), cfg, quietLogger(), nil)
	require.Error(t, err)
}

func TestNewProvider(t *testing.T) {
	cfg := testConfig(t)
	assert.Nil(t, NewProvider(cfg))

	cfg.InboxFile = "inbox.json"
	p := NewProvider(cfg)
	require.NotNil(t, p)
	assert.Equal(t, "file", p.Name())
}

func TestNewExporterWithoutSheets(t *testing.T) {
	cfg := testConfig(t)

	w, err := NewExporter(context.Background(), cfg, "")
	require.NoError(t, err)
	multi, ok := w.(export.Multi)
	require.True(t, ok)
	require.Len(t, multi, 1)
	assert.Equal(t, cfg.ReportOutput, multi[0].(*export.JSONFile).Path)

	w, err = NewExporter(context.Background(), cfg, "other.json")
	require.NoError(t, err)
	assert.Equal(t, "other.json", w.(export.Multi)[0].(*export.JSONFile).Path)
}

func TestNewExporterSheetsNeedsCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.GoogleSpreadsheetID = "sheet-123"

	_, err := NewExporter(context.Background(), cfg, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "google sheets exporter")
}

func TestSetupLoggerFallsBackOnUnknownLevel(t *testing.T) {
	cfg := testConfig(t)
	cfg.LogLevel = "chatty"
	logger := SetupLogger(cfg, log.ComponentWorker)
	require.NotNil(t, logger)
	assert.Equal(t, log.ComponentWorker, logger.Component())
}
