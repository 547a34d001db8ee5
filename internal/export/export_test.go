package export

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendwise/internal/aggregate"
)

func sampleReport() aggregate.Report {
	return aggregate.Report{
		MonthlySummary: []aggregate.MonthlySummaryRow{
			{Month: "2025-10", Income: 1000, Expense: 349.5, SpendingRatio: 34.95},
		},
		WeeklySummary: []aggregate.WeeklySummaryRow{
			{WeekStart: "2025-10-06", WeeklyExpense: 349.5, CumulativeExpense: 349.5, EstimatedBudget: 800},
		},
		WeeklyAlerts: []string{"Week of 2025-10-06: within budget"},
	}
}

func TestJSONFileWritesIndentedReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", DefaultFileName)
	w := NewJSONFile(path)

	require.NoError(t, w.Write(context.Background(), sampleReport()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"monthly_summary\": [")
	assert.Contains(t, string(data), `"Spending Ratio (%)": 34.95`)

	var got aggregate.Report
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sampleReport(), got)

	// overwrite leaves no temp files behind
	require.NoError(t, w.Write(context.Background(), aggregate.Report{
		MonthlySummary: []aggregate.MonthlySummaryRow{},
		WeeklySummary:  []aggregate.WeeklySummaryRow{},
		WeeklyAlerts:   []string{},
	}))
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"monthly_summary":[],"weekly_summary":[],"weekly_alerts":[]}`, string(data))
}

func TestJSONFileDefaultsPath(t *testing.T) {
	assert.Equal(t, DefaultFileName, NewJSONFile("").Path)
}

func TestJSONFileHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := filepath.Join(t.TempDir(), "r.json")

	err := NewJSONFile(path).Write(ctx, sampleReport())
	assert.ErrorIs(t, err, context.Canceled)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestMultiAttemptsEveryWriter(t *testing.T) {
	boom := errors.New("boom")
	failing := &Memory{Err: boom}
	ok := &Memory{}

	err := Multi{failing, ok}.Write(context.Background(), sampleReport())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, ok.Count())

	last, found := ok.Last()
	require.True(t, found)
	assert.Equal(t, "2025-10", last.MonthlySummary[0].Month)
}

func TestMemoryEmpty(t *testing.T) {
	_, found := (&Memory{}).Last()
	assert.False(t, found)
}
