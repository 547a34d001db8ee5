package aggregate

import (
	"time"

	"spendwise/internal/core"
)

// Report is the summary export document.
type Report struct {
	MonthlySummary []MonthlySummaryRow `json:"monthly_summary"`
	WeeklySummary  []WeeklySummaryRow  `json:"weekly_summary"`
	WeeklyAlerts   []string            `json:"weekly_alerts"`
}

type MonthlySummaryRow struct {
	Month         string  `json:"Month"`
	Income        float64 `json:"Income"`
	Expense       float64 `json:"Expense"`
	SpendingRatio float64 `json:"Spending Ratio (%)"`
}

type WeeklySummaryRow struct {
	WeekStart         string  `json:"week_start"`
	WeeklyExpense     float64 `json:"Weekly Expense"`
	CumulativeExpense float64 `json:"Cumulative Expense"`
	EstimatedBudget   float64 `json:"Estimated Budget"`
}

// BuildReport assembles the export from the monthly table and the current
// month budget. Arrays are never nil so they encode as [] when empty.
func BuildReport(txs []core.Transaction, ref time.Time, monthsLimit int) Report {
	r := Report{
		MonthlySummary: []MonthlySummaryRow{},
		WeeklySummary:  []WeeklySummaryRow{},
		WeeklyAlerts:   []string{},
	}
	for _, m := range MonthlyTable(txs, monthsLimit) {
		r.MonthlySummary = append(r.MonthlySummary, MonthlySummaryRow{
			Month:         m.Month,
			Income:        m.Income.Rupees(),
			Expense:       m.Expense.Rupees(),
			SpendingRatio: m.SpendingRatio,
		})
	}
	mb := CurrentMonthBudget(txs, ref)
	for _, w := range mb.Weeks {
		r.WeeklySummary = append(r.WeeklySummary, WeeklySummaryRow{
			WeekStart:         w.WeekStart.String(),
			WeeklyExpense:     w.WeeklyExpense.Rupees(),
			CumulativeExpense: w.CumulativeExpense.Rupees(),
			EstimatedBudget:   w.EstimatedBudget.Rupees(),
		})
	}
	for _, a := range mb.Alerts {
		r.WeeklyAlerts = append(r.WeeklyAlerts, a.Message)
	}
	return r
}
