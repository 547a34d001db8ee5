package aggregate

import (
	"time"

	"spendwise/internal/core"
)

// Summarize totals the transactions dated within [start, end]. Both ends are
// inclusive; transactions with an invalid date are ignored.
func Summarize(txs []core.Transaction, start, end core.Date) core.SummaryPeriod {
	w := Window{Start: start, End: end}
	sp := core.SummaryPeriod{StartDate: start, EndDate: end}
	for _, tx := range txs {
		if !w.Contains(tx.Date) {
			continue
		}
		switch tx.Direction {
		case core.Credit:
			sp.TotalIncome = sp.TotalIncome.Add(tx.Amount)
		case core.Debit:
			sp.TotalExpense = sp.TotalExpense.Add(tx.Amount)
		default:
			continue
		}
		sp.TransactionCount++
	}
	sp.NetFlow = sp.TotalIncome.Sub(sp.TotalExpense)
	return sp
}

// WeeklySummary summarizes the Monday to Sunday week containing ref.
func WeeklySummary(txs []core.Transaction, ref time.Time) core.SummaryPeriod {
	w := WeekWindow(ref)
	sp := Summarize(txs, w.Start, w.End)
	sp.Kind = core.PeriodWeek
	return sp
}

// MonthlySummary summarizes the calendar month containing ref.
func MonthlySummary(txs []core.Transaction, ref time.Time) core.SummaryPeriod {
	w := MonthWindow(ref)
	sp := Summarize(txs, w.Start, w.End)
	sp.Kind = core.PeriodMonth
	return sp
}

func totals(txs []core.Transaction, w Window) (credit, debit core.Money) {
	sp := Summarize(txs, w.Start, w.End)
	return sp.TotalIncome, sp.TotalExpense
}
