package aggregate

import (
	"cmp"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

var percent = decimal.NewFromInt(100)

// CategoryBreakdown totals debits per category over the trailing months
// window ending with ref's month. Uncategorized debits count as Other.
// Rows are sorted by total descending, then by name.
func CategoryBreakdown(txs []core.Transaction, ref time.Time, months int) []core.CategoryTotal {
	w := TrailingMonths(ref, months)
	sums := make(map[string]core.Money)
	var all core.Money
	for _, tx := range txs {
		if tx.Direction != core.Debit || !w.Contains(tx.Date) {
			continue
		}
		cat := tx.EffectiveCategory()
		sums[cat] = sums[cat].Add(tx.Amount)
		all = all.Add(tx.Amount)
	}

	out := make([]core.CategoryTotal, 0, len(sums))
	for cat, total := range sums {
		out = append(out, core.CategoryTotal{
			Category: cat,
			Total:    total,
			Share:    ratioPercent(total, all),
		})
	}
	slices.SortFunc(out, func(a, b core.CategoryTotal) int {
		if c := cmp.Compare(b.Total.Cents, a.Total.Cents); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return out
}

// MonthlyTable groups transactions by calendar month. Months are returned in
// chronological order and truncated to the most recent limit months; a
// non-positive limit keeps every month.
func MonthlyTable(txs []core.Transaction, limit int) []core.MonthRow {
	rows := make(map[string]*core.MonthRow)
	for _, tx := range txs {
		if !tx.Date.Valid() {
			continue
		}
		key := tx.Date.MonthKey()
		row, ok := rows[key]
		if !ok {
			row = &core.MonthRow{Month: key}
			rows[key] = row
		}
		switch tx.Direction {
		case core.Credit:
			row.Income = row.Income.Add(tx.Amount)
		case core.Debit:
			row.Expense = row.Expense.Add(tx.Amount)
		}
	}

	out := make([]core.MonthRow, 0, len(rows))
	for _, row := range rows {
		row.SpendingRatio = ratioPercent(row.Expense, row.Income)
		out = append(out, *row)
	}
	slices.SortFunc(out, func(a, b core.MonthRow) int {
		return cmp.Compare(a.Month, b.Month)
	})
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// ratioPercent returns part/whole as a percentage rounded to two decimals,
// or 0 when whole is not positive.
func ratioPercent(part, whole core.Money) float64 {
	if whole.Cents <= 0 {
		return 0
	}
	return part.Decimal().Div(whole.Decimal()).Mul(percent).Round(2).InexactFloat64()
}
