package aggregate

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"spendwise/internal/core"
)

const (
	// DefaultRollingWeeks is used when a non-positive week count is requested.
	DefaultRollingWeeks = 4

	exceededNotice = " ⚠️ You have exceeded your estimated monthly budget! Please adjust spending."
)

// DefaultSpendingRatio applies when there is no earlier month to learn from.
var DefaultSpendingRatio = decimal.RequireFromString("0.8")

var oneRupee = decimal.NewFromInt(1)

// Rolling is a budget over the last N weeks.
type Rolling struct {
	Weeks            []core.WeekBudget // earliest first
	TotalIncome      core.Money
	TotalExpense     core.Money
	FirstWeekIncome  core.Money
	AvgSpendingRatio float64
	EstimatedBudget  core.Money
}

// RollingBudget computes weekly and cumulative expense over the n weeks
// ending with the week containing ref. The estimated budget is the first
// week's income scaled by the window's debit/credit ratio and is the same
// for every week.
func RollingBudget(txs []core.Transaction, ref time.Time, n int) Rolling {
	if n <= 0 {
		n = DefaultRollingWeeks
	}
	current := WeekWindow(ref).Start

	windows := make([]Window, n)
	for i := range windows {
		start := current.AddDays(-7 * (n - 1 - i))
		windows[i] = Window{Start: start, End: start.AddDays(6)}
	}

	var r Rolling
	expenses := make([]core.Money, n)
	for i, w := range windows {
		credit, debit := totals(txs, w)
		expenses[i] = debit
		r.TotalIncome = r.TotalIncome.Add(credit)
		r.TotalExpense = r.TotalExpense.Add(debit)
		if i == 0 {
			r.FirstWeekIncome = credit
		}
	}

	ratio := r.TotalExpense.Decimal().Div(decimal.Max(r.TotalIncome.Decimal(), oneRupee))
	r.AvgSpendingRatio = ratio.Round(4).InexactFloat64()
	r.EstimatedBudget = core.MoneyFromDecimal(r.FirstWeekIncome.Decimal().Mul(ratio))

	var cumulative core.Money
	r.Weeks = make([]core.WeekBudget, n)
	for i, w := range windows {
		cumulative = cumulative.Add(expenses[i])
		r.Weeks[i] = core.WeekBudget{
			WeekStart:         w.Start,
			WeekEnd:           w.End,
			WeeklyExpense:     expenses[i],
			CumulativeExpense: cumulative,
			EstimatedBudget:   r.EstimatedBudget,
			RemainingBudget:   r.EstimatedBudget.Sub(cumulative),
		}
	}
	return r
}

// MonthBudget is the weekly breakdown of the current month with alerts.
type MonthBudget struct {
	Month            string // YYYY-MM
	AvgSpendingRatio float64
	FirstWeekIncome  core.Money
	EstimatedBudget  core.Money
	Weeks            []core.WeekBudget
	Alerts           []core.BudgetAlert
}

// CurrentMonthBudget breaks ref's month into Monday-based weeks that have
// transactions and raises one alert per week.
//
// The spending ratio is the mean debit/credit ratio of the months before
// ref's month that have both income and debits, or DefaultSpendingRatio
// when there are none.
// First week income covers the earliest transaction date of the month and
// the six days after it.
func CurrentMonthBudget(txs []core.Transaction, ref time.Time) MonthBudget {
	month := MonthWindow(ref)
	mb := MonthBudget{Month: month.Start.MonthKey()}

	ratio := pastSpendingRatio(txs, month.Start)
	mb.AvgSpendingRatio = ratio.Round(4).InexactFloat64()

	var current []core.Transaction
	for _, tx := range txs {
		if month.Contains(tx.Date) {
			current = append(current, tx)
		}
	}
	if len(current) == 0 {
		return mb
	}

	first := current[0].Date
	for _, tx := range current[1:] {
		if tx.Date.Compare(first) < 0 {
			first = tx.Date
		}
	}
	mb.FirstWeekIncome, _ = totals(current, Window{Start: first, End: first.AddDays(6)})
	mb.EstimatedBudget = core.MoneyFromDecimal(mb.FirstWeekIncome.Decimal().Mul(ratio))

	weekly := make(map[string]core.Money)
	starts := make(map[string]core.Date)
	for _, tx := range current {
		ws := WeekStart(tx.Date)
		key := ws.String()
		starts[key] = ws
		if tx.Direction == core.Debit {
			weekly[key] = weekly[key].Add(tx.Amount)
		}
	}
	keys := make([]string, 0, len(starts))
	for k := range starts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var cumulative core.Money
	for _, k := range keys {
		ws := starts[k]
		cumulative = cumulative.Add(weekly[k])
		wb := core.WeekBudget{
			WeekStart:         ws,
			WeekEnd:           ws.AddDays(6),
			WeeklyExpense:     weekly[k],
			CumulativeExpense: cumulative,
			EstimatedBudget:   mb.EstimatedBudget,
			RemainingBudget:   mb.EstimatedBudget.Sub(cumulative),
		}
		mb.Weeks = append(mb.Weeks, wb)
		mb.Alerts = append(mb.Alerts, weekAlert(wb, mb.Month, mb.FirstWeekIncome))
	}
	return mb
}

func weekAlert(wb core.WeekBudget, month string, firstWeekIncome core.Money) core.BudgetAlert {
	label := fmt.Sprintf("%s - %s", wb.WeekStart, wb.WeekEnd)
	msg := fmt.Sprintf("Week %s (Month: %s): Weekly expenditure ₹%s, Estimated monthly budget ₹%s (first week income ₹%s), Remaining budget ₹%s",
		label, month, wb.WeeklyExpense, wb.EstimatedBudget, firstWeekIncome, wb.RemainingBudget)
	exceeded := wb.RemainingBudget.IsNegative()
	if exceeded {
		msg += exceededNotice
	}
	return core.BudgetAlert{
		PeriodLabel:       label,
		CumulativeExpense: wb.CumulativeExpense,
		EstimatedBudget:   wb.EstimatedBudget,
		RemainingBudget:   wb.RemainingBudget,
		Exceeded:          exceeded,
		Message:           msg,
	}
}

// pastSpendingRatio averages expense/income over the months before
// monthStart. Only months with both income and at least one debit count.
func pastSpendingRatio(txs []core.Transaction, monthStart core.Date) decimal.Decimal {
	type flow struct {
		income, expense core.Money
		debits          int
	}
	months := make(map[string]*flow)
	for _, tx := range txs {
		if !tx.Date.Valid() || tx.Date.Compare(monthStart) >= 0 {
			continue
		}
		key := tx.Date.MonthKey()
		f, ok := months[key]
		if !ok {
			f = &flow{}
			months[key] = f
		}
		switch tx.Direction {
		case core.Credit:
			f.income = f.income.Add(tx.Amount)
		case core.Debit:
			f.expense = f.expense.Add(tx.Amount)
			f.debits++
		}
	}

	var ratios []decimal.Decimal
	for _, f := range months {
		if f.income.Cents <= 0 || f.debits == 0 {
			continue
		}
		ratios = append(ratios, f.expense.Decimal().Div(f.income.Decimal()))
	}
	if len(ratios) == 0 {
		return DefaultSpendingRatio
	}
	return decimal.Avg(ratios[0], ratios[1:]...)
}
