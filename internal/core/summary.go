package core

const (
	PeriodWeek  PeriodKind = "week"
	PeriodMonth PeriodKind = "month"
)

type PeriodKind string

// SummaryPeriod aggregates the transactions of one inclusive date window.
type SummaryPeriod struct {
	Kind             PeriodKind
	StartDate        Date
	EndDate          Date
	TotalIncome      Money
	TotalExpense     Money
	NetFlow          Money
	TransactionCount int
}

// WeekBudget is one row of a weekly budget table.
type WeekBudget struct {
	WeekStart         Date
	WeekEnd           Date
	WeeklyExpense     Money
	CumulativeExpense Money
	EstimatedBudget   Money
	RemainingBudget   Money
}

// BudgetAlert compares cumulative spending with the estimated budget.
type BudgetAlert struct {
	PeriodLabel       string
	CumulativeExpense Money
	EstimatedBudget   Money
	RemainingBudget   Money
	Exceeded          bool
	Message           string
}

// MonthRow is one row of the month-by-month table.
type MonthRow struct {
	Month         string // YYYY-MM
	Income        Money
	Expense       Money
	SpendingRatio float64 // percent
}

// CategoryTotal is the debit total of one category.
type CategoryTotal struct {
	Category string
	Total    Money
	Share    float64 // percent of all debits in the window
}
