// Package aggregate derives period summaries, budgets and reports from a
// snapshot of transactions.
//
// Every function is pure. Callers pass the reference time explicitly so the
// results are reproducible.
package aggregate

import (
	"time"

	"spendwise/internal/core"
)

// Window is an inclusive range of calendar dates.
type Window struct {
	Start core.Date
	End   core.Date
}

// Contains reports whether d falls inside the window. Invalid dates are
// never contained.
func (w Window) Contains(d core.Date) bool {
	if !d.Valid() {
		return false
	}
	return d.Compare(w.Start) >= 0 && d.Compare(w.End) <= 0
}

// WeekStart returns the Monday on or before d.
func WeekStart(d core.Date) core.Date {
	offset := (int(d.Weekday()) + 6) % 7 // Monday = 0
	return d.AddDays(-offset)
}

// WeekWindow returns the Monday to Sunday week containing ref.
func WeekWindow(ref time.Time) Window {
	start := WeekStart(core.DateOf(ref))
	return Window{Start: start, End: start.AddDays(6)}
}

// MonthWindow returns the first to last calendar day of ref's month.
func MonthWindow(ref time.Time) Window {
	start := core.NewDate(ref.Year(), int(ref.Month()), 1)
	return Window{Start: start, End: core.Date{Time: start.AddDate(0, 1, -1)}}
}

// TrailingMonths returns the window from the first day of the month n-1
// months before ref's month through the end of ref's month. n < 1 means 1.
func TrailingMonths(ref time.Time, n int) Window {
	if n < 1 {
		n = 1
	}
	current := MonthWindow(ref)
	return Window{
		Start: core.Date{Time: current.Start.AddDate(0, -(n - 1), 0)},
		End:   current.End,
	}
}
