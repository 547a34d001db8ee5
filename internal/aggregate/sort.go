package aggregate

import (
	"cmp"
	"slices"

	"spendwise/internal/core"
)

// SortNewestFirst returns a copy of txs ordered by date descending, then by
// row id descending. Transactions with an invalid date come last.
func SortNewestFirst(txs []core.Transaction) []core.Transaction {
	out := slices.Clone(txs)
	slices.SortStableFunc(out, func(a, b core.Transaction) int {
		if c := b.Date.Compare(a.Date); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
	return out
}
