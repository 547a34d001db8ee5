package sms

import (
	"errors"

	"spendwise/internal/core"
)

// Categorizer assigns a category label from a message body and description.
type Categorizer interface {
	Categorize(body, description string) string
}

// Result is the outcome of processing a batch of raw messages.
type Result struct {
	Transactions []core.Transaction
	Received     int
	Skipped      int // not transaction messages
	Unparsed     int // transaction messages without amount or direction
}

// Process runs classify, extract and categorize over raws and keeps the
// messages that yield a complete transaction. A nil categorizer leaves
// categories empty. Duplicate source ids within the batch are collapsed.
func Process(raws []core.RawMessage, ex *Extractor, cat Categorizer) Result {
	res := Result{Received: len(raws)}
	seen := make(map[string]struct{}, len(raws))
	for _, raw := range raws {
		tx, err := ex.Extract(raw)
		switch {
		case errors.Is(err, ErrNotTransaction):
			res.Skipped++
			continue
		case err != nil:
			res.Unparsed++
			continue
		}
		if _, dup := seen[tx.SourceID]; dup {
			continue
		}
		seen[tx.SourceID] = struct{}{}
		if cat != nil {
			tx.Category = cat.Categorize(tx.Body, tx.Description)
		}
		res.Transactions = append(res.Transactions, tx)
	}
	return res
}
