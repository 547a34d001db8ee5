package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spendwise/internal/aggregate"
	"spendwise/internal/backend"
	"spendwise/internal/core"
)

// TransactionService serves the stored rows and user corrections.
type TransactionService struct {
	store    backend.TransactionStore
	onChange []func()
}

func NewTransactionService(store backend.TransactionStore) *TransactionService {
	return &TransactionService{store: store}
}

// OnChange registers fn to be called after a category changes.
func (s *TransactionService) OnChange(fn func()) {
	s.onChange = append(s.onChange, fn)
}

// List returns every transaction, newest first.
func (s *TransactionService) List(ctx context.Context) ([]core.Transaction, error) {
	txs, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return aggregate.SortNewestFirst(txs), nil
}

func (s *TransactionService) Get(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.Get(ctx, id)
}

// SetCategory applies an explicit user correction. A blank category resets
// the row to uncategorized.
func (s *TransactionService) SetCategory(ctx context.Context, id int64, category string) (core.Transaction, error) {
	category = strings.TrimSpace(category)
	if err := s.store.UpdateCategory(ctx, id, category); err != nil {
		return core.Transaction{}, err
	}
	slog.InfoContext(ctx, "Category corrected", "id", id, "category", category)

	for _, fn := range s.onChange {
		fn()
	}
	return s.store.Get(ctx, id)
}

// ResetCategory clears the category so the row is picked up again by
// categorization.
func (s *TransactionService) ResetCategory(ctx context.Context, id int64) (core.Transaction, error) {
	return s.SetCategory(ctx, id, "")
}
