package backend

import (
	"context"

	"spendwise/internal/core"
)

// TransactionStore is the persistence port for extracted transactions.
type TransactionStore interface {
	// CreateTransactionsSchema prepares storage. Safe to call repeatedly.
	CreateTransactionsSchema(ctx context.Context) error

	// InsertIfAbsent stores the rows whose source id is new and returns how
	// many were inserted. A failed batch stores nothing.
	InsertIfAbsent(ctx context.Context, batch []core.Transaction) (int, error)

	// ListAll returns every stored row in no particular order.
	ListAll(ctx context.Context) ([]core.Transaction, error)

	// Get returns one row or an error wrapping core.ErrNotFound.
	Get(ctx context.Context, id int64) (core.Transaction, error)

	// UpdateCategory sets the category of one row. "" resets it to null.
	UpdateCategory(ctx context.Context, id int64, category string) error

	Count(ctx context.Context) (int64, error)
	Clear(ctx context.Context) (int64, error)
	Ping(ctx context.Context) error
}

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult contains the store instance and optional cleanup function
type BackendResult struct {
	Store   TransactionStore
	Cleanup CleanupFunc
}

// Factory creates stores based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for store creation
type Config struct {
	Type BackendType

	// SQLite specific
	SQLiteDBPath string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
