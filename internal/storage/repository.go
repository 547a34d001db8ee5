package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spendwise/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db      *sql.DB
	path    string
	queries *Queries
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// single writer; batches are serialized by the connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	repo := &SQLiteRepository{
		db:      db,
		path:    dbPath,
		queries: New(db),
	}

	if err := repo.CreateTransactionsSchema(context.Background()); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Ping checks that the database is reachable.
func (r *SQLiteRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// CreateTransactionsSchema runs the embedded migrations. It is idempotent.
func (r *SQLiteRepository) CreateTransactionsSchema(ctx context.Context) error {
	if err := RunMigrations(r.path); err != nil {
		return &core.StoreError{Op: "create schema", Err: err}
	}
	slog.DebugContext(ctx, "Transactions schema ready", "db_path", r.path)
	return nil
}

// InsertIfAbsent inserts the batch in a single transaction, skipping rows
// whose source id already exists. It returns the number of new rows. On error
// nothing from the batch is persisted, so the whole batch can be retried.
func (r *SQLiteRepository) InsertIfAbsent(ctx context.Context, batch []core.Transaction) (int, error) {
	if len(batch) == 0 {
		return 0, nil
	}
	for _, t := range batch {
		if err := t.Validate(); err != nil {
			return 0, &core.StoreError{Op: "insert", Err: fmt.Errorf("transaction %q: %w", t.SourceID, err)}
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, &core.StoreError{Op: "insert", Err: fmt.Errorf("begin transaction: %w", err)}
	}
	defer tx.Rollback()

	q := r.queries.WithTx(tx)
	inserted := 0
	for _, t := range batch {
		n, err := q.InsertTransactionIgnore(ctx, toInsertParams(t))
		if err != nil {
			return 0, &core.StoreError{Op: "insert", Err: fmt.Errorf("insert transaction %q: %w", t.SourceID, err)}
		}
		inserted += int(n)
	}

	if err := tx.Commit(); err != nil {
		return 0, &core.StoreError{Op: "insert", Err: fmt.Errorf("commit transaction: %w", err)}
	}

	slog.InfoContext(ctx, "Transactions stored",
		"batch_size", len(batch),
		"inserted", inserted,
		"ignored", len(batch)-inserted)

	return inserted, nil
}

// ListAll returns every stored transaction, newest row first.
func (r *SQLiteRepository) ListAll(ctx context.Context) ([]core.Transaction, error) {
	rows, err := r.queries.ListTransactions(ctx)
	if err != nil {
		return nil, &core.StoreError{Op: "list", Err: err}
	}
	out := make([]core.Transaction, 0, len(rows))
	for _, row := range rows {
		out = append(out, fromRow(ctx, row))
	}
	return out, nil
}

// Get returns a single transaction by row id.
func (r *SQLiteRepository) Get(ctx context.Context, id int64) (core.Transaction, error) {
	row, err := r.queries.GetTransaction(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, &core.StoreError{Op: "get", Err: err}
	}
	return fromRow(ctx, row), nil
}

// UpdateCategory sets the category of one transaction. An empty category
// resets it to NULL.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id int64, category string) error {
	n, err := r.queries.UpdateTransactionCategory(ctx, UpdateTransactionCategoryParams{
		Category: nullString(category),
		ID:       id,
	})
	if err != nil {
		return &core.StoreError{Op: "update category", Err: err}
	}
	if n == 0 {
		return fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}

	slog.InfoContext(ctx, "Transaction category updated", "id", id, "category", category)
	return nil
}

// Count returns the number of stored transactions.
func (r *SQLiteRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.queries.CountTransactions(ctx)
	if err != nil {
		return 0, &core.StoreError{Op: "count", Err: err}
	}
	return n, nil
}

// Clear deletes every transaction and returns how many were removed.
func (r *SQLiteRepository) Clear(ctx context.Context) (int64, error) {
	n, err := r.queries.DeleteAllTransactions(ctx)
	if err != nil {
		return 0, &core.StoreError{Op: "clear", Err: err}
	}
	slog.InfoContext(ctx, "Transactions cleared", "deleted", n)
	return n, nil
}

func toInsertParams(t core.Transaction) InsertTransactionParams {
	return InsertTransactionParams{
		SourceID:    t.SourceID,
		Date:        t.Date.String(),
		AmountCents: t.Amount.Cents,
		Direction:   string(t.Direction),
		Description: nullString(t.Description),
		Category:    nullString(t.Category),
		Body:        t.Body,
		Sender:      t.Sender,
	}
}

// fromRow maps a stored row to a transaction. A date column that does not
// parse reads back as the invalid date.
func fromRow(ctx context.Context, row TransactionRow) core.Transaction {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		slog.WarnContext(ctx, "Unreadable transaction date", "id", row.ID, "date", row.Date)
	}
	return core.Transaction{
		ID:          row.ID,
		SourceID:    row.SourceID,
		Date:        date,
		Amount:      core.Money{Cents: row.AmountCents},
		Direction:   core.Direction(row.Direction),
		Description: row.Description.String,
		Category:    row.Category.String,
		Body:        row.Body,
		Sender:      row.Sender,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
