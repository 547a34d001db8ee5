package storage

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// TransactionRow mirrors a row of the transactions table.
type TransactionRow struct {
	ID          int64
	SourceID    string
	Date        string
	AmountCents int64
	Direction   string
	Description sql.NullString
	Category    sql.NullString
	Body        string
	Sender      string
}

const insertTransactionIgnore = `-- name: InsertTransactionIgnore :execrows
INSERT OR IGNORE INTO transactions (source_id, date, amount_cents, direction, description, category, body, sender)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`

type InsertTransactionParams struct {
	SourceID    string
	Date        string
	AmountCents int64
	Direction   string
	Description sql.NullString
	Category    sql.NullString
	Body        string
	Sender      string
}

func (q *Queries) InsertTransactionIgnore(ctx context.Context, arg InsertTransactionParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, insertTransactionIgnore,
		arg.SourceID,
		arg.Date,
		arg.AmountCents,
		arg.Direction,
		arg.Description,
		arg.Category,
		arg.Body,
		arg.Sender,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const listTransactions = `-- name: ListTransactions :many
SELECT id, source_id, date, amount_cents, direction, description, category, body, sender
FROM transactions
ORDER BY id DESC
`

func (q *Queries) ListTransactions(ctx context.Context) ([]TransactionRow, error) {
	rows, err := q.db.QueryContext(ctx, listTransactions)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []TransactionRow
	for rows.Next() {
		var i TransactionRow
		if err := rows.Scan(
			&i.ID,
			&i.SourceID,
			&i.Date,
			&i.AmountCents,
			&i.Direction,
			&i.Description,
			&i.Category,
			&i.Body,
			&i.Sender,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getTransaction = `-- name: GetTransaction :one
SELECT id, source_id, date, amount_cents, direction, description, category, body, sender
FROM transactions
WHERE id = ?
`

func (q *Queries) GetTransaction(ctx context.Context, id int64) (TransactionRow, error) {
	row := q.db.QueryRowContext(ctx, getTransaction, id)
	var i TransactionRow
	err := row.Scan(
		&i.ID,
		&i.SourceID,
		&i.Date,
		&i.AmountCents,
		&i.Direction,
		&i.Description,
		&i.Category,
		&i.Body,
		&i.Sender,
	)
	return i, err
}

const updateTransactionCategory = `-- name: UpdateTransactionCategory :execrows
UPDATE transactions SET category = ? WHERE id = ?
`

type UpdateTransactionCategoryParams struct {
	Category sql.NullString
	ID       int64
}

func (q *Queries) UpdateTransactionCategory(ctx context.Context, arg UpdateTransactionCategoryParams) (int64, error) {
	result, err := q.db.ExecContext(ctx, updateTransactionCategory, arg.Category, arg.ID)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

const countTransactions = `-- name: CountTransactions :one
SELECT COUNT(*) FROM transactions
`

func (q *Queries) CountTransactions(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countTransactions)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const deleteAllTransactions = `-- name: DeleteAllTransactions :execrows
DELETE FROM transactions
`

func (q *Queries) DeleteAllTransactions(ctx context.Context) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAllTransactions)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
