package storage

import (
	"context"
	"database/sql"
	"time"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

type Entry struct {
	Key   string
	Value string
}

const getEntry = `-- name: GetEntry :one
SELECT key, value FROM kv WHERE key = ?
`

func (q *Queries) GetEntry(ctx context.Context, key string) (Entry, error) {
	row := q.db.QueryRowContext(ctx, getEntry, key)
	var i Entry
	err := row.Scan(&i.Key, &i.Value)
	return i, err
}

const upsertEntry = `-- name: UpsertEntry :exec
INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
`

type UpsertEntryParams struct {
	Key       string
	Value     string
	UpdatedAt time.Time
}

func (q *Queries) UpsertEntry(ctx context.Context, arg UpsertEntryParams) error {
	_, err := q.db.ExecContext(ctx, upsertEntry, arg.Key, arg.Value, arg.UpdatedAt)
	return err
}

const deleteEntry = `-- name: DeleteEntry :exec
DELETE FROM kv WHERE key = ?
`

func (q *Queries) DeleteEntry(ctx context.Context, key string) error {
	_, err := q.db.ExecContext(ctx, deleteEntry, key)
	return err
}
