// Package db provides shared database helpers for the Postgres store.
package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

// Pool is the subset of pgxpool.Pool the store depends on. pgxmock's
// PgxPoolIface satisfies it, which keeps the store testable without a
// live database.
type Pool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
	Ping(ctx context.Context) error
	Close()
}

// CopyFrom bulk-inserts rows into a table using PostgreSQL COPY protocol.
func CopyFrom(ctx context.Context, pool Pool, table string, columns []string, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	copySource := pgx.CopyFromRows(rows)
	n, err := pool.CopyFrom(ctx, pgx.Identifier{table}, columns, copySource)
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}

	return n, nil
}

// ReplaceAll deletes every row owned by keyValue and bulk-inserts the
// newly derived set. An empty set still deletes, so a record whose
// derived rows vanished between passes ends up with zero rows rather
// than stale leftovers.
func ReplaceAll(ctx context.Context, pool Pool, table, keyColumn string, keyValue any, columns []string, rows [][]any) error {
	delSQL := "DELETE FROM " + pgx.Identifier{table}.Sanitize() +
		" WHERE " + pgx.Identifier{keyColumn}.Sanitize() + " = $1"
	if _, err := pool.Exec(ctx, delSQL, keyValue); err != nil {
		return eris.Wrapf(err, "db: delete from %s", table)
	}
	if _, err := CopyFrom(ctx, pool, table, columns, rows); err != nil {
		return err
	}
	return nil
}
