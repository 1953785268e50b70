// Package db bulk-loads tables into Postgres.
package db

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
)

// Beginner opens transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Execer runs statements and COPY loads. pgx.Tx satisfies it.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error)
}

// InTx runs fn in one transaction, committing only if fn returns nil.
func InTx(ctx context.Context, conn Beginner, fn func(tx pgx.Tx) error) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return eris.Wrap(err, "db: begin tx")
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(tx); err != nil {
		return err
	}
	return eris.Wrap(tx.Commit(ctx), "db: commit tx")
}

// ReplaceTable drops table, recreates it with one text column per entry in
// columns, and loads rows with the COPY protocol. Run it inside InTx so the
// swap is atomic.
func ReplaceTable(ctx context.Context, tx Execer, table string, columns []string, rows [][]any) (int64, error) {
	if len(columns) == 0 {
		return 0, eris.Errorf("db: replace %s: no columns specified", table)
	}
	for _, c := range columns {
		if strings.TrimSpace(c) == "" {
			return 0, eris.Errorf("db: replace %s: blank column name", table)
		}
	}

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{table}.Sanitize()); err != nil {
		return 0, eris.Wrapf(err, "db: drop %s", table)
	}
	if _, err := tx.Exec(ctx, createTableSQL(table, columns)); err != nil {
		return 0, eris.Wrapf(err, "db: create %s", table)
	}

	if len(rows) == 0 {
		return 0, nil
	}
	n, err := tx.CopyFrom(ctx, pgx.Identifier{table}, columns, pgx.CopyFromRows(rows))
	if err != nil {
		return 0, eris.Wrapf(err, "db: COPY INTO %s", table)
	}
	return n, nil
}

func createTableSQL(table string, columns []string) string {
	defs := make([]string, len(columns))
	for i, c := range columns {
		defs[i] = pgx.Identifier{c}.Sanitize() + " text"
	}
	return "CREATE TABLE " + pgx.Identifier{table}.Sanitize() + " (" + strings.Join(defs, ", ") + ")"
}
