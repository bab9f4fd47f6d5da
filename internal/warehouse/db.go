// Package warehouse wraps Postgres connectivity for the dimensional
// warehouse: a pgx pool scoped to one schema, COPY-based bulk inserts, a
// batched loader, tolerant administrative statements, and the mart refresh.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

// Execer is the minimal statement-execution surface used by administrative
// helpers. *pgxpool.Pool satisfies it; tests substitute fakes.
type Execer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// DB is a warehouse connection scoped to a single schema.
type DB struct {
	Pool   *pgxpool.Pool
	Schema string
	Log    *logrus.Logger
}

// Open connects a pool and returns the DB plus a close function for cleanup.
func Open(ctx context.Context, dsn, schema string, log *logrus.Logger) (*DB, func(), error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping warehouse: %w", err)
	}
	db := &DB{Pool: pool, Schema: schema, Log: log}
	return db, pool.Close, nil
}

// CopyRows bulk-inserts rows (aligned to columns order) into the named table
// within the warehouse schema using COPY.
func (db *DB) CopyRows(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	return db.Pool.CopyFrom(ctx,
		pgx.Identifier{db.Schema, table},
		columns,
		pgx.CopyFromRows(rows),
	)
}

// Exec runs a single statement against the pool.
func (db *DB) Exec(ctx context.Context, sql string) error {
	_, err := db.Pool.Exec(ctx, sql)
	return err
}

// Table returns the quoted, schema-qualified name for SQL text.
func (db *DB) Table(name string) string {
	return pgIdent(db.Schema) + "." + pgIdent(name)
}

// Ident safely quotes a single identifier segment for Postgres.
func Ident(id string) string { return pgIdent(id) }

// pgIdent safely quotes a single identifier segment for Postgres.
func pgIdent(id string) string { return `"` + strings.ReplaceAll(id, `"`, `""`) + `"` }

// isUndefinedObject reports whether err is Postgres undefined_table /
// undefined_object, i.e. "does not exist".
func isUndefinedObject(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case "42P01", "42704", "3F000":
		return true
	}
	return false
}
