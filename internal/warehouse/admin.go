package warehouse

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Outcome records the result of one best-effort administrative statement, so
// callers can inspect what happened without parsing logs.
type Outcome struct {
	Op  string
	Err error
}

// OK reports whether the operation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Failed returns the subset of outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if !o.OK() {
			out = append(out, o)
		}
	}
	return out
}

// TruncateTolerant truncates each table (CASCADE), one statement per
// transaction, and never fails the caller: a missing table is expected on a
// partially-initialized schema and any other failure is logged. The per-table
// outcomes are returned.
func (db *DB) TruncateTolerant(ctx context.Context, tables ...string) []Outcome {
	return truncateEach(ctx, db.Pool, db.Log, db.Schema, tables, true)
}

// TruncateStrict truncates each table (CASCADE) and stops at the first
// failure. Used for fact tables, where a stale partial load must never
// survive into a new run.
func (db *DB) TruncateStrict(ctx context.Context, tables ...string) error {
	for _, o := range truncateEach(ctx, db.Pool, db.Log, db.Schema, tables, false) {
		if !o.OK() {
			return fmt.Errorf("%s: %w", o.Op, o.Err)
		}
	}
	return nil
}

func truncateEach(ctx context.Context, ex Execer, log *logrus.Logger, schema string, tables []string, tolerant bool) []Outcome {
	outcomes := make([]Outcome, 0, len(tables))
	for _, table := range tables {
		op := "truncate " + table
		stmt := fmt.Sprintf("TRUNCATE TABLE %s.%s CASCADE", pgIdent(schema), pgIdent(table))
		_, err := ex.Exec(ctx, stmt)
		switch {
		case err == nil:
			log.WithField("table", table).Debug("truncated")
		case tolerant && isUndefinedObject(err):
			log.WithField("table", table).Debug("truncate skipped, table does not exist")
		case tolerant:
			log.WithField("table", table).WithError(err).Warn("could not truncate")
		default:
			log.WithField("table", table).WithError(err).Error("truncate failed")
		}
		outcomes = append(outcomes, Outcome{Op: op, Err: err})
		if err != nil && !tolerant {
			break
		}
	}
	return outcomes
}
