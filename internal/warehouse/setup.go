package warehouse

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

// SplitStatements turns a DDL script into individual statements: line
// comments and blank lines are stripped, then the remainder splits on ';'.
// Dollar-quoted bodies are not supported; the warehouse DDL does not use
// them.
func SplitStatements(src string) []string {
	var kept []string
	for _, line := range strings.Split(src, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "--") {
			continue
		}
		kept = append(kept, line)
	}

	var stmts []string
	for _, s := range strings.Split(strings.Join(kept, " "), ";") {
		s = strings.TrimSpace(s)
		if s != "" {
			stmts = append(stmts, s)
		}
	}
	return stmts
}

// ExecStatements runs each statement best-effort and returns the success and
// failure counts. "Already exists" and "does not exist" failures are expected
// on re-runs of idempotent DDL and are logged at debug level only.
func ExecStatements(ctx context.Context, ex Execer, log *logrus.Logger, stmts []string) (succeeded, failed int) {
	for _, stmt := range stmts {
		_, err := ex.Exec(ctx, stmt)
		if err == nil {
			succeeded++
			continue
		}
		failed++
		msg := strings.ToLower(err.Error())
		if strings.Contains(msg, "already exists") || strings.Contains(msg, "does not exist") {
			log.WithError(err).Debug("statement skipped")
		} else {
			log.WithError(err).WithField("statement", truncate(stmt, 100)).Warn("statement failed")
		}
	}
	return succeeded, failed
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// ListObjects returns the warehouse's dimension tables, fact tables, and
// materialized views, each sorted by name. Used to verify a schema setup.
func (db *DB) ListObjects(ctx context.Context) (dims, facts, marts []string, err error) {
	tableQuery := `
		SELECT table_name FROM information_schema.tables
		WHERE table_schema = $1 AND table_name LIKE $2
		ORDER BY table_name`

	dims, err = db.queryNames(ctx, tableQuery, db.Schema, "dim\\_%")
	if err != nil {
		return nil, nil, nil, err
	}
	facts, err = db.queryNames(ctx, tableQuery, db.Schema, "fact\\_%")
	if err != nil {
		return nil, nil, nil, err
	}
	marts, err = db.queryNames(ctx, `
		SELECT matviewname FROM pg_matviews
		WHERE schemaname = $1
		ORDER BY matviewname`, db.Schema)
	if err != nil {
		return nil, nil, nil, err
	}
	return dims, facts, marts, nil
}

func (db *DB) queryNames(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}
