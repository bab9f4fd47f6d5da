package warehouse

import (
	"context"
	"errors"
	"testing"
)

// TestSplitStatements verifies comment stripping and statement splitting.
func TestSplitStatements(t *testing.T) {
	t.Parallel()

	src := `-- warehouse schema
CREATE SCHEMA IF NOT EXISTS ipl_analytics;

-- dimensions
CREATE TABLE ipl_analytics.dim_date (
    date_id INT PRIMARY KEY,
    full_date DATE NOT NULL
);
CREATE INDEX idx_dim_date ON ipl_analytics.dim_date (full_date);
`
	stmts := SplitStatements(src)
	if len(stmts) != 3 {
		t.Fatalf("statements = %d, want 3: %q", len(stmts), stmts)
	}
	if stmts[0] != "CREATE SCHEMA IF NOT EXISTS ipl_analytics" {
		t.Fatalf("first statement = %q", stmts[0])
	}
	for _, s := range stmts {
		if len(s) == 0 || s[len(s)-1] == ';' {
			t.Fatalf("statement not trimmed: %q", s)
		}
	}
}

// TestSplitStatements_Empty verifies comment-only input yields nothing.
func TestSplitStatements_Empty(t *testing.T) {
	t.Parallel()

	if stmts := SplitStatements("-- nothing here\n\n"); len(stmts) != 0 {
		t.Fatalf("statements = %q, want none", stmts)
	}
}

// TestExecStatements_BestEffort verifies failures are counted but never stop
// the run.
func TestExecStatements_BestEffort(t *testing.T) {
	t.Parallel()

	ex := &fakeExecer{failOn: "dim_date", err: errors.New(`relation "dim_date" already exists`)}
	succeeded, failed := ExecStatements(context.Background(), ex, testLogger(), []string{
		"CREATE SCHEMA s",
		"CREATE TABLE s.dim_date (d INT)",
		"CREATE TABLE s.dim_player (p INT)",
	})
	if succeeded != 2 || failed != 1 {
		t.Fatalf("succeeded/failed = %d/%d, want 2/1", succeeded, failed)
	}
	if len(ex.stmts) != 3 {
		t.Fatalf("executed = %d, want all 3", len(ex.stmts))
	}
}
