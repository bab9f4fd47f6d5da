package quality

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// fakeRow returns a fixed scalar or error.
type fakeRow struct {
	n   int64
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*int64)) = r.n
	return nil
}

// fakeQuerier delegates scalar queries to fn.
type fakeQuerier struct {
	fn func(sql string) (int64, error)
}

func (f *fakeQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	n, err := f.fn(sql)
	return fakeRow{n: n, err: err}
}

// healthy answers like a loaded, consistent warehouse: non-zero table counts,
// zero anomaly counts.
func healthy(sql string) (int64, error) {
	if strings.Contains(sql, "WHERE") || strings.Contains(sql, "LEFT JOIN") || strings.Contains(sql, "ABS(") {
		return 0, nil
	}
	return 1000, nil
}

// TestRun_AllClean verifies every check passes against a healthy warehouse.
func TestRun_AllClean(t *testing.T) {
	t.Parallel()

	v := &Validator{Q: &fakeQuerier{fn: healthy}, Schema: "ipl_analytics", Log: testLogger()}
	results, pass := v.Run(context.Background())
	if !pass {
		t.Fatalf("pass = false, want true: %+v", results)
	}
	if len(results) != 5 {
		t.Fatalf("results = %d, want 5", len(results))
	}
	wantOrder := []string{"row_counts", "null_values", "referential_integrity", "data_ranges", "aggregations"}
	for i, name := range wantOrder {
		if results[i].Name != name {
			t.Fatalf("result %d = %s, want %s", i, results[i].Name, name)
		}
		if !results[i].OK() || results[i].Warn {
			t.Fatalf("check %s = %+v, want clean pass", name, results[i])
		}
	}
}

// TestRun_WarningsStillPass verifies suspicious data warns without failing
// the run.
func TestRun_WarningsStillPass(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{fn: func(sql string) (int64, error) {
		if strings.Contains(sql, "batter_id IS NULL") && !strings.Contains(sql, "LEFT JOIN") {
			return 12, nil
		}
		return healthy(sql)
	}}
	v := &Validator{Q: q, Schema: "ipl_analytics", Log: testLogger()}

	results, pass := v.Run(context.Background())
	if !pass {
		t.Fatalf("pass = false, want true with warnings")
	}
	var nulls Result
	for _, r := range results {
		if r.Name == "null_values" {
			nulls = r
		}
	}
	if !nulls.Warn {
		t.Fatalf("null_values = %+v, want warning", nulls)
	}
	if !strings.Contains(nulls.Detail, "12 null batters") {
		t.Fatalf("detail = %q", nulls.Detail)
	}
}

// TestRun_AggregationDriftWithinTolerance verifies small drift passes and
// large drift warns.
func TestRun_AggregationDriftWithinTolerance(t *testing.T) {
	t.Parallel()

	run := func(diff int64) Result {
		q := &fakeQuerier{fn: func(sql string) (int64, error) {
			if strings.Contains(sql, "ABS(") {
				return diff, nil
			}
			return healthy(sql)
		}}
		v := &Validator{Q: q, Schema: "ipl_analytics", Log: testLogger()}
		results, _ := v.Run(context.Background())
		return results[4]
	}

	if r := run(99); r.Warn || !r.OK() {
		t.Fatalf("diff 99 = %+v, want clean pass", r)
	}
	if r := run(101); !r.Warn {
		t.Fatalf("diff 101 = %+v, want warning", r)
	}
}

// TestRun_QueryErrorFails verifies a check that cannot execute fails the run
// while the others still report.
func TestRun_QueryErrorFails(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{fn: func(sql string) (int64, error) {
		if strings.Contains(sql, "LEFT JOIN") {
			return 0, errors.New("relation does not exist")
		}
		return healthy(sql)
	}}
	v := &Validator{Q: q, Schema: "ipl_analytics", Log: testLogger()}

	results, pass := v.Run(context.Background())
	if pass {
		t.Fatalf("pass = true, want false")
	}
	var failed, ok int
	for _, r := range results {
		if r.OK() {
			ok++
		} else {
			failed++
		}
	}
	if failed != 1 || ok != 4 {
		t.Fatalf("failed = %d ok = %d, want 1/4", failed, ok)
	}
}
