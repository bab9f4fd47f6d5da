// Package quality runs advisory data-quality checks against a loaded
// warehouse: row counts, null foreign keys, referential integrity, value
// ranges, and aggregate consistency.
//
// Checks are read-only and independent, so they run concurrently. A check
// that finds suspicious data reports a warning and still passes; only a check
// that cannot execute fails.
package quality

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Querier is the single-row query surface the checks need. *pgxpool.Pool
// satisfies it.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Result is the outcome of one named check.
type Result struct {
	Name   string
	Detail string
	Warn   bool
	Err    error
}

// OK reports whether the check executed.
func (r Result) OK() bool { return r.Err == nil }

// Validator runs the checks against one schema.
type Validator struct {
	Q      Querier
	Schema string
	Log    *logrus.Logger
}

// Run executes every check and returns the results in a fixed order plus an
// overall pass flag. Warnings do not fail the run.
func (v *Validator) Run(ctx context.Context) ([]Result, bool) {
	v.Log.Info("running data quality validation")

	checks := []struct {
		name string
		fn   func(context.Context) (string, bool, error)
	}{
		{"row_counts", v.checkRowCounts},
		{"null_values", v.checkNullValues},
		{"referential_integrity", v.checkReferentialIntegrity},
		{"data_ranges", v.checkDataRanges},
		{"aggregations", v.checkAggregations},
	}

	results := make([]Result, len(checks))
	g, gctx := errgroup.WithContext(ctx)
	for i, c := range checks {
		i, c := i, c
		g.Go(func() error {
			detail, warn, err := c.fn(gctx)
			results[i] = Result{Name: c.name, Detail: detail, Warn: warn, Err: err}
			return nil
		})
	}
	g.Wait()

	pass := true
	for _, r := range results {
		entry := v.Log.WithField("check", r.Name)
		switch {
		case r.Err != nil:
			pass = false
			entry.WithError(r.Err).Error("check failed")
		case r.Warn:
			entry.WithField("detail", r.Detail).Warn("check passed with warnings")
		default:
			entry.WithField("detail", r.Detail).Info("check passed")
		}
	}
	v.Log.WithField("pass", pass).Info("validation summary")
	return results, pass
}

func (v *Validator) scalar(ctx context.Context, query string, args ...any) (int64, error) {
	var n int64
	if err := v.Q.QueryRow(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (v *Validator) checkRowCounts(ctx context.Context) (string, bool, error) {
	counts := map[string]int64{}
	for _, table := range []string{
		"dim_player", "dim_team", "dim_venue",
		"fact_ball_delivery", "fact_match_summary",
	} {
		n, err := v.scalar(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s.%s", v.Schema, table))
		if err != nil {
			return "", false, fmt.Errorf("count %s: %w", table, err)
		}
		counts[table] = n
	}
	detail := fmt.Sprintf("%d balls, %d matches, %d players, %d teams, %d venues",
		counts["fact_ball_delivery"], counts["fact_match_summary"],
		counts["dim_player"], counts["dim_team"], counts["dim_venue"])
	return detail, counts["fact_ball_delivery"] == 0, nil
}

func (v *Validator) checkNullValues(ctx context.Context) (string, bool, error) {
	nullBatters, err := v.scalar(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s.fact_ball_delivery WHERE batter_id IS NULL", v.Schema))
	if err != nil {
		return "", false, err
	}
	nullBowlers, err := v.scalar(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s.fact_ball_delivery WHERE bowler_id IS NULL", v.Schema))
	if err != nil {
		return "", false, err
	}
	if nullBatters > 0 || nullBowlers > 0 {
		return fmt.Sprintf("%d null batters, %d null bowlers", nullBatters, nullBowlers), true, nil
	}
	return "no critical nulls", false, nil
}

func (v *Validator) checkReferentialIntegrity(ctx context.Context) (string, bool, error) {
	orphaned, err := v.scalar(ctx, fmt.Sprintf(`
		SELECT COUNT(*) FROM %[1]s.fact_ball_delivery f
		LEFT JOIN %[1]s.dim_player p ON f.batter_id = p.player_id
		WHERE f.batter_id IS NOT NULL AND p.player_id IS NULL`, v.Schema))
	if err != nil {
		return "", false, err
	}
	if orphaned > 0 {
		return fmt.Sprintf("%d orphaned batter references", orphaned), true, nil
	}
	return "all foreign keys valid", false, nil
}

func (v *Validator) checkDataRanges(ctx context.Context) (string, bool, error) {
	invalidRuns, err := v.scalar(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s.fact_ball_delivery WHERE runs_scored < 0 OR runs_scored > 7", v.Schema))
	if err != nil {
		return "", false, err
	}
	invalidOvers, err := v.scalar(ctx, fmt.Sprintf(
		"SELECT COUNT(*) FROM %s.fact_ball_delivery WHERE over_number < 0 OR over_number > 50", v.Schema))
	if err != nil {
		return "", false, err
	}
	if invalidRuns > 0 || invalidOvers > 0 {
		return fmt.Sprintf("%d invalid runs, %d invalid overs", invalidRuns, invalidOvers), true, nil
	}
	return "all data within valid ranges", false, nil
}

// aggregationTolerance allows for the small drift between the per-match
// maxima in the summary and the per-ball sum (abandoned matches, super-over
// filtering).
const aggregationTolerance = 100

func (v *Validator) checkAggregations(ctx context.Context) (string, bool, error) {
	diff, err := v.scalar(ctx, fmt.Sprintf(`
		SELECT ABS(COALESCE(SUM(ms.team1_score + ms.team2_score), 0) -
			(SELECT COALESCE(SUM(runs_total), 0) FROM %[1]s.fact_ball_delivery))
		FROM %[1]s.fact_match_summary ms`, v.Schema))
	if err != nil {
		return "", false, err
	}
	if diff > aggregationTolerance {
		return fmt.Sprintf("aggregation mismatch of %d runs", diff), true, nil
	}
	return "aggregations match", false, nil
}
