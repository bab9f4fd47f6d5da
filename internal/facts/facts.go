// Package facts materializes the three fact tables from the transformed
// event log and the dimension lookups: the per-delivery grain, the innings
// summary, and the match summary.
//
// A validation gate runs before anything touches the warehouse: a duplicate
// (match, innings, sequence) key is a fatal integrity violation, while rows
// with an innings outside {1, 2} (super-overs and the like) are filtered with
// a warning. Foreign keys that fail to resolve become NULL references and are
// counted per column in an UnresolvedReport; the loader can optionally be
// configured to fail on any miss instead.
package facts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"

	"ipldw/internal/dataset"
	"ipldw/internal/dimensions"
	"ipldw/internal/warehouse"
)

// FactTables lists the fact tables in load order.
var FactTables = []string{
	"fact_ball_delivery", "fact_innings_summary", "fact_match_summary",
}

// Store is the warehouse surface the fact loader needs. *warehouse.DB
// satisfies it.
type Store interface {
	TruncateStrict(ctx context.Context, tables ...string) error
	InsertBatches(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) (int64, error)
}

// IntegrityError reports duplicate delivery keys found by the validation
// gate. It aborts the whole fact load: a duplicate means the upstream
// sequencing invariant did not hold.
type IntegrityError struct {
	Duplicates int
	Sample     []string
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("%d duplicate delivery keys in source data (sample: %v)", e.Duplicates, e.Sample)
}

// Loader loads the fact tables. All row sets are materialized in memory
// before the fact tables are truncated, so a fail-on-unresolved abort leaves
// the warehouse untouched.
type Loader struct {
	Store            Store
	Resolver         *dimensions.Resolver
	Log              *logrus.Logger
	BatchSize        int
	FailOnUnresolved bool
}

// Load validates the dataset, builds all three fact row sets, then truncates
// and loads the fact tables. The unresolved-reference report is returned even
// on success so callers can surface it.
func (l *Loader) Load(ctx context.Context, ds *dataset.Dataset) (*UnresolvedReport, error) {
	l.Log.Info("loading fact tables")

	rows, err := l.validate(ds)
	if err != nil {
		return nil, err
	}

	report := NewUnresolvedReport()
	deliveries := l.buildDeliveries(ds, rows, report)
	innings := l.buildInningsSummaries(rows, report)
	matches := l.buildMatchSummaries(rows, report)

	if !report.Empty() {
		l.Log.WithField("misses", report.String()).Warn("unresolved dimension references")
		if l.FailOnUnresolved {
			return report, fmt.Errorf("unresolved dimension references: %s", report)
		}
	}

	if err := l.Store.TruncateStrict(ctx, FactTables...); err != nil {
		return report, fmt.Errorf("truncate facts: %w", err)
	}

	if _, err := l.Store.InsertBatches(ctx, "fact_ball_delivery", deliveryColumns, deliveries, l.BatchSize); err != nil {
		return report, fmt.Errorf("load fact_ball_delivery: %w", err)
	}
	if _, err := l.Store.InsertBatches(ctx, "fact_innings_summary", inningsColumns, innings, l.BatchSize); err != nil {
		return report, fmt.Errorf("load fact_innings_summary: %w", err)
	}
	if _, err := l.Store.InsertBatches(ctx, "fact_match_summary", matchColumns, matches, l.BatchSize); err != nil {
		return report, fmt.Errorf("load fact_match_summary: %w", err)
	}

	l.Log.Info("all facts loaded")
	return report, nil
}

// validate applies the gate: fatal on duplicate (match, innings, sequence)
// keys, filter with a warning on innings outside {1, 2}. It returns the
// surviving rows in dataset order.
func (l *Loader) validate(ds *dataset.Dataset) ([]*dataset.Row, error) {
	seen := make(map[uint64]struct{}, len(ds.Rows))
	var dups int
	var sample []string

	for i := range ds.Rows {
		r := &ds.Rows[i]
		key := deliveryKey(r)
		if _, ok := seen[key]; ok {
			dups++
			if len(sample) < 5 {
				sample = append(sample, fmt.Sprintf("match=%d innings=%d seq=%d", r.MatchID, r.Innings, r.BallSequence))
			}
			continue
		}
		seen[key] = struct{}{}
	}
	if dups > 0 {
		l.Log.WithField("duplicates", dups).Error("duplicate delivery keys in source data")
		return nil, &IntegrityError{Duplicates: dups, Sample: sample}
	}

	rows := make([]*dataset.Row, 0, len(ds.Rows))
	var dropped int
	for i := range ds.Rows {
		r := &ds.Rows[i]
		if r.Innings != 1 && r.Innings != 2 {
			dropped++
			continue
		}
		rows = append(rows, r)
	}
	if dropped > 0 {
		l.Log.WithFields(logrus.Fields{
			"dropped":   dropped,
			"remaining": len(rows),
		}).Warn("filtered rows with innings outside 1..2")
	}

	l.Log.WithField("rows", len(rows)).Info("fact data validation passed")
	return rows, nil
}

// deliveryKey hashes the composite delivery identity for duplicate detection.
func deliveryKey(r *dataset.Row) uint64 {
	key := strconv.Itoa(r.MatchID) + "|" + strconv.Itoa(r.Innings) + "|" + strconv.Itoa(r.BallSequence)
	return xxh3.HashString(key)
}

var _ Store = (*warehouse.DB)(nil)
