package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// the provided rows (aligned to columns order) and return the number of rows
// reported as inserted. DB.CopyRows curried to a table is the production
// implementation.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches splits rows into batches of batchSize and calls copyFn for each
// non-empty batch, in input order. It returns the total number of rows
// reported by copyFn and the first error encountered; earlier batches stay
// committed when a later one fails.
//
// A progress line with running totals and instantaneous rows/sec is logged on
// every flush.
func LoadBatches(
	ctx context.Context,
	log *logrus.Logger,
	table string,
	columns []string,
	rows [][]any,
	batchSize int,
	copyFn CopyFn,
) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int64
		start   = time.Now()
		lastTS  = start
	)

	for off := 0; off < len(rows); off += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		end := off + batchSize
		if end > len(rows) {
			end = len(rows)
		}
		n, err := copyFn(ctx, columns, rows[off:end])
		total += n
		if err != nil {
			log.WithFields(logrus.Fields{
				"table": table,
				"batch": batches + 1,
				"total": total,
			}).WithError(err).Error("batch insert failed")
			return total, err
		}

		batches++
		now := time.Now()
		sinceLast := now.Sub(lastTS)
		rps := float64(0)
		if sinceLast > 0 {
			rps = float64(n) / sinceLast.Seconds()
		}
		log.WithFields(logrus.Fields{
			"table":    table,
			"batch":    batches,
			"inserted": n,
			"total":    total,
			"rps":      fmt.Sprintf("%.0f", rps),
			"elapsed":  now.Sub(start).Truncate(time.Millisecond).String(),
		}).Debug("batch flushed")
		lastTS = now
	}

	log.WithFields(logrus.Fields{
		"table":   table,
		"rows":    total,
		"batches": batches,
		"elapsed": time.Since(start).Truncate(time.Millisecond).String(),
	}).Info("table loaded")

	return total, nil
}

// InsertBatches loads rows into the named warehouse table in batches.
func (db *DB) InsertBatches(ctx context.Context, table string, columns []string, rows [][]any, batchSize int) (int64, error) {
	return LoadBatches(ctx, db.Log, table, columns, rows, batchSize,
		func(ctx context.Context, cols []string, batch [][]any) (int64, error) {
			return db.CopyRows(ctx, table, cols, batch)
		})
}
