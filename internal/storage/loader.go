package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"anonymizer/pkg/records"
)

// CopyFn abstracts a backend's bulk insert capability. Implementations insert
// rows aligned to columns and return the number of rows reported as inserted.
type CopyFn func(ctx context.Context, columns []string, rows [][]any) (int64, error)

// LoadBatches sends rows to copyFn in slices of at most batchSize. It returns
// the total reported by copyFn and the first error encountered. Context
// cancellation is checked between batches.
func LoadBatches(ctx context.Context, columns []string, rows [][]any, batchSize int, copyFn CopyFn) (int64, error) {
	if batchSize <= 0 {
		return 0, fmt.Errorf("batchSize must be > 0")
	}
	if copyFn == nil {
		return 0, fmt.Errorf("copyFn must not be nil")
	}

	var (
		total   int64
		batches int
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))

		n, err := copyFn(ctx, columns, rows[lo:hi])
		total += n
		if err != nil {
			log.Error().Err(err).Int64("inserted", n).Int64("total", total).Msg("loader: copy failed")
			return total, err
		}
		batches++
		log.Debug().
			Int("batch", batches).
			Int64("inserted", n).
			Int64("total_inserted", total).
			Dur("elapsed", time.Since(start).Truncate(time.Millisecond)).
			Msg("loader: batch flushed")
	}
	return total, nil
}

// LoadTable projects t onto its header and loads it through repo.
func LoadTable(ctx context.Context, repo Repository, t *records.Table, batchSize int) (int64, error) {
	rows := t.Matrix(t.Columns)
	for _, r := range rows {
		for i, v := range r {
			if records.IsMissing(v) {
				r[i] = nil
			}
		}
	}
	return LoadBatches(ctx, t.Columns, rows, batchSize, repo.CopyFrom)
}
