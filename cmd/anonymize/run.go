package main

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"anonymizer/internal/config"
	"anonymizer/internal/datasource"
	"anonymizer/internal/metrics"
	"anonymizer/internal/parser"
	"anonymizer/internal/sink/xlsx"
	"anonymizer/internal/storage"
	"anonymizer/internal/transformer"
	"anonymizer/internal/transformer/builtin"
	"anonymizer/pkg/records"
)

// newRepository is a test hook for the storage sink.
var newRepository = storage.New

// result reports what a successful run did.
type result struct {
	Input   string
	Output  string
	Loaded  int
	Stored  int64
	Summary *transformer.Summary
}

// run executes the pipeline: load, transform, write and, when configured,
// store. Any error aborts the run; nothing is written unless the transform
// completed.
func run(ctx context.Context, p config.Pipeline, stdout io.Writer) (result, error) {
	res := result{
		Input:   p.Source.File.Path,
		Output:  p.Output.Path(),
		Summary: transformer.NewSummary(),
	}

	chain, err := builtin.BuildChain(p.Transform, res.Summary)
	if err != nil {
		return res, fmt.Errorf("build transforms: %w", err)
	}

	var tbl *records.Table
	err = step(p.Job, "load", func() error {
		var err error
		tbl, err = load(ctx, p)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Loaded = tbl.Len()
	metrics.RecordRow(p.Job, metrics.RowsLoaded, int64(res.Loaded))
	fmt.Fprintf(stdout, "Successfully loaded %d rows from %s.\n", res.Loaded, res.Input)

	err = step(p.Job, "transform", func() error {
		if err := chain.Apply(tbl); err != nil {
			return fmt.Errorf("transform: %w", err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	metrics.RecordColumns(p.Job, res.Summary.DatesUnparsed, res.Summary.Labels)

	err = step(p.Job, "write", func() error {
		w := xlsx.NewWriter(xlsx.Options{Sheet: p.Output.Sheet})
		if err := w.Write(ctx, res.Output, tbl); err != nil {
			return fmt.Errorf("write %s: %w", res.Output, err)
		}
		return nil
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRow(p.Job, metrics.RowsWritten, int64(tbl.Len()))
	fmt.Fprintf(stdout, "\nSuccess! Anonymized data saved to: %s\n", res.Output)

	if p.Storage.Kind == "" {
		return res, nil
	}
	err = step(p.Job, "store", func() error {
		var err error
		res.Stored, err = store(ctx, p, tbl)
		return err
	})
	if err != nil {
		return res, err
	}
	metrics.RecordRow(p.Job, metrics.RowsStored, res.Stored)
	fmt.Fprintf(stdout, "Stored %d rows in %s table %s.\n", res.Stored, p.Storage.Kind, p.Storage.DB.Table)
	return res, nil
}

// step times fn and records it under name.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(job, name, err, time.Since(start))
	return err
}

func load(ctx context.Context, p config.Pipeline) (*records.Table, error) {
	src, err := datasource.FromConfig(p.Source)
	if err != nil {
		return nil, err
	}
	ps, err := parser.FromConfig(p)
	if err != nil {
		return nil, err
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	defer rc.Close()

	tbl, err := ps.Parse(rc)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", p.Source.File.Path, err)
	}
	return tbl, nil
}

// store mirrors tbl into the configured database table.
func store(ctx context.Context, p config.Pipeline, tbl *records.Table) (int64, error) {
	cfg := storage.Config{
		Kind:    p.Storage.Kind,
		DSN:     p.Storage.DB.DSN,
		Table:   p.Storage.DB.Table,
		Columns: tbl.Columns,
	}
	repo, err := newRepository(ctx, cfg)
	if err != nil {
		return 0, fmt.Errorf("open storage %s: %w", cfg.Kind, err)
	}
	defer repo.Close()

	if p.Storage.DB.AutoCreateTable {
		if err := storage.EnsureTable(ctx, cfg, repo, tbl); err != nil {
			return 0, fmt.Errorf("ensure table %s: %w", cfg.Table, err)
		}
	}

	batchSize := p.Storage.DB.BatchSize
	if batchSize <= 0 {
		batchSize = 1000
	}
	n, err := storage.LoadTable(ctx, repo, tbl, batchSize)
	if err != nil {
		return n, fmt.Errorf("store into %s: %w", cfg.Table, err)
	}
	metrics.RecordBatches(p.Job, int64((tbl.Len()+batchSize-1)/batchSize))
	return n, nil
}

func logSummary(res result, elapsed time.Duration) {
	ev := log.Info().
		Int("rows_loaded", res.Loaded).
		Int("dates_unparsed", res.Summary.TotalUnparsed()).
		Dur("elapsed", elapsed.Truncate(time.Millisecond))
	if res.Stored > 0 {
		ev = ev.Int64("rows_stored", res.Stored)
	}
	ev.Str("output", res.Output).Msg("run summary")

	cols := map[string]struct{}{}
	for c := range res.Summary.Labels {
		cols[c] = struct{}{}
	}
	for c := range res.Summary.DatesUnparsed {
		cols[c] = struct{}{}
	}
	names := make([]string, 0, len(cols))
	for c := range cols {
		names = append(names, c)
	}
	sort.Strings(names)
	for _, c := range names {
		ev := log.Debug().Str("column", c)
		if n, ok := res.Summary.Labels[c]; ok {
			ev = ev.Int("labels", n)
		}
		if n, ok := res.Summary.DatesUnparsed[c]; ok {
			ev = ev.Int("dates_unparsed", n)
		}
		ev.Msg("run summary: column")
	}
}
