package mysql

import (
	"context"
	"fmt"

	"anonymizer/internal/ddl"
	"anonymizer/internal/storage"
	"anonymizer/pkg/records"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

var _ storage.Repository = (*wrappedRepo)(nil)

// wrappedRepo adapts *Repository to storage.Repository and provides Close.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

// Close closes the underlying connection pool.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// EnsureTable creates the table described by t when it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, fqn string, t *records.Table) error {
	sql, err := ddl.BuildCreateTableSQL(ddl.FromTable(fqn, t, Types), Dialect)
	if err != nil {
		return fmt.Errorf("mysql: build DDL: %w", err)
	}
	return repo.Exec(ctx, sql)
}

func init() {
	storage.Register("mysql", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
		r, closeFn, err := newRepository(ctx, Config{
			DSN:     cfg.DSN,
			Table:   cfg.Table,
			Columns: cfg.Columns,
		})
		if err != nil {
			return nil, err
		}
		return &wrappedRepo{Repository: r, closeFn: closeFn}, nil
	})
	storage.RegisterDDL("mysql", EnsureTable)
}
