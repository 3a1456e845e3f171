package postgres

import (
	"context"
	"fmt"

	"anonymizer/internal/ddl"
	"anonymizer/internal/storage"
	"anonymizer/pkg/records"
)

// newRepository is a test hook that points to NewRepository by default.
var newRepository = NewRepository

// wrappedRepo implements storage.Repository by delegating to *Repository
// while providing a Close that calls the function returned by NewRepository.
type wrappedRepo struct {
	*Repository
	closeFn func()
}

var _ storage.Repository = (*wrappedRepo)(nil)

// Close implements storage.Repository.Close.
func (w *wrappedRepo) Close() {
	if w.closeFn != nil {
		w.closeFn()
	}
}

// EnsureTable creates the table described by t when it does not exist.
func EnsureTable(ctx context.Context, repo storage.Repository, fqn string, t *records.Table) error {
	sql, err := ddl.BuildCreateTableSQL(ddl.FromTable(fqn, t, Types), Dialect)
	if err != nil {
		return fmt.Errorf("postgres: build DDL: %w", err)
	}
	if err := repo.Exec(ctx, sql); err != nil {
		return fmt.Errorf("apply DDL: %w", err)
	}
	return nil
}

func init() {
	storage.Register("postgres", func(ctx context.Context, cfg storage.Config) (storage.Repository, error) {
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
	storage.RegisterDDL("postgres", EnsureTable)
}
