package storage

import (
	"context"
	"fmt"
	"sync"

	"anonymizer/pkg/records"
)

// DDLBootstrapper is a backend-specific function that infers a table
// definition from the loaded table and applies it via repo.Exec (typically
// CREATE TABLE). Backends register their implementation at init time.
type DDLBootstrapper func(ctx context.Context, repo Repository, fqn string, t *records.Table) error

var (
	ddlMu  sync.RWMutex
	ddlFns = map[string]DDLBootstrapper{}
)

// RegisterDDL registers (or replaces) a DDLBootstrapper for the given storage
// kind.
func RegisterDDL(kind string, fn DDLBootstrapper) {
	ddlMu.Lock()
	defer ddlMu.Unlock()
	ddlFns[kind] = fn
}

// EnsureTable locates the DDLBootstrapper for cfg.Kind and invokes it for
// cfg.Table.
func EnsureTable(ctx context.Context, cfg Config, repo Repository, t *records.Table) error {
	ddlMu.RLock()
	fn, ok := ddlFns[cfg.Kind]
	ddlMu.RUnlock()
	if !ok {
		return fmt.Errorf("no DDL bootstrapper registered for storage.kind=%q", cfg.Kind)
	}
	return fn(ctx, repo, cfg.Table, t)
}
