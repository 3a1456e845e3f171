// Package datasource abstracts where the raw export bytes come from.
package datasource

import (
	"context"
	"fmt"
	"io"

	"anonymizer/internal/config"
	"anonymizer/internal/datasource/file"
)

// Source opens the raw export for reading.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// FromConfig returns the Source described by cfg.
func FromConfig(cfg config.Source) (Source, error) {
	switch cfg.Kind {
	case "file":
		return file.NewLocal(cfg.File.Path), nil
	default:
		return nil, fmt.Errorf("unsupported source kind %q", cfg.Kind)
	}
}
