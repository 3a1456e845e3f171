package main

import (
	"errors"
	"fmt"
	"io/fs"

	"anonymizer/internal/config"
	"anonymizer/internal/sink/xlsx"
	"anonymizer/pkg/records"
)

// describe turns a run error into the one-line message shown to the user.
func describe(err error, p config.Pipeline) string {
	var mc *records.MissingColumnError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Sprintf("ERROR: File not found. Check the input path: '%s'", p.Source.File.Path)
	case errors.As(err, &mc):
		return fmt.Sprintf("ERROR: Column name issue. Check column spelling: '%s'", mc.Column)
	case errors.Is(err, xlsx.ErrUnsupportedFormat):
		return fmt.Sprintf("ERROR: Cannot write '%s'. The output must be an Excel workbook; use a .xlsx file name.", p.Output.Path())
	default:
		return fmt.Sprintf("An unexpected error occurred: %v", err)
	}
}
