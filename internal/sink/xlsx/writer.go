// Package xlsx writes a records.Table to an Excel workbook: header row first,
// no index column, timestamps as real date cells.
package xlsx

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"anonymizer/pkg/records"
)

// ErrUnsupportedFormat is returned when the target path is not a workbook
// format this writer can produce.
var ErrUnsupportedFormat = errors.New("xlsx: unsupported output format")

// DefaultDateFormat is the number format applied to timestamp cells.
const DefaultDateFormat = "yyyy-mm-dd hh:mm:ss"

// Options configures the writer. Zero values fall back to defaults.
type Options struct {
	// Sheet is the worksheet name. Default "Sheet1".
	Sheet string

	// DateFormat is the Excel number format for time.Time cells.
	DateFormat string
}

// Writer saves tables as .xlsx workbooks.
type Writer struct{ opt Options }

// NewWriter constructs a Writer with the provided Options.
func NewWriter(opt Options) *Writer {
	if opt.Sheet == "" {
		opt.Sheet = "Sheet1"
	}
	if opt.DateFormat == "" {
		opt.DateFormat = DefaultDateFormat
	}
	return &Writer{opt: opt}
}

// Write saves t to path, creating the parent directory when absent. The
// workbook is written to a temporary file next to path and renamed into place,
// so a failed write leaves no partial output.
func (w *Writer) Write(ctx context.Context, path string, t *records.Table) error {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return fmt.Errorf("%w: %q; use a .xlsx file name", ErrUnsupportedFormat, ext)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}

	f, err := w.build(t)
	if err != nil {
		return err
	}
	defer f.Close()

	tmp, err := os.CreateTemp(dir, ".anonymized-*.xlsx")
	if err != nil {
		return fmt.Errorf("create temp workbook: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := f.WriteTo(tmp); err != nil {
		_ = tmp.Close()
		cleanup()
		return fmt.Errorf("write workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("close workbook: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("rename workbook to %s: %w", path, err)
	}

	log.Debug().Str("path", path).Int("rows", t.Len()).Int("columns", len(t.Columns)).Msg("xlsx: workbook saved")
	return nil
}

// build renders the table into an in-memory workbook using the stream writer.
func (w *Writer) build(t *records.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	fail := func(err error) (*excelize.File, error) {
		_ = f.Close()
		return nil, err
	}

	if w.opt.Sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", w.opt.Sheet); err != nil {
			return fail(fmt.Errorf("rename sheet: %w", err))
		}
	}

	dateFmt := w.opt.DateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fail(fmt.Errorf("date style: %w", err))
	}

	sw, err := f.NewStreamWriter(w.opt.Sheet)
	if err != nil {
		return fail(fmt.Errorf("stream writer: %w", err))
	}

	header := make([]any, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fail(fmt.Errorf("write header: %w", err))
	}

	for i, r := range t.Rows {
		row := make([]any, len(t.Columns))
		for j, c := range t.Columns {
			row[j] = cellValue(r[c], dateStyle)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fail(err)
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fail(fmt.Errorf("write row %d: %w", i+2, err))
		}
	}

	if err := sw.Flush(); err != nil {
		return fail(fmt.Errorf("flush sheet: %w", err))
	}
	return f, nil
}

// cellValue maps a table value to what the stream writer expects. Missing
// values become empty cells.
func cellValue(v any, dateStyle int) any {
	if records.IsMissing(v) {
		return nil
	}
	if ts, ok := v.(time.Time); ok {
		return excelize.Cell{StyleID: dateStyle, Value: ts}
	}
	return v
}
