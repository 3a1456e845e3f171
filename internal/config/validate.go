// Package config provides configuration models and helpers for anonymization
// pipelines.
//
// This file adds a lightweight linter for Pipeline values. It performs static
// checks over a decoded Pipeline and returns a list of issues (errors and
// warnings) that the CLI surfaces with -validate.
package config

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"anonymizer/internal/storage"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a finding that is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "output.filename",
// "transform[1].options.prefix").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// HasErrors reports whether any issue has SeverityError.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// ValidatePipeline performs static validation of a Pipeline. It does not
// mutate the pipeline.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateParser(p.Parser)...)
	issues = append(issues, validateTransforms(p.Transform)...)
	issues = append(issues, validateOutput(p.Output)...)
	issues = append(issues, validateStorage(p.Storage)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  "source.kind must not be empty",
		})
	}
	if s.Kind != "file" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.kind",
			Message:  fmt.Sprintf("unsupported source kind %q", s.Kind),
		})
	}
	if strings.TrimSpace(s.File.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.file.path",
			Message:  "file source requires a non-empty path",
		})
	}
	return issues
}

func validateParser(p Parser) []Issue {
	var issues []Issue

	if p.Kind != "csv" {
		return append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.kind",
			Message:  fmt.Sprintf("unsupported parser kind %q; only csv is implemented", p.Kind),
		})
	}
	if c := p.Options.String("comma", ","); len([]rune(c)) != 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "parser.options.comma",
			Message:  fmt.Sprintf("comma must be a single character, got %q", c),
		})
	}
	return issues
}

func validateTransforms(ts []Transform) []Issue {
	var issues []Issue

	if len(ts) == 0 {
		return append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "transform",
			Message:  "no transforms configured; the export will be written without anonymization",
		})
	}

	seen := map[string]int{}
	for i, t := range ts {
		opt := func(name string) string { return fmt.Sprintf("transform[%d].options.%s", i, name) }

		switch t.Kind {
		case "parse_dates":
			if len(t.Options.StringSlice("columns")) == 0 {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("columns"),
					Message:  "parse_dates requires at least one column",
				})
			}
		case "pseudonymize":
			col := t.Options.String("column", "")
			if col == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("column"),
					Message:  "pseudonymize requires a column",
				})
			}
			if strings.TrimSpace(t.Options.String("prefix", "")) == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("prefix"),
					Message:  "pseudonymize requires a label prefix",
				})
			}
			if prev, dup := seen[col]; dup && col != "" {
				issues = append(issues, Issue{
					Severity: SeverityWarning,
					Path:     opt("column"),
					Message:  fmt.Sprintf("column %q is already pseudonymized by transform[%d]; labels will be re-numbered", col, prev),
				})
			}
			seen[col] = i
		case "overwrite":
			if t.Options.String("column", "") == "" {
				issues = append(issues, Issue{
					Severity: SeverityError,
					Path:     opt("column"),
					Message:  "overwrite requires a column",
				})
			}
		case "normalize":
		case "":
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("transform[%d].kind", i),
				Message:  "transform kind must not be empty",
			})
		default:
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     fmt.Sprintf("transform[%d].kind", i),
				Message:  fmt.Sprintf("unknown transform kind %q", t.Kind),
			})
		}
	}
	return issues
}

func validateOutput(o Output) []Issue {
	var issues []Issue

	if o.Kind != "xlsx" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.kind",
			Message:  fmt.Sprintf("unsupported output kind %q; only xlsx is implemented", o.Kind),
		})
	}
	if strings.TrimSpace(o.Filename) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "output.filename",
			Message:  "output.filename must not be empty",
		})
	} else if ext := strings.ToLower(filepath.Ext(o.Filename)); ext != ".xlsx" {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "output.filename",
			Message:  fmt.Sprintf("extension %q is not a spreadsheet format the writer can produce", ext),
		})
	}
	return issues
}

func validateStorage(s Storage) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		return nil
	}

	if kinds := storage.ListKinds(); !slices.Contains(kinds, s.Kind) {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.kind",
			Message:  fmt.Sprintf("unknown storage kind %q; registered: %s", s.Kind, strings.Join(kinds, ", ")),
		})
	}
	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.dsn",
			Message:  "storage.db.dsn must not be empty",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.table",
			Message:  "storage.db.table must not be empty",
		})
	}
	if s.DB.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "storage.db.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	return issues
}
