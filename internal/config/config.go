// Package config defines the JSON-serializable pipeline model for the
// anonymizer. A pipeline names the source export, how to parse it, the ordered
// transforms to apply, and where to write the result.
//
// Example (trimmed):
//
//	{
//	  "job":    "issue_tracker",
//	  "source": { "kind": "file", "file": { "path": "ISSUE TRACKER.csv", "encoding": "latin-1" } },
//	  "parser": { "kind": "csv", "options": { "comma": "," } },
//	  "transform": [
//	    { "kind": "parse_dates",  "options": { "columns": ["DateOnly"] } },
//	    { "kind": "pseudonymize", "options": { "column": "School Name", "prefix": "School" } },
//	    { "kind": "overwrite",    "options": { "column": "Sub Module", "value": "Generic Module" } }
//	  ],
//	  "output":  { "kind": "xlsx", "dir": "Portfolio_Output", "filename": "anonymized_portfolio_data.xlsx" },
//	  "storage": { "kind": "" }
//	}
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Pipeline describes one anonymization run. It is the top-level object decoded
// from a pipeline file (e.g., configs/issue_tracker.json).
type Pipeline struct {
	// Job names the run for logs and metrics labeling.
	Job string `json:"job"`

	// Source describes where the export comes from.
	Source Source `json:"source"`

	// Parser configures how raw bytes are turned into a table.
	Parser Parser `json:"parser"`

	// Transform lists the ordered transformations applied to the loaded table.
	Transform []Transform `json:"transform"`

	// Output describes the spreadsheet written at the end of the run.
	Output Output `json:"output"`

	// Storage optionally mirrors the anonymized table into a database. An
	// empty kind disables it.
	Storage Storage `json:"storage"`
}

// Source identifies the data source. Current kind: "file".
type Source struct {
	Kind string     `json:"kind"`
	File SourceFile `json:"file"`
}

// SourceFile holds configuration for the "file" source kind.
type SourceFile struct {
	// Path is the local filesystem path to the export.
	Path string `json:"path"`

	// Encoding names the text encoding of the file, e.g. "latin-1",
	// "windows-1252" or "utf-8". Empty means latin-1.
	Encoding string `json:"encoding"`
}

// Parser selects how to parse the raw source. Current kind: "csv".
type Parser struct {
	Kind string `json:"kind"`

	// Options is interpreted by the parser implementation. For CSV:
	//   comma (string), trim_space (bool), lazy_quotes (bool), header_map (object),
	//   keep_default_na (bool), na_values (array), infer_numeric (bool)
	Options Options `json:"options"`
}

// Transform defines a single transformation step.
type Transform struct {
	// Kind selects the implementation: "parse_dates", "pseudonymize",
	// "overwrite" or "normalize".
	Kind string `json:"kind"`

	// Options is interpreted by the selected transform.
	Options Options `json:"options"`
}

// Output configures the spreadsheet sink.
type Output struct {
	// Kind selects the writer. Current value: "xlsx".
	Kind string `json:"kind"`

	// Dir is created when absent.
	Dir string `json:"dir"`

	// Filename is joined to Dir.
	Filename string `json:"filename"`

	// Sheet is the worksheet name; defaults to "Sheet1".
	Sheet string `json:"sheet"`
}

// Path returns the full output file path.
func (o Output) Path() string {
	return filepath.Join(o.Dir, o.Filename)
}

// Storage selects an optional database sink.
type Storage struct {
	// Kind is one of "sqlite", "postgres", "mssql", "mysql", or empty.
	Kind string   `json:"kind"`
	DB   DBConfig `json:"db"`
}

// DBConfig configures the database sink.
type DBConfig struct {
	// DSN is the driver-specific connection string.
	DSN string `json:"dsn"`

	// Table is the destination table name.
	Table string `json:"table"`

	// AutoCreateTable creates the destination table from the table header
	// before loading.
	AutoCreateTable bool `json:"auto_create_table"`

	// BatchSize bounds the rows sent per bulk insert. Zero means 1000.
	BatchSize int `json:"batch_size"`
}

// Load reads and decodes a pipeline file. Fields that are left empty in the
// file are filled from Default.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var p Pipeline
	if err := json.NewDecoder(f).Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config %s: %w", path, err)
	}
	return p.WithDefaults(), nil
}

// WithDefaults returns a copy of p with empty scalar fields taken from
// Default. The transform list is only defaulted when it is empty.
func (p Pipeline) WithDefaults() Pipeline {
	d := Default()
	if p.Job == "" {
		p.Job = d.Job
	}
	if p.Source.Kind == "" {
		p.Source.Kind = d.Source.Kind
	}
	if p.Source.File.Path == "" {
		p.Source.File.Path = d.Source.File.Path
	}
	if p.Source.File.Encoding == "" {
		p.Source.File.Encoding = d.Source.File.Encoding
	}
	if p.Parser.Kind == "" {
		p.Parser.Kind = d.Parser.Kind
	}
	if p.Parser.Options == nil {
		p.Parser.Options = Options{}
	}
	if len(p.Transform) == 0 {
		p.Transform = d.Transform
	}
	if p.Output.Kind == "" {
		p.Output.Kind = d.Output.Kind
	}
	if p.Output.Dir == "" {
		p.Output.Dir = d.Output.Dir
	}
	if p.Output.Filename == "" {
		p.Output.Filename = d.Output.Filename
	}
	if p.Output.Sheet == "" {
		p.Output.Sheet = d.Output.Sheet
	}
	if p.Storage.DB.BatchSize <= 0 {
		p.Storage.DB.BatchSize = 1000
	}
	return p
}

// Options is a small helper to fetch typed values from arbitrary JSON maps. It
// performs only minimal type coercion and returns provided defaults when a key
// is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// Rune returns the first rune of a string value for key, or def if key is
// missing or empty.
func (o Options) Rune(key string, def rune) rune {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok && len(s) > 0 {
			return []rune(s)[0]
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		switch m := v.(type) {
		case map[string]any:
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		case map[string]string:
			for k, s := range m {
				res[k] = s
			}
		}
	}
	return res
}

// StringSlice returns a []string for key when the value is an array of
// strings. Returns nil when the key is missing or the value is not an array.
func (o Options) StringSlice(key string) []string {
	if v, ok := o[key]; ok {
		switch vv := v.(type) {
		case []any:
			out := make([]string, 0, len(vv))
			for _, x := range vv {
				if s, ok := x.(string); ok {
					out = append(out, s)
				}
			}
			return out
		case []string:
			return vv
		}
	}
	return nil
}

// UnmarshalJSON makes a missing or null "options" object decode to a non-nil,
// empty Options map.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
