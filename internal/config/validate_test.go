package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	// storage kinds are checked against the registry.
	_ "anonymizer/internal/storage/all"
)

// hasIssue reports whether issues contains an Issue with the given severity,
// path, and a Message containing msgSubstr.
func hasIssue(issues []Issue, sev IssueSeverity, path, msgSubstr string) bool {
	for _, iss := range issues {
		if iss.Severity == sev && iss.Path == path && strings.Contains(iss.Message, msgSubstr) {
			return true
		}
	}
	return false
}

func TestValidatePipeline(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		mutate func(p *Pipeline)
		sev    IssueSeverity
		path   string
		msg    string
	}{
		{"empty job", func(p *Pipeline) { p.Job = " " }, SeverityError, "job", "must not be empty"},
		{"no source path", func(p *Pipeline) { p.Source.File.Path = "" }, SeverityError, "source.file.path", "non-empty path"},
		{"bad source kind", func(p *Pipeline) { p.Source.Kind = "http" }, SeverityError, "source.kind", "unsupported"},
		{"xml parser", func(p *Pipeline) { p.Parser.Kind = "xml" }, SeverityError, "parser.kind", "only csv"},
		{"wide comma", func(p *Pipeline) { p.Parser.Options = Options{"comma": ";;"} }, SeverityError, "parser.options.comma", "single character"},
		{"no transforms", func(p *Pipeline) { p.Transform = nil }, SeverityWarning, "transform", "without anonymization"},
		{"unknown transform", func(p *Pipeline) { p.Transform = []Transform{{Kind: "dedup"}} }, SeverityError, "transform[0].kind", "unknown"},
		{"pseudonymize without prefix", func(p *Pipeline) {
			p.Transform = []Transform{{Kind: "pseudonymize", Options: Options{"column": "Region"}}}
		}, SeverityError, "transform[0].options.prefix", "prefix"},
		{"pseudonymize twice", func(p *Pipeline) {
			p.Transform = []Transform{
				{Kind: "pseudonymize", Options: Options{"column": "Region", "prefix": "R"}},
				{Kind: "pseudonymize", Options: Options{"column": "Region", "prefix": "R"}},
			}
		}, SeverityWarning, "transform[1].options.column", "already pseudonymized"},
		{"overwrite without column", func(p *Pipeline) {
			p.Transform = []Transform{{Kind: "overwrite", Options: Options{"value": "x"}}}
		}, SeverityError, "transform[0].options.column", "requires a column"},
		{"parse_dates without columns", func(p *Pipeline) {
			p.Transform = []Transform{{Kind: "parse_dates", Options: Options{}}}
		}, SeverityError, "transform[0].options.columns", "at least one"},
		{"csv output", func(p *Pipeline) { p.Output.Filename = "out.csv" }, SeverityWarning, "output.filename", "not a spreadsheet"},
		{"unknown storage", func(p *Pipeline) {
			p.Storage = Storage{Kind: "oracle", DB: DBConfig{DSN: "x", Table: "t"}}
		}, SeverityError, "storage.kind", "unknown storage kind"},
		{"storage without dsn", func(p *Pipeline) {
			p.Storage = Storage{Kind: "sqlite", DB: DBConfig{Table: "t"}}
		}, SeverityError, "storage.db.dsn", "must not be empty"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := Default()
			tc.mutate(&p)
			issues := ValidatePipeline(p)
			assert.True(t, hasIssue(issues, tc.sev, tc.path, tc.msg), "issues: %+v", issues)
			assert.Equal(t, tc.sev == SeverityError, HasErrors(issues))
		})
	}
}

func TestIssue_Error(t *testing.T) {
	iss := Issue{Severity: SeverityError, Path: "job", Message: "boom"}
	assert.Equal(t, "error at job: boom", iss.Error())
}

func TestValidatePipeline_StorageKindsFromRegistry(t *testing.T) {
	p := Default()
	p.Storage = Storage{Kind: "oracle", DB: DBConfig{DSN: "x", Table: "t"}}
	assert.True(t, hasIssue(ValidatePipeline(p), SeverityError, "storage.kind", "registered: mssql, mysql, postgres, sqlite"))

	for _, kind := range []string{"mssql", "mysql", "postgres", "sqlite"} {
		p.Storage.Kind = kind
		assert.False(t, HasErrors(ValidatePipeline(p)), kind)
	}
}
