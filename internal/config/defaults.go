package config

// Column names of the issue tracker export.
const (
	ColumnSchool              = "School Name"
	ColumnRegionalManager     = "Regional Manager Name"
	ColumnRelationshipManager = "Relationship Manager Name"
	ColumnResolvedBy          = "Resolved By Name"
	ColumnRegion              = "Region"
	ColumnCountry             = "Country"
	ColumnCounty              = "County"
	ColumnIssueTitle          = "Issue Title"
	ColumnSubModule           = "Sub Module"
)

// DateColumns are parsed into timestamps while loading.
var DateColumns = []string{
	"DateOnly",
	"event_timestamp",
	"first_response_timestamp",
	"resolution_timestamp",
	"Ticket Creation Date",
}

// Pseudonym pairs an identifying column with the label prefix used for it.
type Pseudonym struct {
	Column string
	Prefix string
}

// Pseudonyms lists the identity columns in the order they are replaced.
var Pseudonyms = []Pseudonym{
	{ColumnSchool, "School"},
	{ColumnRegionalManager, "Regional Manager"},
	{ColumnRelationshipManager, "Relationship Manager"},
	{ColumnResolvedBy, "Agent"},
	{ColumnRegion, "Region"},
	{ColumnCountry, "Country"},
	{ColumnCounty, "Location"},
}

// Placeholder values for the free-text columns.
const (
	GenericIssueTitle = "Generic Issue Description"
	GenericSubModule  = "Generic Module"
)

// Default returns the built-in issue tracker pipeline used when no config
// file is given.
func Default() Pipeline {
	tr := []Transform{{
		Kind:    "parse_dates",
		Options: Options{"columns": append([]string(nil), DateColumns...)},
	}}
	for _, p := range Pseudonyms {
		tr = append(tr, Transform{
			Kind:    "pseudonymize",
			Options: Options{"column": p.Column, "prefix": p.Prefix},
		})
	}
	tr = append(tr,
		Transform{Kind: "overwrite", Options: Options{"column": ColumnIssueTitle, "value": GenericIssueTitle}},
		Transform{Kind: "overwrite", Options: Options{"column": ColumnSubModule, "value": GenericSubModule}},
	)

	return Pipeline{
		Job: "issue_tracker_anonymize",
		Source: Source{
			Kind: "file",
			File: SourceFile{Path: "ISSUE TRACKER.csv", Encoding: "latin-1"},
		},
		Parser:    Parser{Kind: "csv", Options: Options{"comma": ","}},
		Transform: tr,
		Output: Output{
			Kind:     "xlsx",
			Dir:      "Portfolio_Output",
			Filename: "anonymized_portfolio_data.xlsx",
			Sheet:    "Sheet1",
		},
		Storage: Storage{DB: DBConfig{BatchSize: 1000}},
	}
}
