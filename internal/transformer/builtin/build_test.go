package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonymizer/internal/config"
	"anonymizer/internal/transformer"
	"anonymizer/pkg/records"
)

func TestFromConfig(t *testing.T) {
	cases := []struct {
		name string
		in   config.Transform
		want any
	}{
		{"parse_dates", config.Transform{Kind: "parse_dates", Options: config.Options{"columns": []any{"DateOnly"}}},
			ParseDates{Columns: []string{"DateOnly"}}},
		{"pseudonymize", config.Transform{Kind: "pseudonymize", Options: config.Options{"column": "County", "prefix": "Location"}},
			Pseudonymize{Column: "County", Prefix: "Location"}},
		{"overwrite", config.Transform{Kind: "overwrite", Options: config.Options{"column": "Sub Module", "value": "Generic Module"}},
			Overwrite{Column: "Sub Module", Value: "Generic Module"}},
		{"normalize", config.Transform{Kind: "normalize", Options: config.Options{}},
			Normalize{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := FromConfig(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromConfig_Errors(t *testing.T) {
	for _, tc := range []config.Transform{
		{Kind: "dedup"},
		{Kind: "parse_dates", Options: config.Options{}},
		{Kind: "pseudonymize", Options: config.Options{"column": "Region"}},
		{Kind: "overwrite", Options: config.Options{"value": "x"}},
	} {
		_, err := FromConfig(tc)
		assert.Error(t, err, "kind %q", tc.Kind)
	}

	_, err := BuildChain([]config.Transform{{Kind: "normalize"}, {Kind: "nope"}}, nil)
	assert.ErrorContains(t, err, "transform[1]")
}

// TestDefaultChain runs the built-in issue tracker pipeline over a tiny table.
func TestDefaultChain(t *testing.T) {
	cols := append([]string{}, config.DateColumns...)
	for _, p := range config.Pseudonyms {
		cols = append(cols, p.Column)
	}
	cols = append(cols, config.ColumnIssueTitle, config.ColumnSubModule)

	row := func(school any) records.Record {
		r := records.Record{}
		for _, c := range cols {
			r[c] = "v"
		}
		r[config.ColumnSchool] = school
		r["DateOnly"] = "2024-12-31 13:45:00"
		r["event_timestamp"] = "garbage"
		return r
	}
	tbl := &records.Table{Columns: cols, Rows: []records.Record{row("A"), row("A"), row(nil), row("B")}}

	sum := transformer.NewSummary()
	chain, err := BuildChain(config.Default().Transform, sum)
	require.NoError(t, err)
	require.NoError(t, chain.Apply(tbl))

	assert.Equal(t, 4, sum.DatesUnparsed["event_timestamp"])
	assert.NotContains(t, sum.DatesUnparsed, "DateOnly")
	assert.Equal(t, 16, sum.TotalUnparsed())
	assert.Equal(t, 2, sum.Labels[config.ColumnSchool])
	assert.Equal(t, 1, sum.Labels[config.ColumnRegion])

	schools, _ := tbl.Values(config.ColumnSchool)
	assert.Equal(t, []any{"School 1", "School 1", nil, "School 3"}, schools)
	assert.Equal(t, "Agent 1", tbl.Rows[3][config.ColumnResolvedBy])
	assert.Equal(t, "Location 1", tbl.Rows[0][config.ColumnCounty])
	assert.Nil(t, tbl.Rows[0]["event_timestamp"])
	assert.NotNil(t, tbl.Rows[0]["DateOnly"])
	for _, r := range tbl.Rows {
		assert.Equal(t, config.GenericIssueTitle, r[config.ColumnIssueTitle])
		assert.Equal(t, config.GenericSubModule, r[config.ColumnSubModule])
	}
}
