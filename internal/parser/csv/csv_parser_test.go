package csv_test

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonymizer/internal/config"
	pcsv "anonymizer/internal/parser/csv"
)

func TestParse_HeaderAndMissingValues(t *testing.T) {
	in := "School Name,Region,DateOnly\n" +
		"Alpha,North,31/12/2024 13:45:00\n" +
		",South,\n"

	tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	require.NoError(t, err)

	assert.Equal(t, []string{"School Name", "Region", "DateOnly"}, tbl.Columns)
	require.Equal(t, 2, tbl.Len())
	assert.Equal(t, "Alpha", tbl.Rows[0]["School Name"])
	assert.Equal(t, "31/12/2024 13:45:00", tbl.Rows[0]["DateOnly"])
	assert.Nil(t, tbl.Rows[1]["School Name"])
	assert.Nil(t, tbl.Rows[1]["DateOnly"])
}

func TestParse_Latin1(t *testing.T) {
	// "Région,Zoë" in ISO-8859-1.
	raw := []byte{'R', 0xE9, 'g', 'i', 'o', 'n', '\n', 'Z', 'o', 0xEB, '\n'}

	tbl, err := pcsv.NewParser(pcsv.Options{Encoding: "latin-1"}).Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, []string{"Région"}, tbl.Columns)
	assert.Equal(t, "Zoë", tbl.Rows[0]["Région"])
}

func TestParse_Windows1252(t *testing.T) {
	// 0x80 is the euro sign in windows-1252 but a control character in latin-1.
	raw := []byte("Cost\n\x8010\n")

	tbl, err := pcsv.NewParser(pcsv.Options{Encoding: "windows-1252"}).Parse(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, "€10", tbl.Rows[0]["Cost"])
}

func TestParse_StripsBOM(t *testing.T) {
	raw := []byte("\xEF\xBB\xBFDateOnly,Region\nx,y\n")

	for _, enc := range []string{"utf-8", "latin-1"} {
		t.Run(enc, func(t *testing.T) {
			tbl, err := pcsv.NewParser(pcsv.Options{Encoding: enc}).Parse(bytes.NewReader(raw))
			require.NoError(t, err)
			assert.Equal(t, "DateOnly", tbl.Columns[0])
		})
	}
}

func TestParse_ShortRowsArePadded(t *testing.T) {
	in := "a,b,c\nx,y\np,q,r\n"

	tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Equal(t, 2, tbl.Len())
	assert.Nil(t, tbl.Rows[0]["c"])
	assert.Equal(t, "r", tbl.Rows[1]["c"])
}

func TestParse_MalformedRowsAbort(t *testing.T) {
	t.Run("too many fields", func(t *testing.T) {
		in := "School Name,Ticket ID\nAcme,1\nWide,2,EXTRA\nBeta,3\n"

		tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
		require.Error(t, err)
		assert.Nil(t, tbl)

		var fc *pcsv.FieldCountError
		require.ErrorAs(t, err, &fc)
		assert.Equal(t, 3, fc.Line)
		assert.EqualError(t, err, "read csv line 3: expected 2 fields, saw 3")
	})

	t.Run("bad quoting", func(t *testing.T) {
		in := "a,b\n\"x\"y,1\n"

		_, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
		var pe *csv.ParseError
		assert.ErrorAs(t, err, &pe)
		assert.ErrorContains(t, err, "read csv line 2")
	})
}

func TestParse_NAValues(t *testing.T) {
	in := "School Name,Region\nN/A,NA\nnull,#N/A\nAcme,none\n-,North\n"

	tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Nil(t, tbl.Rows[0]["School Name"])
	assert.Nil(t, tbl.Rows[0]["Region"])
	assert.Nil(t, tbl.Rows[1]["School Name"])
	assert.Nil(t, tbl.Rows[1]["Region"])
	assert.Equal(t, "none", tbl.Rows[2]["Region"], "matching is case sensitive")
	assert.Equal(t, "-", tbl.Rows[3]["School Name"])

	tbl, err = pcsv.NewParser(pcsv.Options{NoDefaultNA: true, NAValues: []string{"-"}}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "N/A", tbl.Rows[0]["School Name"])
	assert.Nil(t, tbl.Rows[3]["School Name"])
}

func TestParse_NumericColumns(t *testing.T) {
	in := "Ticket ID,Score,Code,Blank\n1001,1,007,\n1002,2.5,A7,\n,NaN,9,\n"

	tbl, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, int64(1001), tbl.Rows[0]["Ticket ID"])
	assert.Nil(t, tbl.Rows[2]["Ticket ID"])
	assert.Equal(t, 1.0, tbl.Rows[0]["Score"])
	assert.Equal(t, 2.5, tbl.Rows[1]["Score"])
	assert.Equal(t, "007", tbl.Rows[0]["Code"])
	assert.Nil(t, tbl.Rows[0]["Blank"])

	tbl, err = pcsv.NewParser(pcsv.Options{KeepText: true}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "1001", tbl.Rows[0]["Ticket ID"])
}

func TestNumberChecks(t *testing.T) {
	cases := []struct {
		in      string
		integer bool
		numeric bool
	}{
		{"42", true, true},
		{"-7", true, true},
		{"2.5", false, true},
		{"1e3", false, true},
		{"inf", false, false},
		{"NaN", false, false},
		{"0x10", false, false},
		{"1_000", false, false},
		{"12 ", false, false},
		{"", false, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.integer, pcsv.IsInteger(tc.in))
			assert.Equal(t, tc.numeric, pcsv.IsNumber(tc.in))
		})
	}
}

func TestParse_HeaderMapAndDuplicates(t *testing.T) {
	in := "Schule, Region ,Region,\n1,2,3,4\n"

	p := pcsv.NewParser(pcsv.Options{HeaderMap: map[string]string{"Schule": "School Name"}})
	tbl, err := p.Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []string{"School Name", "Region", "Region.1", "Unnamed: 3"}, tbl.Columns)
	assert.Equal(t, int64(3), tbl.Rows[0]["Region.1"])
}

func TestParse_TrimSpaceAndDelimiter(t *testing.T) {
	in := "a;b\n  x ; y\n"

	tbl, err := pcsv.NewParser(pcsv.Options{Comma: ';', TrimSpace: true}).Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, "x", tbl.Rows[0]["a"])
	assert.Equal(t, "y", tbl.Rows[0]["b"])
}

func TestParse_Errors(t *testing.T) {
	_, err := pcsv.NewParser(pcsv.Options{}).Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, pcsv.ErrEmptyInput)

	_, err = pcsv.NewParser(pcsv.Options{Encoding: "ebcdic"}).Parse(strings.NewReader("a\n"))
	assert.ErrorContains(t, err, "unsupported encoding")
}

func TestOptionsFromConfig(t *testing.T) {
	opt := pcsv.OptionsFromConfig(
		config.SourceFile{Path: "x.csv", Encoding: "cp1252"},
		config.Parser{Kind: "csv", Options: config.Options{"comma": ";", "lazy_quotes": true}},
	)
	assert.Equal(t, ';', opt.Comma)
	assert.Equal(t, "cp1252", opt.Encoding)
	assert.True(t, opt.LazyQuotes)
	assert.False(t, opt.TrimSpace)
	assert.Nil(t, opt.HeaderMap)
	assert.False(t, opt.NoDefaultNA)
	assert.False(t, opt.KeepText)

	opt = pcsv.OptionsFromConfig(config.SourceFile{}, config.Parser{Options: config.Options{
		"keep_default_na": false,
		"infer_numeric":   false,
		"na_values":       []any{"-", "?"},
	}})
	assert.True(t, opt.NoDefaultNA)
	assert.True(t, opt.KeepText)
	assert.Equal(t, []string{"-", "?"}, opt.NAValues)
}
