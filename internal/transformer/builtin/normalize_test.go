package builtin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anonymizer/pkg/records"
)

func TestNormalize_Apply(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"a", "b", "c"},
		Rows: []records.Record{
			{"a": "  North Region ", "b": "Cafe\u0301", "c": 3},
			{"a": "Hill\u00c2\u00a0School", "b": "   ", "c": nil},
		},
	}

	require.NoError(t, Normalize{}.Apply(tbl))

	assert.Equal(t, "North Region", tbl.Rows[0]["a"])
	assert.Equal(t, "Caf\u00e9", tbl.Rows[0]["b"], "NFC composes e + combining acute")
	assert.Equal(t, 3, tbl.Rows[0]["c"])
	assert.Equal(t, "Hill School", tbl.Rows[1]["a"])
	assert.Nil(t, tbl.Rows[1]["b"])
}

func TestNormalize_SelectedColumns(t *testing.T) {
	tbl := &records.Table{
		Columns: []string{"a", "b"},
		Rows:    []records.Record{{"a": " x ", "b": " y "}},
	}

	require.NoError(t, Normalize{Columns: []string{"b"}}.Apply(tbl))
	assert.Equal(t, " x ", tbl.Rows[0]["a"])
	assert.Equal(t, "y", tbl.Rows[0]["b"])

	var mc *records.MissingColumnError
	assert.ErrorAs(t, Normalize{Columns: []string{"zz"}}.Apply(tbl), &mc)
}
