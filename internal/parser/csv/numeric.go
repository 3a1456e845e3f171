package csv

import (
	"strconv"
	"strings"

	"anonymizer/pkg/records"
)

// DefaultNAValues are the tokens spreadsheet exports use for "no value".
var DefaultNAValues = []string{
	"#N/A", "#N/A N/A", "#NA", "-1.#IND", "-1.#QNAN", "-NaN", "-nan",
	"1.#IND", "1.#QNAN", "<NA>", "N/A", "NA", "NULL", "NaN", "None",
	"n/a", "nan", "null",
}

// IsInteger reports whether s is a base-10 integer that fits in int64.
func IsInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// IsNumber reports whether s is a decimal number, integers included.
// Infinities, NaN and hex floats are text.
func IsNumber(s string) bool {
	if s == "" || strings.ContainsAny(s, "xXpPiInN_") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

// ConvertNumeric replaces the string values of every column whose present
// values are all numbers: all-integer columns become int64, other numeric
// columns float64. Columns without a present value are left alone. It
// returns the converted column names in header order.
func ConvertNumeric(t *records.Table) []string {
	var converted []string
	for _, c := range t.Columns {
		seen, ints, nums := false, true, true
		for _, r := range t.Rows {
			s, ok := r[c].(string)
			if !ok {
				if r[c] != nil {
					ints, nums = false, false
				}
				continue
			}
			seen = true
			if ints && !IsInteger(s) {
				ints = false
			}
			if !IsNumber(s) {
				nums = false
				break
			}
		}
		if !seen || !nums {
			continue
		}
		for _, r := range t.Rows {
			s, ok := r[c].(string)
			if !ok {
				continue
			}
			if ints {
				n, _ := strconv.ParseInt(s, 10, 64)
				r[c] = n
			} else {
				f, _ := strconv.ParseFloat(s, 64)
				r[c] = f
			}
		}
		converted = append(converted, c)
	}
	return converted
}
