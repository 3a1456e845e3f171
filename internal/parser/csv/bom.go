package csv

import "strings"

const (
	utf8BOM = "\uFEFF"

	// latin1BOM is a UTF-8 BOM after it has been decoded as latin-1.
	latin1BOM = "\u00ef\u00bb\u00bf"
)

// StripHeaderBOM removes a byte order mark from the first header cell if
// present, whether it survived decoding as U+FEFF or as latin-1 mojibake.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	h := strings.TrimPrefix(headers[0], utf8BOM)
	headers[0] = strings.TrimPrefix(h, latin1BOM)
	return headers
}
