package delimited

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decode converts an uploaded file to UTF-8 text. A UTF-8 or UTF-16 byte order mark
// is honoured and stripped; input without one that is not valid UTF-8 is read as
// Windows-1252, which is what spreadsheet exports on office machines produce.
func Decode(raw []byte) (string, error) {
	fallback := unicode.UTF8.NewDecoder()
	if !utf8.Valid(raw) {
		fallback = charmap.Windows1252.NewDecoder()
	}

	out, _, err := transform.Bytes(unicode.BOMOverride(fallback), raw)
	if err != nil {
		return "", fmt.Errorf("decode input: %w", err)
	}
	return string(out), nil
}
