package delimited

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected [][]string
	}{
		{
			name:     "Simple comma rows",
			input:    "a,b\n1,2\n",
			expected: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:     "CRLF line endings",
			input:    "a,b\r\n1,2\r\n",
			expected: [][]string{{"a", "b"}, {"1", "2"}},
		},
		{
			name:     "Delimiter and newline inside quotes",
			input:    "a,b\n\"x, y\",\"line1\nline2\"\n",
			expected: [][]string{{"a", "b"}, {"x, y", "line1\nline2"}},
		},
		{
			name:     "Doubled quotes",
			input:    "\"say \"\"hi\"\"\",b",
			expected: [][]string{{"say \"hi\"", "b"}},
		},
		{
			name:     "Blank lines skipped and trailing row kept",
			input:    "a\n\n   \nb",
			expected: [][]string{{"a"}, {"b"}},
		},
		{
			name:     "Quote inside unquoted field is literal",
			input:    "ab\"c,d",
			expected: [][]string{{"ab\"c", "d"}},
		},
		{
			name:     "Empty quoted field is a row",
			input:    "\"\"\n",
			expected: [][]string{{""}},
		},
		{
			name:     "Empty fields preserved",
			input:    "a,,c\n",
			expected: [][]string{{"a", "", "c"}},
		},
		{
			name:     "Empty input",
			input:    "",
			expected: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := Parse(tc.input, Options{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(res.Rows, tc.expected) {
				t.Errorf("rows = %q, want %q", res.Rows, tc.expected)
			}
		})
	}
}

func TestParseUnterminatedQuote(t *testing.T) {
	res, err := Parse("a,b\n\"open,c\nd,e", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := [][]string{{"a", "b"}, {"\"open", "c"}, {"d", "e"}}
	if !reflect.DeepEqual(res.Rows, expected) {
		t.Errorf("rows = %q, want %q", res.Rows, expected)
	}
	if res.RecoveredQuotes != 1 {
		t.Errorf("RecoveredQuotes = %d, want 1", res.RecoveredQuotes)
	}
}

func TestParseSemicolon(t *testing.T) {
	res, err := Parse("IDPEL;NAMA\n123456789;\"A;B\"\n", Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Delimiter != ';' {
		t.Errorf("Delimiter = %q, want ';'", res.Delimiter)
	}

	expected := [][]string{{"IDPEL", "NAMA"}, {"123456789", "A;B"}}
	if !reflect.DeepEqual(res.Rows, expected) {
		t.Errorf("rows = %q, want %q", res.Rows, expected)
	}
}

func TestParseForcedDelimiter(t *testing.T) {
	res, err := Parse("a;b,c\n", Options{Delimiter: ','})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := [][]string{{"a;b", "c"}}
	if !reflect.DeepEqual(res.Rows, expected) {
		t.Errorf("rows = %q, want %q", res.Rows, expected)
	}
}

func TestParseErrors(t *testing.T) {
	_, err := Parse("ab\nabcd", Options{MaxFieldSize: 3})
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if !errors.Is(err, ErrFieldTooLarge) {
		t.Errorf("expected ErrFieldTooLarge, got %v", err)
	}
	if pe.Line != 2 {
		t.Errorf("Line = %d, want 2", pe.Line)
	}

	_, err = Parse("PK\x03\x04\x00\x00", Options{})
	if !errors.Is(err, ErrBinaryInput) {
		t.Errorf("expected ErrBinaryInput, got %v", err)
	}
}

func TestDetectDelimiter(t *testing.T) {
	testCases := []struct {
		input    string
		expected byte
	}{
		{"a,b;c;d", ';'},
		{"a;b,c,d", ','},
		{"a,b;c", ','},
		{"\"x;y;z\",b", ','},
		{"a;b\nc,d,e,f", ';'},
		{"", ','},
	}

	for _, tc := range testCases {
		if got := DetectDelimiter(tc.input); got != tc.expected {
			t.Errorf("DetectDelimiter(%q) = %q, want %q", tc.input, got, tc.expected)
		}
	}
}
