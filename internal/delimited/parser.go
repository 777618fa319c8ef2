// Package delimited turns comma or semicolon separated text into rows of raw fields.
//
// Quoting follows the doubled-quote convention. A quote only opens a quoted field at the
// start of a field; anywhere else it is kept as a literal character. When a quoted field is
// never closed, parsing rewinds to its opening quote and reads it again with that quote taken
// literally, so the field ends at the next delimiter or line break. This recovery is
// deterministic and always terminates because each rewind moves strictly forward.
package delimited

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultMaxFieldSize = 1 << 20

var (
	ErrFieldTooLarge = errors.New("field exceeds maximum size")
	ErrBinaryInput   = errors.New("input contains NUL bytes")
)

type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error on line %d: %v", e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

type Options struct {
	// Delimiter forces ',' or ';'. Zero means detect from the first line.
	Delimiter byte
	// MaxFieldSize bounds a single field in bytes. Zero means DefaultMaxFieldSize.
	MaxFieldSize int
}

type Result struct {
	Rows            [][]string
	Delimiter       byte
	RecoveredQuotes int
}

func Parse(text string, opts Options) (*Result, error) {
	if i := strings.IndexByte(text, 0); i >= 0 {
		return nil, &ParseError{Line: 1 + strings.Count(text[:i], "\n"), Err: ErrBinaryInput}
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = DetectDelimiter(text)
	}
	maxField := opts.MaxFieldSize
	if maxField <= 0 {
		maxField = DefaultMaxFieldSize
	}

	p := &parser{text: text, delim: delim, maxField: maxField, literalAt: -1, line: 1}
	if err := p.run(); err != nil {
		return nil, err
	}

	return &Result{Rows: p.rows, Delimiter: delim, RecoveredQuotes: p.recovered}, nil
}

type parser struct {
	text     string
	delim    byte
	maxField int

	rows  [][]string
	row   []string
	field strings.Builder

	// quoted is set once the current field opened with a quote.
	quoted     bool
	inQuotes   bool
	quoteStart int
	quoteLine  int
	literalAt  int
	recovered  int
	line       int
}

func (p *parser) run() error {
	n := len(p.text)
	i := 0
	for {
		if i >= n {
			if p.inQuotes {
				// Closing quote never arrived: re-read from the opening quote as a literal.
				i = p.rewind()
				continue
			}
			break
		}
		c := p.text[i]

		if p.inQuotes {
			switch {
			case c == '"' && i+1 < n && p.text[i+1] == '"':
				p.field.WriteByte('"')
				i += 2
			case c == '"':
				p.inQuotes = false
				i++
			default:
				if c == '\n' {
					p.line++
				}
				p.field.WriteByte(c)
				i++
			}
			if err := p.checkSize(); err != nil {
				return err
			}
			continue
		}

		switch {
		case c == '"' && i != p.literalAt && !p.quoted && p.field.Len() == 0:
			p.inQuotes = true
			p.quoted = true
			p.quoteStart = i
			p.quoteLine = p.line
			i++
		case c == p.delim:
			p.endField()
			i++
		case c == '\r':
			p.endRow()
			i++
			if i < n && p.text[i] == '\n' {
				i++
			}
			p.line++
		case c == '\n':
			p.endRow()
			i++
			p.line++
		default:
			p.field.WriteByte(c)
			i++
			if err := p.checkSize(); err != nil {
				return err
			}
		}
	}

	if p.field.Len() > 0 || len(p.row) > 0 || p.quoted {
		p.endRow()
	}
	return nil
}

func (p *parser) rewind() int {
	p.inQuotes = false
	p.quoted = false
	p.field.Reset()
	p.literalAt = p.quoteStart
	p.line = p.quoteLine
	p.recovered++
	return p.quoteStart
}

func (p *parser) checkSize() error {
	if p.field.Len() > p.maxField {
		return &ParseError{Line: p.line, Err: ErrFieldTooLarge}
	}
	return nil
}

func (p *parser) endField() {
	p.row = append(p.row, p.field.String())
	p.field.Reset()
	p.quoted = false
}

func (p *parser) endRow() {
	wasQuoted := p.quoted
	p.endField()
	if len(p.row) == 1 && !wasQuoted && strings.TrimSpace(p.row[0]) == "" {
		p.row = nil
		return
	}
	p.rows = append(p.rows, p.row)
	p.row = nil
}
