package normalize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var scientificPattern = regexp.MustCompile(`^[+-]?\d+(?:[.,]\d+)?[eE]([+-]?\d+)$`)

// MaxExponent bounds exponential notation. Identifiers never exceed 2^53, and expanding
// a larger exponent costs time proportional to its value.
const MaxExponent = 21

// scientific reports whether t is exponential notation and whether its exponent is
// small enough to expand.
func scientific(t string) (match, bounded bool) {
	m := scientificPattern.FindStringSubmatch(t)
	if m == nil {
		return false, false
	}
	exp, err := strconv.Atoi(m[1])
	return true, err == nil && exp >= -MaxExponent && exp <= MaxExponent
}

// CleanDecimal parses a locale-ambiguous numeric string. Characters other than digits,
// separators and minus are stripped first, except for exponential notation which is
// parsed as written. When both ',' and '.' appear, the one that
// occurs last is the decimal separator; a lone separator that repeats is a thousands
// separator. The boolean is false when nothing numeric is left, or when the exponent
// exceeds MaxExponent.
func CleanDecimal(s string) (decimal.Decimal, bool) {
	t := strings.TrimSpace(s)
	if match, bounded := scientific(t); match {
		if !bounded {
			return decimal.Zero, false
		}
		if d, err := decimal.NewFromString(strings.Replace(t, ",", ".", 1)); err == nil {
			return d, true
		}
	}

	var b strings.Builder
	b.Grow(len(s))
	digits := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits = true
			b.WriteRune(r)
		case r == ',' || r == '.' || r == '-':
			b.WriteRune(r)
		}
	}
	if !digits {
		return decimal.Zero, false
	}

	cleaned := b.String()
	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.ReplaceAll(cleaned, "-", "")

	var sep byte
	lastComma := strings.LastIndexByte(cleaned, ',')
	lastDot := strings.LastIndexByte(cleaned, '.')
	switch {
	case lastComma >= 0 && lastDot >= 0:
		if lastComma > lastDot {
			sep = ','
		} else {
			sep = '.'
		}
	case lastComma >= 0 && strings.Count(cleaned, ",") == 1:
		sep = ','
	case lastDot >= 0 && strings.Count(cleaned, ".") == 1:
		sep = '.'
	}

	var num strings.Builder
	num.Grow(len(cleaned) + 2)
	if negative {
		num.WriteByte('-')
	}
	last := -1
	if sep != 0 {
		last = strings.LastIndexByte(cleaned, sep)
	}
	for i := 0; i < len(cleaned); i++ {
		c := cleaned[i]
		switch {
		case i == last:
			if num.Len() == 0 || (negative && num.Len() == 1) {
				num.WriteByte('0')
			}
			num.WriteByte('.')
		case c == ',' || c == '.':
		default:
			num.WriteByte(c)
		}
	}

	str := strings.TrimSuffix(num.String(), ".")
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// CleanNumeric returns nil for input without digits so a missing measurement never
// reads as a measured zero.
func CleanNumeric(s string) *float64 {
	d, ok := CleanDecimal(s)
	if !ok {
		return nil
	}
	f := d.InexactFloat64()
	return &f
}

// IsScientific reports whether s is written in exponential notation.
func IsScientific(s string) bool {
	match, _ := scientific(strings.TrimSpace(s))
	return match
}

// FixScientific restores identifiers that a spreadsheet rendered as "1.23457E+11" to
// their plain integer digits. Other values, and exponents beyond MaxExponent, are
// trimmed and uppercased.
func FixScientific(s string) string {
	s = strings.TrimSpace(s)
	if _, bounded := scientific(s); !bounded {
		return strings.ToUpper(s)
	}

	d, err := decimal.NewFromString(strings.Replace(s, ",", ".", 1))
	if err != nil {
		return strings.ToUpper(s)
	}
	return d.Round(0).String()
}
