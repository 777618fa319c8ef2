package normalize

import (
	"strconv"

	"lpb-monitor/internal/models"
)

type extraColumn struct {
	index int
	key   string
}

// HeaderIndex is a header row resolved to column positions. It is immutable and safe
// for concurrent use.
type HeaderIndex struct {
	columns map[models.Field][]int
	extras  []extraColumn
	width   int
}

func Compile(headers []string) *HeaderIndex {
	idx := &HeaderIndex{
		columns: make(map[models.Field][]int),
		width:   len(headers),
	}

	for i, h := range headers {
		if f, ok := Lookup(h); ok {
			idx.columns[f] = append(idx.columns[f], i)
			continue
		}
		key := ExtraKey(h)
		if key == "" {
			key = "column_" + strconv.Itoa(i+1)
		}
		idx.extras = append(idx.extras, extraColumn{index: i, key: key})
	}
	return idx
}

func (x *HeaderIndex) Has(f models.Field) bool {
	return len(x.columns[f]) > 0
}

func (x *HeaderIndex) Width() int {
	return x.width
}

// value returns the first non-empty cell among the columns mapped to f.
func (x *HeaderIndex) value(row []string, f models.Field) (string, bool) {
	for _, i := range x.columns[f] {
		if i < len(row) {
			if v := trim(row[i]); v != "" {
				return v, true
			}
		}
	}
	return "", false
}
