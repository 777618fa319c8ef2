package models

// RawTable is a batch of untyped rows as delivered by a transport, before normalization.
type RawTable struct {
	Headers []string
	Rows    [][]string
}

func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Truncate keeps at most n rows and reports whether rows were cut.
func (t *RawTable) Truncate(n int) bool {
	if t == nil || n < 0 || len(t.Rows) <= n {
		return false
	}
	t.Rows = t.Rows[:n]
	return true
}

// RawTableFromRows treats the first row as the header row.
func RawTableFromRows(rows [][]string) *RawTable {
	if len(rows) == 0 {
		return &RawTable{}
	}
	return &RawTable{Headers: rows[0], Rows: rows[1:]}
}
