package source

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"lpb-monitor/internal/models"
)

// decodeRows expects a JSON array of objects. An object payload is a server-side error
// or status message and is reported as malformed with its message as detail.
func decodeRows(name string, status int, body []byte) ([]map[string]any, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &FetchError{Source: name, Status: status, Detail: errorDetail(trimmed), Err: ErrMalformedPayload}
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	var rows []map[string]any
	if err := dec.Decode(&rows); err != nil {
		return nil, &FetchError{Source: name, Status: status, Detail: err.Error(), Err: ErrMalformedPayload}
	}
	return rows, nil
}

// errorDetail pulls a human readable message out of an error body.
func errorDetail(body []byte) string {
	var obj map[string]any
	if json.Unmarshal(body, &obj) == nil {
		for _, k := range []string{"message", "details", "error", "hint", "status"} {
			if v, ok := obj[k].(string); ok && v != "" {
				return v
			}
		}
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// objectsToTable flattens row objects into a RawTable with sorted headers.
func objectsToTable(rows []map[string]any) *models.RawTable {
	seen := make(map[string]struct{})
	for _, r := range rows {
		for k := range r {
			seen[k] = struct{}{}
		}
	}
	headers := make([]string, 0, len(seen))
	for k := range seen {
		headers = append(headers, k)
	}
	sort.Strings(headers)

	table := &models.RawTable{Headers: headers, Rows: make([][]string, 0, len(rows))}
	for _, r := range rows {
		row := make([]string, len(headers))
		for i, h := range headers {
			row[i] = cellString(r[h])
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func cellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	}
}
