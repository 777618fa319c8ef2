// Package query filters the canonical record set.
package query

import (
	"sort"
	"strings"

	"lpb-monitor/internal/models"
)

// AnyValue, like an empty string, leaves a criterion unconstrained.
const AnyValue = "ALL"

// Filter is a conjunction of criteria. Officer matches as a case-insensitive substring,
// the others match whole values.
type Filter struct {
	Period     string                  `json:"period"`
	Unit       string                  `json:"unit"`
	Officer    string                  `json:"officer"`
	Validation models.ValidationStatus `json:"validation"`
}

func (f Filter) normalized() Filter {
	return Filter{
		Period:     unconstrained(f.Period),
		Unit:       strings.ToUpper(unconstrained(f.Unit)),
		Officer:    strings.ToUpper(strings.TrimSpace(f.Officer)),
		Validation: models.ValidationStatus(strings.ToUpper(unconstrained(string(f.Validation)))),
	}
}

func (f Filter) IsZero() bool {
	return f.normalized() == Filter{}
}

func (f Filter) Match(r models.Record) bool {
	return f.normalized().match(r)
}

func (f Filter) match(r models.Record) bool {
	if f.Period != "" && r.Period != f.Period {
		return false
	}
	if f.Unit != "" && strings.ToUpper(r.Unit) != f.Unit {
		return false
	}
	if f.Officer != "" && !strings.Contains(strings.ToUpper(r.OfficerName), f.Officer) {
		return false
	}
	if f.Validation != "" && r.ValidationStatus != f.Validation {
		return false
	}
	return true
}

// Apply returns the matching records in input order. The input is not modified.
func Apply(records []models.Record, f Filter) []models.Record {
	nf := f.normalized()
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if nf.match(r) {
			out = append(out, r)
		}
	}
	return out
}

func Mappable(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if r.Mappable() {
			out = append(out, r)
		}
	}
	return out
}

func InBounds(records []models.Record, b models.Bounds) []models.Record {
	out := make([]models.Record, 0)
	for _, r := range records {
		if b.Contains(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterOptions lists the distinct values offered for each criterion.
type FilterOptions struct {
	Periods  []string `json:"periods"`
	Units    []string `json:"units"`
	Officers []string `json:"officers"`
}

func Options(records []models.Record) FilterOptions {
	periods := map[string]struct{}{}
	units := map[string]struct{}{}
	officers := map[string]struct{}{}
	for _, r := range records {
		add(periods, r.Period)
		add(units, r.Unit)
		add(officers, r.OfficerName)
	}
	return FilterOptions{
		Periods:  sorted(periods),
		Units:    sorted(units),
		Officers: sorted(officers),
	}
}

func add(set map[string]struct{}, v string) {
	v = strings.TrimSpace(v)
	if v == "" || v == "-" {
		return
	}
	set[v] = struct{}{}
}

func sorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func unconstrained(s string) string {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, AnyValue) {
		return ""
	}
	return s
}
