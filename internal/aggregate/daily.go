package aggregate

import (
	"sort"
	"strings"

	"lpb-monitor/internal/models"
)

// DailyRealization returns one series per unit, or a single series for officer when it
// is set. Every series covers the same naturally sorted dates; records without a date
// are left out.
func DailyRealization(records []models.Record, officer string) []models.DailySeries {
	dateSet := make(map[string]struct{})
	unitSet := make(map[string]struct{})
	type cell struct{ realized, target float64 }
	cells := make(map[[2]string]*cell)

	for _, r := range records {
		date := strings.TrimSpace(r.Date)
		if date == "" {
			continue
		}
		if officer != "" && r.OfficerName != officer {
			dateSet[date] = struct{}{}
			continue
		}

		label := r.Unit
		if officer != "" {
			label = officer
		}
		dateSet[date] = struct{}{}
		unitSet[label] = struct{}{}

		k := [2]string{label, date}
		c, ok := cells[k]
		if !ok {
			c = &cell{}
			cells[k] = c
		}
		c.realized += r.Realized()
		c.target += r.TotalWorkOrders
	}

	dates := sortedKeys(dateSet, naturalLess)
	var labels []string
	if officer != "" {
		labels = []string{officer}
	} else {
		labels = sortedKeys(unitSet, func(a, b string) bool { return a < b })
	}

	series := make([]models.DailySeries, 0, len(labels))
	for _, label := range labels {
		s := models.DailySeries{Label: label, Points: make([]models.DailyPoint, len(dates))}
		for i, d := range dates {
			s.Points[i] = models.DailyPoint{Date: d}
			if c, ok := cells[[2]string{label, d}]; ok {
				s.Points[i].Realized = c.realized
				s.Points[i].Target = c.target
			}
		}
		series = append(series, s)
	}
	return series
}

func sortedKeys(set map[string]struct{}, less func(a, b string) bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// naturalLess compares digit runs by numeric value, so "2" sorts before "10".
func naturalLess(a, b string) bool {
	for a != "" && b != "" {
		ca, cb := a[0], b[0]
		if isDigit(ca) && isDigit(cb) {
			na, ra := digitRun(a)
			nb, rb := digitRun(b)
			ta, tb := strings.TrimLeft(na, "0"), strings.TrimLeft(nb, "0")
			if len(ta) != len(tb) {
				return len(ta) < len(tb)
			}
			if ta != tb {
				return ta < tb
			}
			if len(na) != len(nb) {
				return len(na) < len(nb)
			}
			a, b = ra, rb
			continue
		}
		if ca != cb {
			return ca < cb
		}
		a, b = a[1:], b[1:]
	}
	return len(a) < len(b)
}

func digitRun(s string) (string, string) {
	i := 0
	for i < len(s) && isDigit(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
