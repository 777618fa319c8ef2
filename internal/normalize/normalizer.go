// Package normalize maps heterogeneous source rows onto the canonical field set.
package normalize

import (
	"strings"
	"sync"

	"lpb-monitor/internal/models"
)

var numericFields = map[models.Field]bool{
	models.FieldCapacity:        true,
	models.FieldPowerLimit:      true,
	models.FieldVoltage:         true,
	models.FieldCurrent:         true,
	models.FieldCosPhi:          true,
	models.FieldCumulativeKWh:   true,
	models.FieldRemainingKWh:    true,
	models.FieldLatitude:        true,
	models.FieldLongitude:       true,
	models.FieldTotalWorkOrders: true,
	models.FieldPaidDirect:      true,
	models.FieldPaidOffline:     true,
	models.FieldPaidPromise:     true,
}

var identifierFields = map[models.Field]bool{
	models.FieldCustomerID:  true,
	models.FieldMeterNumber: true,
}

// Row holds cleaned values. A field is present in Values only when the source carried a
// usable value for it; numeric values are canonical decimal strings.
type Row struct {
	Values map[models.Field]string
	Extra  map[string]string
}

func (r Row) Get(f models.Field) string {
	return r.Values[f]
}

func (r Row) Has(f models.Field) bool {
	_, ok := r.Values[f]
	return ok
}

// Normalizer caches one compiled HeaderIndex per distinct header row.
type Normalizer struct {
	indexes sync.Map
}

func New() *Normalizer {
	return &Normalizer{}
}

func (n *Normalizer) Index(headers []string) *HeaderIndex {
	key := strings.Join(headers, "\x1f")
	if v, ok := n.indexes.Load(key); ok {
		return v.(*HeaderIndex)
	}
	v, _ := n.indexes.LoadOrStore(key, Compile(headers))
	return v.(*HeaderIndex)
}

func (n *Normalizer) NormalizeRow(headers, row []string) Row {
	return n.Index(headers).Normalize(row)
}

func (x *HeaderIndex) Normalize(row []string) Row {
	out := Row{Values: make(map[models.Field]string, len(x.columns))}

	for f := range x.columns {
		raw, ok := x.value(row, f)
		if !ok {
			continue
		}
		switch {
		case numericFields[f]:
			if d, ok := CleanDecimal(raw); ok {
				out.Values[f] = d.String()
			}
		case identifierFields[f]:
			if v := FixScientific(raw); v != "" {
				out.Values[f] = v
			}
		case f == models.FieldValidationStatus:
			out.Values[f] = strings.ToUpper(raw)
		default:
			out.Values[f] = raw
		}
	}

	capacity, hasCapacity := out.Values[models.FieldCapacity]
	limit, hasLimit := out.Values[models.FieldPowerLimit]
	switch {
	case hasCapacity && !hasLimit:
		out.Values[models.FieldPowerLimit] = capacity
	case hasLimit && !hasCapacity:
		out.Values[models.FieldCapacity] = limit
	}

	for _, e := range x.extras {
		if e.index >= len(row) {
			continue
		}
		v := trim(row[e.index])
		if v == "" {
			continue
		}
		if out.Extra == nil {
			out.Extra = make(map[string]string)
		}
		if _, ok := out.Extra[e.key]; !ok {
			out.Extra[e.key] = v
		}
	}
	return out
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
