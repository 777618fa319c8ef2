package models

import (
	"strconv"
)

type ValidationStatus string

const (
	StatusValid       ValidationStatus = "VALID"
	StatusInvalid     ValidationStatus = "INVALID"
	StatusUnvalidated ValidationStatus = "UNVALIDATED"
)

// Backend returns the label the survey backends store for the status.
func (s ValidationStatus) Backend() string {
	switch s {
	case StatusValid:
		return "VALID"
	case StatusInvalid:
		return "TIDAK VALID"
	default:
		return "BELUM VALIDASI"
	}
}

// Record is one meter reading or invoice line after normalization. Records are
// treated as read-only once assembled.
type Record struct {
	Unit        string `json:"unit"`
	CustomerID  string `json:"customer_id"`
	MeterNumber string `json:"meter_number"`
	OfficerName string `json:"officer_name"`

	CustomerName string  `json:"customer_name"`
	Address      string  `json:"address"`
	TariffClass  string  `json:"tariff_class"`
	TariffIndex  string  `json:"tariff_index"`
	CapacityVA   float64 `json:"capacity_va"`
	PowerLimitVA float64 `json:"power_limit_va"`
	RBMCode      string  `json:"rbm_code"`

	// Nil readings mean "not measured", which is distinct from a measured zero.
	Voltage       *float64 `json:"voltage"`
	Current       *float64 `json:"current"`
	CosPhi        *float64 `json:"cosphi"`
	CumulativeKWh *float64 `json:"cumulative_kwh"`
	RemainingKWh  *float64 `json:"remaining_kwh"`

	Indicator       string `json:"indicator"`
	Temper          string `json:"temper"`
	TemperIndicator string `json:"temper_indicator"`
	TerminalCover   string `json:"terminal_cover"`
	Seal            string `json:"seal"`
	LCD             string `json:"lcd"`
	Keypad          string `json:"keypad"`
	TerminalCount   string `json:"terminal_count"`
	Relay           string `json:"relay"`

	ValidationStatus ValidationStatus `json:"validation_status"`

	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	Period     string `json:"period"`
	Date       string `json:"date"`
	RecordedAt string `json:"recorded_at"`
	Notes      string `json:"notes"`

	TotalWorkOrders float64 `json:"total_work_orders"`
	PaidDirect      float64 `json:"paid_direct"`
	PaidOffline     float64 `json:"paid_offline"`
	PaidPromise     float64 `json:"paid_promise"`

	// Extra keeps source columns outside the canonical set, keyed lowercase_with_underscores.
	Extra map[string]string `json:"extra,omitempty"`
}

// Realized is the sum of the three payment channels.
func (r Record) Realized() float64 {
	return r.PaidDirect + r.PaidOffline + r.PaidPromise
}

// Mappable reports whether the record carries a usable location. 0,0 means unknown.
func (r Record) Mappable() bool {
	return r.Latitude != 0 && r.Longitude != 0
}

// Fields renders the record back into canonical field values. Feeding the result through
// the normalizer and assembler yields an identical record.
func (r Record) Fields() map[Field]string {
	fields := map[Field]string{
		FieldUnit:             r.Unit,
		FieldCustomerID:       r.CustomerID,
		FieldMeterNumber:      r.MeterNumber,
		FieldOfficerName:      r.OfficerName,
		FieldCustomerName:     r.CustomerName,
		FieldAddress:          r.Address,
		FieldTariffClass:      r.TariffClass,
		FieldTariffIndex:      r.TariffIndex,
		FieldCapacity:         formatFloat(r.CapacityVA),
		FieldPowerLimit:       formatFloat(r.PowerLimitVA),
		FieldRBMCode:          r.RBMCode,
		FieldVoltage:          formatReading(r.Voltage),
		FieldCurrent:          formatReading(r.Current),
		FieldCosPhi:           formatReading(r.CosPhi),
		FieldCumulativeKWh:    formatReading(r.CumulativeKWh),
		FieldRemainingKWh:     formatReading(r.RemainingKWh),
		FieldIndicator:        r.Indicator,
		FieldTemper:           r.Temper,
		FieldTemperIndicator:  r.TemperIndicator,
		FieldTerminalCover:    r.TerminalCover,
		FieldSeal:             r.Seal,
		FieldLCD:              r.LCD,
		FieldKeypad:           r.Keypad,
		FieldTerminalCount:    r.TerminalCount,
		FieldRelay:            r.Relay,
		FieldValidationStatus: string(r.ValidationStatus),
		FieldLatitude:         formatFloat(r.Latitude),
		FieldLongitude:        formatFloat(r.Longitude),
		FieldPeriod:           r.Period,
		FieldDate:             r.Date,
		FieldRecordedAt:       r.RecordedAt,
		FieldNotes:            r.Notes,
		FieldTotalWorkOrders:  formatFloat(r.TotalWorkOrders),
		FieldPaidDirect:       formatFloat(r.PaidDirect),
		FieldPaidOffline:      formatFloat(r.PaidOffline),
		FieldPaidPromise:      formatFloat(r.PaidPromise),
	}
	return fields
}

// RawTableFromRecords renders records as a header row plus string rows, the same shape a delimited
// source produces.
func RawTableFromRecords(records []Record) *RawTable {
	headers := make([]string, 0, len(AllFields))
	for _, f := range AllFields {
		headers = append(headers, string(f))
	}

	extraKeys := map[string]int{}
	for _, r := range records {
		for k := range r.Extra {
			if _, ok := extraKeys[k]; !ok {
				extraKeys[k] = len(headers)
				headers = append(headers, k)
			}
		}
	}

	table := &RawTable{Headers: headers, Rows: make([][]string, 0, len(records))}
	for _, r := range records {
		row := make([]string, len(headers))
		fields := r.Fields()
		for i, f := range AllFields {
			row[i] = fields[f]
		}
		for k, v := range r.Extra {
			row[extraKeys[k]] = v
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatReading(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}
