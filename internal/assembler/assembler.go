// Package assembler turns normalized rows into canonical records.
package assembler

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"lpb-monitor/internal/models"
	"lpb-monitor/internal/normalize"
)

// MinIdentityLength is the number of alphanumeric characters a customer id must exceed.
const MinIdentityLength = 5

const Placeholder = "-"

type ValidationError struct {
	Row        int
	CustomerID string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("row %d: unusable customer id %q", e.Row, e.CustomerID)
}

// Batch is the outcome of assembling a table. Dropped counts rows without a usable id.
type Batch struct {
	Records []models.Record
	Dropped int
}

type Assembler struct {
	normalizer *normalize.Normalizer
	logger     zerolog.Logger
}

func New(normalizer *normalize.Normalizer, logger zerolog.Logger) *Assembler {
	if normalizer == nil {
		normalizer = normalize.New()
	}
	return &Assembler{
		normalizer: normalizer,
		logger:     logger,
	}
}

// Assemble normalizes every row of table. Rows lacking a usable identity are dropped and
// counted; every other malformed value is coerced to its default.
func (a *Assembler) Assemble(table *models.RawTable) Batch {
	if table == nil || len(table.Headers) == 0 {
		return Batch{}
	}

	idx := a.normalizer.Index(table.Headers)
	batch := Batch{Records: make([]models.Record, 0, len(table.Rows))}
	for i, raw := range table.Rows {
		rec, err := Build(idx.Normalize(raw), i+1)
		if err != nil {
			batch.Dropped++
			continue
		}
		batch.Records = append(batch.Records, rec)
	}

	if batch.Dropped > 0 {
		a.logger.Debug().
			Int("accepted", len(batch.Records)).
			Int("dropped", batch.Dropped).
			Msg("Rows without usable customer id dropped")
	}
	return batch
}

// Build applies field defaults to one normalized row.
func Build(row normalize.Row, line int) (models.Record, error) {
	id := row.Get(models.FieldCustomerID)
	if !usableIdentity(id) {
		return models.Record{}, &ValidationError{Row: line, CustomerID: id}
	}

	rec := models.Record{
		Unit:        orPlaceholder(row.Get(models.FieldUnit)),
		CustomerID:  id,
		MeterNumber: row.Get(models.FieldMeterNumber),
		OfficerName: orPlaceholder(row.Get(models.FieldOfficerName)),

		CustomerName: row.Get(models.FieldCustomerName),
		Address:      row.Get(models.FieldAddress),
		TariffClass:  row.Get(models.FieldTariffClass),
		TariffIndex:  row.Get(models.FieldTariffIndex),
		CapacityVA:   number(row, models.FieldCapacity),
		PowerLimitVA: number(row, models.FieldPowerLimit),
		RBMCode:      row.Get(models.FieldRBMCode),

		Voltage:       reading(row, models.FieldVoltage),
		Current:       reading(row, models.FieldCurrent),
		CosPhi:        reading(row, models.FieldCosPhi),
		CumulativeKWh: reading(row, models.FieldCumulativeKWh),
		RemainingKWh:  reading(row, models.FieldRemainingKWh),

		Indicator:       row.Get(models.FieldIndicator),
		Temper:          row.Get(models.FieldTemper),
		TemperIndicator: row.Get(models.FieldTemperIndicator),
		TerminalCover:   row.Get(models.FieldTerminalCover),
		Seal:            row.Get(models.FieldSeal),
		LCD:             row.Get(models.FieldLCD),
		Keypad:          row.Get(models.FieldKeypad),
		TerminalCount:   row.Get(models.FieldTerminalCount),
		Relay:           row.Get(models.FieldRelay),

		ValidationStatus: ParseValidation(row.Get(models.FieldValidationStatus)),

		Period:     row.Get(models.FieldPeriod),
		Date:       row.Get(models.FieldDate),
		RecordedAt: row.Get(models.FieldRecordedAt),
		Notes:      row.Get(models.FieldNotes),

		TotalWorkOrders: number(row, models.FieldTotalWorkOrders),
		PaidDirect:      number(row, models.FieldPaidDirect),
		PaidOffline:     number(row, models.FieldPaidOffline),
		PaidPromise:     number(row, models.FieldPaidPromise),
	}

	rec.Latitude, rec.Longitude = coordinates(number(row, models.FieldLatitude), number(row, models.FieldLongitude))

	if len(row.Extra) > 0 {
		rec.Extra = make(map[string]string, len(row.Extra))
		for k, v := range row.Extra {
			rec.Extra[k] = v
		}
	}
	return rec, nil
}

// ParseValidation folds the various source spellings onto the closed status set.
func ParseValidation(s string) models.ValidationStatus {
	switch strings.Join(strings.Fields(strings.ToUpper(strings.ReplaceAll(s, ".", " "))), " ") {
	case "VALID", "SUDAH VALIDASI", "SUDAH VALID", "VALIDATED", "OK":
		return models.StatusValid
	case "TIDAK VALID", "TDK VALID", "T VALID", "INVALID", "NOT VALID":
		return models.StatusInvalid
	default:
		return models.StatusUnvalidated
	}
}

func usableIdentity(id string) bool {
	n := 0
	for _, r := range id {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n > MinIdentityLength
}

// coordinates keeps a location only when both axes are non-zero and in range.
func coordinates(lat, lng float64) (float64, float64) {
	if lat == 0 || lng == 0 || lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return 0, 0
	}
	return lat, lng
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func number(row normalize.Row, f models.Field) float64 {
	if v := reading(row, f); v != nil {
		return *v
	}
	return 0
}

func reading(row normalize.Row, f models.Field) *float64 {
	s, ok := row.Values[f]
	if !ok {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}
