package assembler

import "lpb-monitor/internal/models"

// Dedupe collapses records sharing a customer id to the last-seen instance, kept at the
// position where the id first appeared. It returns the number of records collapsed.
func Dedupe(records []models.Record) ([]models.Record, int) {
	pos := make(map[string]int, len(records))
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if i, ok := pos[r.CustomerID]; ok {
			out[i] = r
			continue
		}
		pos[r.CustomerID] = len(out)
		out = append(out, r)
	}
	return out, len(records) - len(out)
}

// UploadRow renders a record as a backend row object keyed by lpb_data column names.
// Readings that were never measured are sent as null.
func UploadRow(r models.Record) map[string]any {
	col := models.BackendColumns
	return map[string]any{
		col[models.FieldUnit]:             r.Unit,
		col[models.FieldCustomerID]:       r.CustomerID,
		col[models.FieldMeterNumber]:      r.MeterNumber,
		col[models.FieldOfficerName]:      r.OfficerName,
		col[models.FieldCustomerName]:     r.CustomerName,
		col[models.FieldAddress]:          r.Address,
		col[models.FieldTariffClass]:      r.TariffClass,
		col[models.FieldTariffIndex]:      r.TariffIndex,
		col[models.FieldCapacity]:         r.CapacityVA,
		col[models.FieldPowerLimit]:       r.PowerLimitVA,
		col[models.FieldRBMCode]:          r.RBMCode,
		col[models.FieldVoltage]:          r.Voltage,
		col[models.FieldCurrent]:          r.Current,
		col[models.FieldCosPhi]:           r.CosPhi,
		col[models.FieldCumulativeKWh]:    r.CumulativeKWh,
		col[models.FieldRemainingKWh]:     r.RemainingKWh,
		col[models.FieldIndicator]:        r.Indicator,
		col[models.FieldTemper]:           r.Temper,
		col[models.FieldTemperIndicator]:  r.TemperIndicator,
		col[models.FieldTerminalCover]:    r.TerminalCover,
		col[models.FieldSeal]:             r.Seal,
		col[models.FieldLCD]:              r.LCD,
		col[models.FieldKeypad]:           r.Keypad,
		col[models.FieldTerminalCount]:    r.TerminalCount,
		col[models.FieldRelay]:            r.Relay,
		col[models.FieldValidationStatus]: r.ValidationStatus.Backend(),
		col[models.FieldLatitude]:         r.Latitude,
		col[models.FieldLongitude]:        r.Longitude,
		col[models.FieldPeriod]:           r.Period,
		col[models.FieldDate]:             r.Date,
		col[models.FieldRecordedAt]:       r.RecordedAt,
		col[models.FieldNotes]:            r.Notes,
		col[models.FieldTotalWorkOrders]:  r.TotalWorkOrders,
		col[models.FieldPaidDirect]:       r.PaidDirect,
		col[models.FieldPaidOffline]:      r.PaidOffline,
		col[models.FieldPaidPromise]:      r.PaidPromise,
	}
}

func UploadRows(records []models.Record) []map[string]any {
	rows := make([]map[string]any, len(records))
	for i, r := range records {
		rows[i] = UploadRow(r)
	}
	return rows
}
