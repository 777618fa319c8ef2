package models

// Field is the canonical name of a normalized column.
type Field string

const (
	FieldUnit             Field = "unit"
	FieldCustomerID       Field = "customer_id"
	FieldMeterNumber      Field = "meter_number"
	FieldOfficerName      Field = "officer_name"
	FieldCustomerName     Field = "customer_name"
	FieldAddress          Field = "address"
	FieldTariffClass      Field = "tariff_class"
	FieldTariffIndex      Field = "tariff_index"
	FieldCapacity         Field = "capacity"
	FieldPowerLimit       Field = "power_limit"
	FieldRBMCode          Field = "rbm_code"
	FieldVoltage          Field = "voltage"
	FieldCurrent          Field = "current"
	FieldCosPhi           Field = "cosphi"
	FieldCumulativeKWh    Field = "cumulative_kwh"
	FieldRemainingKWh     Field = "remaining_kwh"
	FieldIndicator        Field = "indicator"
	FieldTemper           Field = "temper"
	FieldTemperIndicator  Field = "temper_indicator"
	FieldTerminalCover    Field = "terminal_cover"
	FieldSeal             Field = "seal"
	FieldLCD              Field = "lcd"
	FieldKeypad           Field = "keypad"
	FieldTerminalCount    Field = "terminal_count"
	FieldRelay            Field = "relay"
	FieldValidationStatus Field = "validation_status"
	FieldLatitude         Field = "latitude"
	FieldLongitude        Field = "longitude"
	FieldPeriod           Field = "period"
	FieldDate             Field = "date"
	FieldRecordedAt       Field = "recorded_at"
	FieldNotes            Field = "notes"
	FieldTotalWorkOrders  Field = "total_work_orders"
	FieldPaidDirect       Field = "paid_direct"
	FieldPaidOffline      Field = "paid_offline"
	FieldPaidPromise      Field = "paid_promise"
)

// AllFields lists every canonical field in a stable order.
var AllFields = []Field{
	FieldUnit, FieldCustomerID, FieldMeterNumber, FieldOfficerName,
	FieldCustomerName, FieldAddress, FieldTariffClass, FieldTariffIndex,
	FieldCapacity, FieldPowerLimit, FieldRBMCode,
	FieldVoltage, FieldCurrent, FieldCosPhi, FieldCumulativeKWh, FieldRemainingKWh,
	FieldIndicator, FieldTemper, FieldTemperIndicator, FieldTerminalCover,
	FieldSeal, FieldLCD, FieldKeypad, FieldTerminalCount, FieldRelay,
	FieldValidationStatus, FieldLatitude, FieldLongitude,
	FieldPeriod, FieldDate, FieldRecordedAt, FieldNotes,
	FieldTotalWorkOrders, FieldPaidDirect, FieldPaidOffline, FieldPaidPromise,
}

// BackendColumns maps canonical fields to the column names used by the lpb_data table
// on every backend (REST, edge worker and direct Postgres).
var BackendColumns = map[Field]string{
	FieldUnit:             "unit",
	FieldCustomerID:       "idpel",
	FieldMeterNumber:      "no_meter",
	FieldOfficerName:      "petugas",
	FieldCustomerName:     "nama",
	FieldAddress:          "alamat",
	FieldTariffClass:      "tarif",
	FieldTariffIndex:      "tarif_index",
	FieldCapacity:         "daya",
	FieldPowerLimit:       "power_limit",
	FieldRBMCode:          "kode_rbm",
	FieldVoltage:          "tegangan",
	FieldCurrent:          "arus",
	FieldCosPhi:           "cosphi",
	FieldCumulativeKWh:    "kwh_kumulatif",
	FieldRemainingKWh:     "sisa_kwh",
	FieldIndicator:        "indikator",
	FieldTemper:           "temper",
	FieldTemperIndicator:  "indi_temper",
	FieldTerminalCover:    "tutup_meter",
	FieldSeal:             "segel",
	FieldLCD:              "lcd",
	FieldKeypad:           "keypad",
	FieldTerminalCount:    "jml_terminal",
	FieldRelay:            "relay",
	FieldValidationStatus: "validasi",
	FieldLatitude:         "latitude",
	FieldLongitude:        "longitude",
	FieldPeriod:           "blth",
	FieldDate:             "tgl",
	FieldRecordedAt:       "waktu_jam",
	FieldNotes:            "catatan",
	FieldTotalWorkOrders:  "totallembar",
	FieldPaidDirect:       "lunas_mandiri",
	FieldPaidOffline:      "lunas_offline",
	FieldPaidPromise:      "janji_bayar",
}

// IdentityColumn is the backend column used as the upsert conflict target.
const IdentityColumn = "idpel"
