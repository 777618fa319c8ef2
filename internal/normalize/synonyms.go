package normalize

import (
	"fmt"
	"regexp"
	"strings"

	"lpb-monitor/internal/models"
)

// synonyms lists the known source spellings per field on top of the canonical name and
// the backend column, which are always accepted.
var synonyms = map[models.Field][]string{
	models.FieldUnit:             {"UNITUP", "UNIT UP", "ULP", "NAMA UNIT"},
	models.FieldCustomerID:       {"ID PELANGGAN", "IDPELANGGAN", "ID PEL", "CUSTOMER ID"},
	models.FieldMeterNumber:      {"NOMOR METER", "NOMET", "NO KWH", "METER"},
	models.FieldOfficerName:      {"PEGAWAI", "NAMA PETUGAS", "NAMA PEGAWAI", "OFFICER"},
	models.FieldCustomerName:     {"NAMA PELANGGAN", "NAME"},
	models.FieldAddress:          {"ALAMAT PELANGGAN", "ADDRESS"},
	models.FieldTariffClass:      {"GOLONGAN TARIF", "TARIFF"},
	models.FieldTariffIndex:      {"INDEX TARIF", "TARIF IDX"},
	models.FieldCapacity:         {"DAYA VA", "DAYA TERPASANG"},
	models.FieldPowerLimit:       {"PEMBATAS DAYA", "LIMIT DAYA", "MCB"},
	models.FieldRBMCode:          {"RBM", "KODE BACA"},
	models.FieldVoltage:          {"VOLTAGE", "V"},
	models.FieldCurrent:          {"I", "AMPERE"},
	models.FieldCosPhi:           {"COS PHI", "PF"},
	models.FieldCumulativeKWh:    {"KWH", "STAND KWH"},
	models.FieldRemainingKWh:     {"SISA PULSA", "SISA TOKEN"},
	models.FieldIndicator:        {"INDIKATOR METER"},
	models.FieldTemper:           {"TAMPER"},
	models.FieldTemperIndicator:  {"INDIKATOR TEMPER", "INDI TAMPER"},
	models.FieldTerminalCover:    {"TERMINAL COVER", "TUTUP TERMINAL"},
	models.FieldSeal:             {"SEAL"},
	models.FieldKeypad:           {"KEY PAD"},
	models.FieldTerminalCount:    {"JUMLAH TERMINAL", "TERMINAL"},
	models.FieldRelay:            {"RELE"},
	models.FieldValidationStatus: {"STATUS VALIDASI", "STATUS", "VALIDATION"},
	models.FieldLatitude:         {"KOORDINAT Y", "Y", "LAT"},
	models.FieldLongitude:        {"KOORDINAT X", "X", "LNG", "LON", "LONG"},
	models.FieldPeriod:           {"PERIODE", "BULAN TAHUN"},
	models.FieldDate:             {"TANGGAL", "TGL BACA"},
	models.FieldRecordedAt:       {"WAKTU", "JAM", "TIMESTAMP"},
	models.FieldNotes:            {"KETERANGAN", "KET"},
	models.FieldTotalWorkOrders:  {"TOTAL LEMBAR", "JUMLAH LEMBAR", "TOTAL WO"},
	models.FieldPaidDirect:       {"MANDIRI"},
	models.FieldPaidOffline:      {"OFFLINE"},
	models.FieldPaidPromise:      {"JANJI"},
}

var (
	foldPattern  = regexp.MustCompile(`[^A-Z0-9]+`)
	extraPattern = regexp.MustCompile(`[^a-z0-9]+`)

	spellings = buildSpellings()
)

func buildSpellings() map[string]models.Field {
	out := make(map[string]models.Field)
	add := func(f models.Field, s string) {
		key := foldHeader(s)
		if prev, ok := out[key]; ok && prev != f {
			panic(fmt.Sprintf("header %q maps to both %s and %s", key, prev, f))
		}
		out[key] = f
	}

	for _, f := range models.AllFields {
		add(f, string(f))
		add(f, models.BackendColumns[f])
		for _, s := range synonyms[f] {
			add(f, s)
		}
	}
	return out
}

func foldHeader(h string) string {
	return strings.TrimSpace(foldPattern.ReplaceAllString(strings.ToUpper(h), " "))
}

// Lookup resolves a source header to its canonical field.
func Lookup(header string) (models.Field, bool) {
	f, ok := spellings[foldHeader(header)]
	return f, ok
}

// ExtraKey renders an unmatched header as a lowercase_with_underscores key.
func ExtraKey(header string) string {
	return strings.Trim(extraPattern.ReplaceAllString(strings.ToLower(strings.TrimSpace(header)), "_"), "_")
}
