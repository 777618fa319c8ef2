package models

import "time"

// LPBRow is the lpb_data table as stored in Postgres. Readings are kept as text the way
// the field devices report them; the normalizer turns them into numbers on the way out.
type LPBRow struct {
	Idpel        string    `gorm:"column:idpel;primaryKey" json:"idpel"`
	Unit         string    `gorm:"column:unit;index" json:"unit"`
	Nama         string    `gorm:"column:nama" json:"nama"`
	Alamat       string    `gorm:"column:alamat;type:text" json:"alamat"`
	NoMeter      string    `gorm:"column:no_meter" json:"no_meter"`
	Tarif        string    `gorm:"column:tarif" json:"tarif"`
	Daya         string    `gorm:"column:daya" json:"daya"`
	KodeRbm      string    `gorm:"column:kode_rbm" json:"kode_rbm"`
	Blth         string    `gorm:"column:blth;index" json:"blth"`
	Tgl          string    `gorm:"column:tgl" json:"tgl"`
	Tegangan     string    `gorm:"column:tegangan" json:"tegangan"`
	Arus         string    `gorm:"column:arus" json:"arus"`
	Cosphi       string    `gorm:"column:cosphi" json:"cosphi"`
	TarifIndex   string    `gorm:"column:tarif_index" json:"tarif_index"`
	PowerLimit   string    `gorm:"column:power_limit" json:"power_limit"`
	KwhKumulatif string    `gorm:"column:kwh_kumulatif" json:"kwh_kumulatif"`
	Indikator    string    `gorm:"column:indikator" json:"indikator"`
	SisaKwh      string    `gorm:"column:sisa_kwh" json:"sisa_kwh"`
	Temper       string    `gorm:"column:temper" json:"temper"`
	TutupMeter   string    `gorm:"column:tutup_meter" json:"tutup_meter"`
	Segel        string    `gorm:"column:segel" json:"segel"`
	Lcd          string    `gorm:"column:lcd" json:"lcd"`
	Keypad       string    `gorm:"column:keypad" json:"keypad"`
	JmlTerminal  string    `gorm:"column:jml_terminal" json:"jml_terminal"`
	IndiTemper   string    `gorm:"column:indi_temper" json:"indi_temper"`
	Relay        string    `gorm:"column:relay" json:"relay"`
	Petugas      string    `gorm:"column:petugas;index" json:"petugas"`
	Validasi     string    `gorm:"column:validasi" json:"validasi"`
	Longitude    float64   `gorm:"column:longitude" json:"longitude"`
	Latitude     float64   `gorm:"column:latitude" json:"latitude"`
	Catatan      string    `gorm:"column:catatan;type:text" json:"catatan"`
	WaktuJam     string    `gorm:"column:waktu_jam" json:"waktu_jam"`
	Totallembar  float64   `gorm:"column:totallembar" json:"totallembar"`
	LunasMandiri float64   `gorm:"column:lunas_mandiri" json:"lunas_mandiri"`
	LunasOffline float64   `gorm:"column:lunas_offline" json:"lunas_offline"`
	JanjiBayar   float64   `gorm:"column:janji_bayar" json:"janji_bayar"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (LPBRow) TableName() string {
	return "lpb_data"
}

// LPBColumns is the column order used when a page of rows is turned into a RawTable.
var LPBColumns = []string{
	"idpel", "unit", "nama", "alamat", "no_meter", "tarif", "daya", "kode_rbm", "blth", "tgl",
	"tegangan", "arus", "cosphi", "tarif_index", "power_limit", "kwh_kumulatif", "indikator",
	"sisa_kwh", "temper", "tutup_meter", "segel", "lcd", "keypad", "jml_terminal", "indi_temper",
	"relay", "petugas", "validasi", "longitude", "latitude", "catatan", "waktu_jam",
	"totallembar", "lunas_mandiri", "lunas_offline", "janji_bayar",
}

// Values returns the row in LPBColumns order.
func (r *LPBRow) Values() []string {
	return []string{
		r.Idpel, r.Unit, r.Nama, r.Alamat, r.NoMeter, r.Tarif, r.Daya, r.KodeRbm, r.Blth, r.Tgl,
		r.Tegangan, r.Arus, r.Cosphi, r.TarifIndex, r.PowerLimit, r.KwhKumulatif, r.Indikator,
		r.SisaKwh, r.Temper, r.TutupMeter, r.Segel, r.Lcd, r.Keypad, r.JmlTerminal, r.IndiTemper,
		r.Relay, r.Petugas, r.Validasi, formatFloat(r.Longitude), formatFloat(r.Latitude), r.Catatan, r.WaktuJam,
		formatFloat(r.Totallembar), formatFloat(r.LunasMandiri), formatFloat(r.LunasOffline), formatFloat(r.JanjiBayar),
	}
}

// LPBRowFromRecord maps an assembled record onto the table layout for upserts.
func LPBRowFromRecord(rec Record) LPBRow {
	return LPBRow{
		Idpel:        rec.CustomerID,
		Unit:         rec.Unit,
		Nama:         rec.CustomerName,
		Alamat:       rec.Address,
		NoMeter:      rec.MeterNumber,
		Tarif:        rec.TariffClass,
		Daya:         formatFloat(rec.CapacityVA),
		KodeRbm:      rec.RBMCode,
		Blth:         rec.Period,
		Tgl:          rec.Date,
		Tegangan:     formatReading(rec.Voltage),
		Arus:         formatReading(rec.Current),
		Cosphi:       formatReading(rec.CosPhi),
		TarifIndex:   rec.TariffIndex,
		PowerLimit:   formatFloat(rec.PowerLimitVA),
		KwhKumulatif: formatReading(rec.CumulativeKWh),
		Indikator:    rec.Indicator,
		SisaKwh:      formatReading(rec.RemainingKWh),
		Temper:       rec.Temper,
		TutupMeter:   rec.TerminalCover,
		Segel:        rec.Seal,
		Lcd:          rec.LCD,
		Keypad:       rec.Keypad,
		JmlTerminal:  rec.TerminalCount,
		IndiTemper:   rec.TemperIndicator,
		Relay:        rec.Relay,
		Petugas:      rec.OfficerName,
		Validasi:     rec.ValidationStatus.Backend(),
		Longitude:    rec.Longitude,
		Latitude:     rec.Latitude,
		Catatan:      rec.Notes,
		WaktuJam:     rec.RecordedAt,
		Totallembar:  rec.TotalWorkOrders,
		LunasMandiri: rec.PaidDirect,
		LunasOffline: rec.PaidOffline,
		JanjiBayar:   rec.PaidPromise,
	}
}
