package assembler

import (
	"testing"

	"lpb-monitor/internal/models"
)

func TestDedupe(t *testing.T) {
	records := []models.Record{
		{CustomerID: "111111", CustomerName: "A"},
		{CustomerID: "222222", CustomerName: "B"},
		{CustomerID: "111111", CustomerName: "A2"},
	}

	out, dropped := Dedupe(records)
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if len(out) != 2 {
		t.Fatalf("len = %d, want 2", len(out))
	}
	if out[0].CustomerName != "A2" || out[1].CustomerName != "B" {
		t.Errorf("unexpected order or winner: %+v", out)
	}
}

func TestUploadRow(t *testing.T) {
	v := 220.0
	row := UploadRow(models.Record{
		CustomerID:       "123456789",
		Voltage:          &v,
		ValidationStatus: models.StatusInvalid,
		PaidDirect:       2,
	})

	if row["idpel"] != "123456789" {
		t.Errorf("idpel = %v", row["idpel"])
	}
	if row["validasi"] != "TIDAK VALID" {
		t.Errorf("validasi = %v", row["validasi"])
	}
	if got, ok := row["arus"].(*float64); !ok || got != nil {
		t.Errorf("unmeasured current should be a nil reading, got %#v", row["arus"])
	}
	if got := row["tegangan"].(*float64); *got != 220 {
		t.Errorf("tegangan = %v", *got)
	}
	if row["lunas_mandiri"] != 2.0 {
		t.Errorf("lunas_mandiri = %v", row["lunas_mandiri"])
	}
}
