package source

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"lpb-monitor/internal/models"
)

type fakeStore struct {
	rows     []models.LPBRow
	upserted []models.LPBRow
	err      error
	calls    int
}

func (f *fakeStore) FindPage(ctx context.Context, table string, offset, limit int) ([]models.LPBRow, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	if offset >= len(f.rows) {
		return nil, nil
	}
	end := offset + limit
	if end > len(f.rows) {
		end = len(f.rows)
	}
	return f.rows[offset:end], nil
}

func (f *fakeStore) FindInBounds(ctx context.Context, table string, b models.Bounds, offset, limit int) ([]models.LPBRow, error) {
	var in []models.LPBRow
	for _, r := range f.rows {
		if r.Latitude >= b.MinLat && r.Latitude <= b.MaxLat && r.Longitude >= b.MinLng && r.Longitude <= b.MaxLng {
			in = append(in, r)
		}
	}
	if offset >= len(in) {
		return nil, nil
	}
	return in[offset:], nil
}

func (f *fakeStore) Upsert(ctx context.Context, table string, rows []models.LPBRow) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.upserted = append(f.upserted, rows...)
	return int64(len(rows)), nil
}

func (f *fakeStore) Count(ctx context.Context, table string) (int64, error) {
	return int64(len(f.rows)), f.err
}

func TestPostgresSourceFetch(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 25; i++ {
		store.rows = append(store.rows, models.LPBRow{Idpel: fmt.Sprintf("%09d", i), Latitude: float64(i)})
	}

	cfg := testSourceConfig("")
	cfg.PageSize = 10
	table, err := NewPostgresSource(cfg, store, zerolog.Nop()).Fetch(context.Background(), "lpb_data")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 25 {
		t.Errorf("rows = %d, want 25", table.Len())
	}
	if store.calls != 3 {
		t.Errorf("page calls = %d, want 3", store.calls)
	}
	if table.Headers[0] != "idpel" || table.Rows[24][0] != "000000024" {
		t.Errorf("unexpected layout: %v / %v", table.Headers[0], table.Rows[24][0])
	}
}

func TestPostgresSourceBounds(t *testing.T) {
	store := &fakeStore{rows: []models.LPBRow{
		{Idpel: "111111", Latitude: -0.3, Longitude: 100.3},
		{Idpel: "222222", Latitude: 5, Longitude: 100.3},
	}}

	table, err := NewPostgresSource(testSourceConfig(""), store, zerolog.Nop()).
		FetchBounds(context.Background(), "lpb_data", models.Bounds{MinLat: -1, MaxLat: 1, MinLng: 100, MaxLng: 101})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Len() != 1 || table.Rows[0][0] != "111111" {
		t.Errorf("rows = %q", table.Rows)
	}
}

func TestPostgresSourceUpload(t *testing.T) {
	store := &fakeStore{}
	n, err := NewPostgresSource(testSourceConfig(""), store, zerolog.Nop()).Upload(context.Background(), "lpb_data", []models.Record{
		{CustomerID: "111111", ValidationStatus: models.StatusValid},
	})
	if err != nil || n != 1 {
		t.Fatalf("upload = %d, %v", n, err)
	}
	if store.upserted[0].Idpel != "111111" || store.upserted[0].Validasi != "VALID" {
		t.Errorf("upserted = %+v", store.upserted[0])
	}
}

func TestPostgresSourceErrorDetail(t *testing.T) {
	store := &fakeStore{err: fmt.Errorf("query: %w", &pgconn.PgError{Code: "42P01", Message: `relation "lpb_data" does not exist`})}

	_, err := NewPostgresSource(testSourceConfig(""), store, zerolog.Nop()).Fetch(context.Background(), "lpb_data")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if fe.Detail != `42P01 relation "lpb_data" does not exist` {
		t.Errorf("Detail = %q", fe.Detail)
	}
}
