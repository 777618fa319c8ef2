package main

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeDB struct {
	err      error
	deadline bool
}

func (f *fakeDB) Ping(ctx context.Context) error {
	_, f.deadline = ctx.Deadline()
	return f.err
}

func TestPingDatabase(t *testing.T) {
	db := &fakeDB{}
	if err := pingDatabase(context.Background(), db, time.Second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !db.deadline {
		t.Error("ping ran without a deadline")
	}

	refused := errors.New("connection refused")
	err := pingDatabase(context.Background(), &fakeDB{err: refused}, time.Second)
	if !errors.Is(err, refused) {
		t.Errorf("err = %v, want wrapped %v", err, refused)
	}
}
