package db

import (
	"context"
	"fmt"
	"os"
	"testing"

	"aweshore/seed/internal/model"
)

// Runs only against a disposable database: the notes table is dropped.
func TestPostgresSink(t *testing.T) {
	dsn := os.Getenv("SEED_TEST_PG_DSN")
	if dsn == "" {
		t.Skip("SEED_TEST_PG_DSN not set")
	}
	ctx := context.Background()
	pool, err := NewPostgresPool(ctx, dsn)
	if err != nil {
		t.Fatalf("NewPostgresPool: %v", err)
	}
	defer pool.Close()
	if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS notes"); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if err := EnsurePostgresNotesTable(ctx, pool); err != nil {
		t.Fatalf("EnsurePostgresNotesTable: %v", err)
	}

	notes := make([]model.Note, 20000)
	for i := range notes {
		notes[i] = note(fmt.Sprintf("t%05d", i))
	}
	if err := NewPostgresSink(pool).InsertBatch(ctx, notes); err != nil {
		t.Fatalf("InsertBatch: %v", err)
	}
	n, err := CountPostgresNotes(ctx, pool)
	if err != nil {
		t.Fatalf("CountPostgresNotes: %v", err)
	}
	if n != len(notes) {
		t.Fatalf("rows = %d, want %d", n, len(notes))
	}
}
