package main

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"aweshore/seed/internal/db"
)

func testOptions(t *testing.T) options {
	return options{
		driver:      "sqlite",
		dbPath:      filepath.Join(t.TempDir(), "aweshore.db"),
		records:     12,
		batchSize:   5,
		seed:        9,
		createTable: true,
		verify:      true,
	}
}

func TestRunReportsConfiguredCount(t *testing.T) {
	o := testOptions(t)
	var out bytes.Buffer
	if err := run(context.Background(), o, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	re := regexp.MustCompile(`^Inserted 12 records in \d+\.\d{2} seconds\n$`)
	if !re.MatchString(out.String()) {
		t.Fatalf("output = %q", out.String())
	}

	conn, err := db.OpenSQLite(context.Background(), o.dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer conn.Close()
	if n, _ := db.CountNotes(context.Background(), conn); n != 12 {
		t.Fatalf("rows = %d, want 12", n)
	}
}

func TestRunRequiresExistingTable(t *testing.T) {
	o := testOptions(t)
	o.createTable = false
	var out bytes.Buffer
	if err := run(context.Background(), o, &out); err == nil {
		t.Fatal("expected error when notes table is missing")
	}
	if out.Len() != 0 {
		t.Fatalf("unexpected output on failure: %q", out.String())
	}
}

func TestRunRejectsBadConfig(t *testing.T) {
	tests := []struct {
		name string
		mod  func(*options)
	}{
		{"unknown driver", func(o *options) { o.driver = "mysql" }},
		{"postgres without dsn", func(o *options) { o.driver = "postgres" }},
		{"zero batch", func(o *options) { o.batchSize = 0 }},
		{"negative records", func(o *options) { o.records = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := testOptions(t)
			tt.mod(&o)
			if err := run(context.Background(), o, &bytes.Buffer{}); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
