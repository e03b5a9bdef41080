// Package db provides connection helpers and batch sinks for the notes table.
package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"aweshore/seed/internal/model"

	_ "github.com/mattn/go-sqlite3"
)

// DefaultSQLitePath is the store file used when none is configured.
const DefaultSQLitePath = "aweshore.db"

// sqliteMaxParams is SQLITE_MAX_VARIABLE_NUMBER for the bundled SQLite (>= 3.32).
const sqliteMaxParams = 32766

const insertPrefix = "INSERT INTO notes (title, content, created, updated) VALUES "

// OpenSQLite opens the file-backed store at path and checks that it is reachable.
// The pool is pinned to one connection: the loader uses it sequentially.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("connect sqlite %s: %w", path, err)
	}
	return conn, nil
}

// EnsureNotesTable creates the notes table if it is missing. The loader never
// calls it; the schema is normally owned by the application.
func EnsureNotesTable(ctx context.Context, conn *sql.DB) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS notes (
	id INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT,
	title TEXT,
	content TEXT,
	created TEXT,
	updated TEXT
	);`
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

// CountNotes returns the number of rows in the notes table.
func CountNotes(ctx context.Context, conn *sql.DB) (int, error) {
	var n int
	if err := conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// SQLiteSink commits each batch in its own transaction using multi-row inserts.
type SQLiteSink struct {
	DB *sql.DB
	// rowsPerStmt caps rows per INSERT; zero means as many as the parameter limit allows.
	rowsPerStmt int
}

func NewSQLiteSink(conn *sql.DB) *SQLiteSink {
	return &SQLiteSink{DB: conn}
}

// InsertBatch writes notes in generation order and commits once. Batches that
// exceed the parameter limit are split across statements in the same transaction.
func (s *SQLiteSink) InsertBatch(ctx context.Context, notes []model.Note) error {
	if s.DB == nil {
		return fmt.Errorf("db is nil")
	}
	if len(notes) == 0 {
		return nil
	}
	per := s.rowsPerStmt
	if per <= 0 || per > sqliteMaxParams/4 {
		per = sqliteMaxParams / 4
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	for start := 0; start < len(notes); start += per {
		end := min(start+per, len(notes))
		q, args := multiRowInsert(notes[start:end], func(int) string { return "(?,?,?,?)" })
		if _, err := tx.ExecContext(ctx, q, args...); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert rows %d-%d: %w", start, end-1, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// multiRowInsert builds one INSERT with a values tuple per note; tuple renders
// the placeholder group for the i-th row.
func multiRowInsert(notes []model.Note, tuple func(i int) string) (string, []any) {
	var b strings.Builder
	b.WriteString(insertPrefix)
	args := make([]any, 0, len(notes)*4)
	for i, n := range notes {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(tuple(i))
		args = append(args, n.Args()...)
	}
	return b.String(), args
}
