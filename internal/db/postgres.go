package db

import (
	"context"
	"fmt"

	"aweshore/seed/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgMaxParams is the Postgres wire-protocol limit on bind parameters per statement.
const pgMaxParams = 65535

// NewPostgresPool creates a connection pool for loading into a Postgres notes table.
func NewPostgresPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	// The loader is sequential; one connection is all it ever holds.
	cfg.MaxConns = 1
	// Every batch of the same size reuses the same statement text.
	cfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement
	cfg.ConnConfig.StatementCacheCapacity = 16
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

// EnsurePostgresNotesTable is the Postgres counterpart of EnsureNotesTable.
func EnsurePostgresNotesTable(ctx context.Context, pool *pgxpool.Pool) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS notes (
	id BIGSERIAL PRIMARY KEY,
	title TEXT,
	content TEXT,
	created TEXT,
	updated TEXT
	);`
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create notes table: %w", err)
	}
	return nil
}

// CountPostgresNotes returns the number of rows in the notes table.
func CountPostgresNotes(ctx context.Context, pool *pgxpool.Pool) (int, error) {
	var n int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM notes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count notes: %w", err)
	}
	return n, nil
}

// PostgresSink commits each batch in one transaction. The multi-row INSERTs
// for a batch are queued on a pgx.Batch so they go out in a single round-trip.
type PostgresSink struct {
	DB *pgxpool.Pool
}

func NewPostgresSink(pool *pgxpool.Pool) *PostgresSink {
	return &PostgresSink{DB: pool}
}

func (s *PostgresSink) InsertBatch(ctx context.Context, notes []model.Note) error {
	if s.DB == nil {
		return fmt.Errorf("db is nil")
	}
	if len(notes) == 0 {
		return nil
	}
	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	per := pgMaxParams / 4
	for start := 0; start < len(notes); start += per {
		end := min(start+per, len(notes))
		q, args := multiRowInsert(notes[start:end], func(i int) string {
			p := i * 4
			return fmt.Sprintf("($%d,$%d,$%d,$%d)", p+1, p+2, p+3, p+4)
		})
		batch.Queue(q, args...)
	}
	pending := batch.Len()
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < pending; i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("batch close: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
