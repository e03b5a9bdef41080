// Package loader drives batched ingestion: generate a record, buffer it,
// and commit the buffer once it reaches the configured size.
package loader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"aweshore/seed/internal/model"

	"github.com/sirupsen/logrus"
)

const (
	DefaultTotalRecords = 100000
	DefaultBatchSize    = 5000
)

// Config controls how many rows are produced and how many go into each commit.
type Config struct {
	TotalRecords int
	BatchSize    int
}

func (c Config) Validate() error {
	if c.TotalRecords < 0 {
		return fmt.Errorf("total records must be >= 0, got %d", c.TotalRecords)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch size must be > 0, got %d", c.BatchSize)
	}
	return nil
}

// Batches is the number of commits a run with this config performs.
func (c Config) Batches() int {
	if c.BatchSize <= 0 {
		return 0
	}
	return (c.TotalRecords + c.BatchSize - 1) / c.BatchSize
}

// Source yields one record per call.
type Source interface {
	Next() model.Note
}

// Sink persists a batch as one multi-row insert followed by one commit.
// A failed call must leave nothing from that batch behind. The slice is
// reused after the call returns, so implementations must not retain it.
type Sink interface {
	InsertBatch(ctx context.Context, notes []model.Note) error
}

// Stats summarizes a finished run.
type Stats struct {
	Records int
	Batches int
	Elapsed time.Duration
}

// Rate is rows per second over the whole run.
func (s Stats) Rate() float64 {
	if s.Elapsed <= 0 {
		return 0
	}
	return float64(s.Records) / s.Elapsed.Seconds()
}

type Loader struct {
	cfg  Config
	src  Source
	sink Sink
	log  logrus.FieldLogger
}

// New returns a Loader. A nil log discards output.
func New(cfg Config, src Source, sink Sink, log logrus.FieldLogger) *Loader {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	return &Loader{cfg: cfg, src: src, sink: sink, log: log}
}

// Run generates cfg.TotalRecords rows and commits them in order, cfg.BatchSize at a time.
// The first sink error stops the run; batches committed before it stay committed.
func (l *Loader) Run(ctx context.Context) (Stats, error) {
	if err := l.cfg.Validate(); err != nil {
		return Stats{}, err
	}
	if l.src == nil || l.sink == nil {
		return Stats{}, errors.New("loader: source and sink are required")
	}

	start := time.Now()
	var st Stats
	buf := make([]model.Note, 0, min(l.cfg.BatchSize, l.cfg.TotalRecords))

	// flush commits the buffered rows and resets the buffer for reuse.
	flush := func() error {
		if len(buf) == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("batch %d: %w", st.Batches+1, err)
		}
		if err := l.sink.InsertBatch(ctx, buf); err != nil {
			return fmt.Errorf("batch %d (%d rows): %w", st.Batches+1, len(buf), err)
		}
		st.Batches++
		st.Records += len(buf)
		l.log.WithFields(logrus.Fields{
			"batch": st.Batches,
			"size":  len(buf),
			"total": st.Records,
		}).Debug("batch committed")
		buf = buf[:0]
		return nil
	}

	for i := 0; i < l.cfg.TotalRecords; i++ {
		buf = append(buf, l.src.Next())
		if len(buf) == l.cfg.BatchSize {
			if err := flush(); err != nil {
				st.Elapsed = time.Since(start)
				return st, err
			}
		}
	}
	if err := flush(); err != nil {
		st.Elapsed = time.Since(start)
		return st, err
	}
	st.Elapsed = time.Since(start)
	return st, nil
}
