// Benchmark tool: measures load throughput for a range of batch sizes.
// Each size loads the same number of rows into a fresh SQLite file so runs
// don't affect each other.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"aweshore/seed/internal/db"
	"aweshore/seed/internal/generate"
	"aweshore/seed/internal/loader"

	log "github.com/sirupsen/logrus"
)

// result is one measured run.
type result struct {
	batchSize int
	stats     loader.Stats
}

// options holds the sweep settings taken from the command line.
type options struct {
	records int
	sizes   []int
	seed    int64
	dir     string
}

func main() {
	var o options
	var batches string
	flag.IntVar(&o.records, "records", loader.DefaultTotalRecords, "records per run")
	flag.StringVar(&batches, "batches", "1,100,1000,5000,20000", "comma separated batch sizes")
	flag.Int64Var(&o.seed, "seed", 1, "random seed shared by all runs")
	flag.StringVar(&o.dir, "dir", "", "directory for the scratch store files (default: temp dir)")
	flag.Parse()

	sizes, err := parseSizes(batches)
	if err != nil {
		log.Fatalf("bad -batches: %v", err)
	}
	o.sizes = sizes
	if err := run(context.Background(), o, os.Stdout); err != nil {
		log.WithError(err).Fatal("benchmark failed")
	}
}

// run loads o.records rows once per batch size and writes the table to out.
// A temp dir created here is removed on every return path.
func run(ctx context.Context, o options, out io.Writer) error {
	dir := o.dir
	if dir == "" {
		tmp, err := os.MkdirTemp("", "seed-bench-")
		if err != nil {
			return fmt.Errorf("temp dir: %w", err)
		}
		defer os.RemoveAll(tmp)
		dir = tmp
	}

	results := make([]result, 0, len(o.sizes))
	for _, size := range o.sizes {
		log.WithFields(log.Fields{"records": o.records, "batch": size}).Info("run")
		st, err := runOnce(ctx, filepath.Join(dir, fmt.Sprintf("bench-%d.db", size)), o.records, size, o.seed)
		if err != nil {
			log.WithError(err).WithField("batch", size).Error("run failed")
			continue
		}
		results = append(results, result{batchSize: size, stats: st})
	}
	if len(results) == 0 {
		return errors.New("no successful runs")
	}
	report(out, results)
	return nil
}

// runOnce loads into a new store file at path, replacing any file left by an earlier sweep.
func runOnce(ctx context.Context, path string, records, batchSize int, seed int64) (loader.Stats, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return loader.Stats{}, fmt.Errorf("remove old store %s: %w", path, err)
	}
	conn, err := db.OpenSQLite(ctx, path)
	if err != nil {
		return loader.Stats{}, err
	}
	defer conn.Close()
	if err := db.EnsureNotesTable(ctx, conn); err != nil {
		return loader.Stats{}, err
	}
	cfg := loader.Config{TotalRecords: records, BatchSize: batchSize}
	return loader.New(cfg, generate.NewSeeded(seed), db.NewSQLiteSink(conn), nil).Run(ctx)
}

func parseSizes(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("batch size %q: %w", f, err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("batch size must be > 0, got %d", n)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no batch sizes")
	}
	return out, nil
}

func report(w io.Writer, results []result) {
	fmt.Fprintf(w, "%-10s %-10s %-12s %s\n", "Batch", "Commits", "Elapsed", "Rows/s")
	for _, r := range results {
		fmt.Fprintf(w, "%-10d %-10d %-12s %.2f\n",
			r.batchSize, r.stats.Batches, r.stats.Elapsed.Truncate(time.Millisecond), r.stats.Rate())
	}
}
