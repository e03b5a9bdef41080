// Seed tool: fills the notes table with synthetic rows for load testing.
// - driver=sqlite writes to a local store file (default aweshore.db)
// - driver=postgres writes to the database named by -dsn
// Rows are committed in fixed-size batches; the table must already exist
// unless -create-table is given.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"aweshore/seed/internal/db"
	"aweshore/seed/internal/generate"
	"aweshore/seed/internal/loader"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type options struct {
	driver      string
	dbPath      string
	dsn         string
	records     int
	batchSize   int
	seed        int64
	createTable bool
	verify      bool
	logLevel    string
}

func main() {
	// Optional .env; a missing file is not an error.
	_ = godotenv.Load()

	var o options
	flag.StringVar(&o.driver, "driver", "sqlite", "target store: sqlite | postgres")
	flag.StringVar(&o.dbPath, "db", envOr("SEED_DB_PATH", db.DefaultSQLitePath), "sqlite store file")
	flag.StringVar(&o.dsn, "dsn", os.Getenv("SEED_PG_DSN"), "postgres connection string")
	flag.IntVar(&o.records, "records", loader.DefaultTotalRecords, "number of records to insert")
	flag.IntVar(&o.batchSize, "batch", loader.DefaultBatchSize, "records per committed transaction")
	flag.Int64Var(&o.seed, "seed", 0, "random seed (0 = time based)")
	flag.BoolVar(&o.createTable, "create-table", false, "create the notes table if missing")
	flag.BoolVar(&o.verify, "verify", false, "log the table row count after loading")
	flag.StringVar(&o.logLevel, "log-level", "info", "log level: debug | info | warn | error")
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	lvl, err := log.ParseLevel(o.logLevel)
	if err != nil {
		log.Fatalf("bad -log-level: %v", err)
	}
	log.SetLevel(lvl)

	if err := run(context.Background(), o, os.Stdout); err != nil {
		log.WithError(err).Fatal("seed failed")
	}
}

// run opens the store, loads the rows and prints the one-line summary to out.
// The store is closed on every return path.
func run(ctx context.Context, o options, out io.Writer) error {
	cfg := loader.Config{TotalRecords: o.records, BatchSize: o.batchSize}
	if err := cfg.Validate(); err != nil {
		return err
	}
	seed := o.seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen := generate.NewSeeded(seed)

	start := time.Now()
	var (
		sink  loader.Sink
		count func(context.Context) (int, error)
	)
	switch o.driver {
	case "sqlite":
		conn, err := db.OpenSQLite(ctx, o.dbPath)
		if err != nil {
			return err
		}
		defer conn.Close()
		if o.createTable {
			if err := db.EnsureNotesTable(ctx, conn); err != nil {
				return err
			}
		}
		sink = db.NewSQLiteSink(conn)
		count = func(ctx context.Context) (int, error) { return db.CountNotes(ctx, conn) }
	case "postgres":
		if o.dsn == "" {
			return fmt.Errorf("postgres driver needs -dsn or SEED_PG_DSN")
		}
		pool, err := db.NewPostgresPool(ctx, o.dsn)
		if err != nil {
			return err
		}
		defer pool.Close()
		if o.createTable {
			if err := db.EnsurePostgresNotesTable(ctx, pool); err != nil {
				return err
			}
		}
		sink = db.NewPostgresSink(pool)
		count = func(ctx context.Context) (int, error) { return db.CountPostgresNotes(ctx, pool) }
	default:
		return fmt.Errorf("unknown driver: %s", o.driver)
	}

	log.WithFields(log.Fields{
		"driver":  o.driver,
		"records": cfg.TotalRecords,
		"batch":   cfg.BatchSize,
		"commits": cfg.Batches(),
		"seed":    seed,
	}).Info("seeding notes")

	st, err := loader.New(cfg, gen, sink, log.StandardLogger()).Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	log.WithFields(log.Fields{
		"batches": st.Batches,
		"rate":    fmt.Sprintf("%.0f rows/s", st.Rate()),
	}).Debug("load finished")

	if o.verify {
		n, err := count(ctx)
		if err != nil {
			return err
		}
		log.WithField("rows", n).Info("notes table row count")
	}

	fmt.Fprintf(out, "Inserted %d records in %.2f seconds\n", cfg.TotalRecords, elapsed.Seconds())
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
