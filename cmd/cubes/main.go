package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"time"

	"go.uber.org/zap"

	"polycubes/internal/cache"
	"polycubes/internal/precompute"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

// run parses args, generates the requested polycubes and returns the exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("cubes", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: cubes [flags] N\n\nGenerates all polycubes (combinations of cubes) of size N.\n\n")
		fs.PrintDefaults()
	}

	// Define command-line flags
	noCache := fs.Bool("no-cache", false, "Do not load or save cached generations")
	storeKind := fs.String("store", "file", "Cache backend: file or sqlite")
	cacheDir := fs.String("cache-dir", getEnv("CUBES_CACHE_DIR", "."), "Directory for file cache entries")
	dbPath := fs.String("db", getEnv("CUBES_DB_PATH", "./cubes.db"), "Database path for the sqlite cache")
	workers := fs.Int("workers", 0, "Parallel expansion workers (0 = number of CPUs)")
	strategyName := fs.String("strategy", "canonical", "Dedup strategy: canonical or first-seen")
	corruptName := fs.String("on-corrupt", "fail", "On a corrupt cache entry: fail or recompute")
	outPath := fs.String("out", "", "Also write the shapes to this text file, one per line")
	verbose := fs.Bool("v", false, "Verbose structured logging")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Validate input
	if fs.NArg() != 1 {
		fmt.Fprintf(stderr, "Error: exactly one size N is required\n\n")
		fs.Usage()
		return 2
	}
	n, err := strconv.Atoi(fs.Arg(0))
	if err != nil || n < 0 || n > 255 {
		fmt.Fprintf(stderr, "Error: N must be an integer between 0 and 255, got %q\n", fs.Arg(0))
		return 2
	}
	strategy, err := precompute.ParseStrategy(*strategyName)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	onCorrupt, err := precompute.ParseCorruptPolicy(*corruptName)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	defer logger.Sync()

	var store cache.Store
	if !*noCache {
		switch *storeKind {
		case "file":
			store = cache.NewFileStore(*cacheDir)
		case "sqlite":
			s, err := cache.OpenSQLite(*dbPath)
			if err != nil {
				fmt.Fprintf(stderr, "Error: %v\n", err)
				return 1
			}
			defer s.Close()
			store = s
		default:
			fmt.Fprintf(stderr, "Error: unknown store %q (want file or sqlite)\n", *storeKind)
			return 2
		}
	}

	// Track start time for elapsed time reporting
	programStart := time.Now()

	// Progress callback that shows elapsed time
	progressCallback := func(msg string) {
		elapsed := time.Since(programStart)
		fmt.Fprintf(stdout, "[%s] %s\n", formatElapsed(elapsed), msg)
	}

	gen := precompute.New(precompute.Options{
		Store:     store,
		UseCache:  !*noCache,
		Strategy:  strategy,
		Workers:   *workers,
		OnCorrupt: onCorrupt,
		Logger:    logger,
		Progress:  progressCallback,
	})

	shapes, err := gen.Generate(ctx, n)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintf(stderr, "\nInterrupted, nothing saved for the unfinished generation\n")
			return 130
		}
		fmt.Fprintf(stderr, "\nError: %v\n", err)
		return 1
	}

	if *outPath != "" {
		if err := precompute.WriteTextFile(shapes, *outPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		logger.Info("wrote shapes", zap.String("path", *outPath), zap.Int("shapes", len(shapes)))
	}

	// Summary
	fmt.Fprintf(stdout, "Found %d unique polycube(s)\n", len(shapes))
	fmt.Fprintf(stdout, "Elapsed time: %.3fs\n", time.Since(programStart).Seconds())
	return 0
}

func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}
	return cfg.Build()
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// formatElapsed formats a duration into a human-readable elapsed time string
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	minutes := int(d.Minutes())
	seconds := int(d.Seconds()) % 60

	if minutes > 0 {
		return fmt.Sprintf("%dm%02ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}
