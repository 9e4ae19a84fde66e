// Package precompute builds polycube generations, each from the one before
// it, reusing cached generations when a store is configured.
package precompute

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	"go.uber.org/zap"

	"polycubes/internal/cache"
	"polycubes/internal/polycube"
)

const (
	// Report progress every this many base shapes
	progressReportInterval = 100
)

// Strategy selects how candidates are deduplicated.
type Strategy int

const (
	// Canonical keys the dedup set by the smallest rotated fingerprint of
	// each candidate. It supports parallel expansion.
	Canonical Strategy = iota
	// FirstSeen stores the fingerprint of the first orientation found and
	// checks every candidate's 24 rotations against it. Always sequential.
	FirstSeen
)

// ParseStrategy parses "canonical" or "first-seen".
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "canonical":
		return Canonical, nil
	case "first-seen":
		return FirstSeen, nil
	}
	return 0, fmt.Errorf("unknown strategy %q (want canonical or first-seen)", s)
}

func (s Strategy) String() string {
	if s == FirstSeen {
		return "first-seen"
	}
	return "canonical"
}

// CorruptPolicy decides what happens when a cached generation fails to decode.
type CorruptPolicy int

const (
	// FailOnCorrupt returns the decode error to the caller.
	FailOnCorrupt CorruptPolicy = iota
	// RecomputeOnCorrupt treats the entry as missing and overwrites it with a
	// freshly computed generation.
	RecomputeOnCorrupt
)

// ParseCorruptPolicy parses "fail" or "recompute".
func ParseCorruptPolicy(s string) (CorruptPolicy, error) {
	switch s {
	case "fail":
		return FailOnCorrupt, nil
	case "recompute":
		return RecomputeOnCorrupt, nil
	}
	return 0, fmt.Errorf("unknown corruption policy %q (want fail or recompute)", s)
}

// Options configures a Generator.
type Options struct {
	// Store persists generations. Ignored when nil or when UseCache is false.
	Store cache.Store
	// UseCache enables loading and saving at every level of a run.
	UseCache bool
	Strategy Strategy
	// Workers is the number of goroutines expanding base shapes. If 0 or
	// negative, uses runtime.NumCPU(). Only the Canonical strategy runs in
	// parallel.
	Workers   int
	OnCorrupt CorruptPolicy
	Logger    *zap.Logger
	// Progress receives human-readable progress lines. It may be nil.
	Progress func(string)
}

// Generator enumerates polycubes of a given size.
type Generator struct {
	opts    Options
	workers int
	logger  *zap.Logger
}

// New returns a Generator for opts.
func New(opts Options) *Generator {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{opts: opts, workers: workers, logger: logger}
}

func (g *Generator) caching() bool {
	return g.opts.UseCache && g.opts.Store != nil
}

func (g *Generator) progress(format string, args ...any) {
	if g.opts.Progress != nil {
		g.opts.Progress(fmt.Sprintf(format, args...))
	}
}

// Generate returns every polycube of size n, one grid per rotation class, in
// the orientation it was first discovered.
//
// Sizes 1 and 2 are fixed. Larger sizes are built bottom-up from the largest
// cached generation below n (or from n=2), saving each generation it computes
// when caching is enabled. A cancelled context abandons the level in progress
// without saving it.
func (g *Generator) Generate(ctx context.Context, n int) ([]polycube.Grid, error) {
	switch {
	case n < 1:
		return []polycube.Grid{}, nil
	case n == 1:
		return []polycube.Grid{polycube.Unit()}, nil
	case n == 2:
		return []polycube.Grid{polycube.Bar(2)}, nil
	}

	level := 2
	shapes := []polycube.Grid{polycube.Bar(2)}

	if g.caching() {
		for k := n; k > level; k-- {
			cached, ok, err := g.load(ctx, k)
			if err != nil {
				return nil, err
			}
			if ok {
				level, shapes = k, cached
				break
			}
		}
	}

	for k := level + 1; k <= n; k++ {
		next, err := g.step(ctx, k, shapes)
		if err != nil {
			return nil, err
		}
		shapes = next

		if g.caching() {
			if err := g.opts.Store.Save(ctx, k, shapes); err != nil {
				return nil, fmt.Errorf("save generation %d: %w", k, err)
			}
			g.logger.Debug("saved generation to cache", zap.Int("n", k), zap.Int("shapes", len(shapes)))
		}
	}

	return shapes, nil
}

// load fetches generation k, applying the corruption policy.
func (g *Generator) load(ctx context.Context, k int) ([]polycube.Grid, bool, error) {
	shapes, ok, err := g.opts.Store.Load(ctx, k)
	if err != nil {
		if errors.Is(err, cache.ErrDecode) && g.opts.OnCorrupt == RecomputeOnCorrupt {
			g.logger.Warn("discarding corrupt cache entry", zap.Int("n", k), zap.Error(err))
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("load generation %d: %w", k, err)
	}
	if ok {
		g.logger.Info("loaded generation from cache", zap.Int("n", k), zap.Int("shapes", len(shapes)))
		g.progress("Loading polycubes n=%d from cache: %d shapes", k, len(shapes))
	}
	return shapes, ok, nil
}

// step builds generation k from generation k-1.
func (g *Generator) step(ctx context.Context, k int, base []polycube.Grid) ([]polycube.Grid, error) {
	start := time.Now()

	var (
		shapes []polycube.Grid
		err    error
	)
	if g.opts.Strategy == Canonical && g.workers > 1 {
		shapes, err = g.expandPartitioned(ctx, k, base)
	} else {
		shapes, err = g.expandSequential(ctx, k, base)
	}
	if err != nil {
		return nil, err
	}

	g.progress("Generating polycubes n=%d: 100%%", k)
	g.logger.Info("generated polycubes",
		zap.Int("n", k),
		zap.Int("base_shapes", len(base)),
		zap.Int("shapes", len(shapes)),
		zap.Stringer("strategy", g.opts.Strategy),
		zap.Duration("elapsed", time.Since(start)),
	)
	return shapes, nil
}

// expandSequential is the single-threaded dedup loop. Accepted candidates
// keep the orientation Expand produced them in.
func (g *Generator) expandSequential(ctx context.Context, k int, base []polycube.Grid) ([]polycube.Grid, error) {
	seen := polycube.FingerprintSet{}
	var shapes []polycube.Grid

	for idx, b := range base {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, candidate := range polycube.Expand(b) {
			switch g.opts.Strategy {
			case FirstSeen:
				if polycube.IsDuplicate(candidate, seen) {
					continue
				}
				seen.Add(polycube.Encode(candidate))
			default:
				key := polycube.Canonical(candidate)
				if seen.Has(key) {
					continue
				}
				seen.Add(key)
			}
			shapes = append(shapes, candidate)
		}

		if idx%progressReportInterval == 0 {
			g.progress("Generating polycubes n=%d: %.2f%%", k, float64(idx)/float64(len(base))*100)
		}
	}

	return shapes, nil
}
