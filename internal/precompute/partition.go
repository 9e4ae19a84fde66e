package precompute

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"polycubes/internal/polycube"
)

// Number of shards the canonical keys are partitioned into
const numShards = 256

// ordinal is the position at which a candidate is discovered by the
// sequential scan: base shape index, then index within Expand's output.
type ordinal struct {
	base, cand int
}

func (o ordinal) less(p ordinal) bool {
	if o.base != p.base {
		return o.base < p.base
	}
	return o.cand < p.cand
}

type discovery struct {
	at   ordinal
	grid polycube.Grid
}

// shard holds the earliest discovery of each canonical key hashed to it.
type shard struct {
	mu   sync.Mutex
	seen map[string]discovery
}

// offer records d under key unless an earlier discovery is already held.
func (s *shard) offer(key string, d discovery) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.seen[key]; ok && !d.at.less(prev.at) {
		return
	}
	s.seen[key] = d
}

// shardIndex hashes a canonical key to a shard number using xxhash.
func shardIndex(key string, shards int) int {
	return int(xxhash.Sum64String(key) % uint64(shards))
}

// expandPartitioned expands base shapes on a worker pool. Each candidate is
// routed by the hash of its canonical key to a shard, and each shard keeps
// only the earliest discovery per key. Survivors are merged in discovery
// order, which makes the result identical to expandSequential with the
// Canonical strategy.
func (g *Generator) expandPartitioned(ctx context.Context, k int, base []polycube.Grid) ([]polycube.Grid, error) {
	shards := make([]*shard, numShards)
	for i := range shards {
		shards[i] = &shard{seen: make(map[string]discovery)}
	}

	jobs := make(chan int, len(base))
	for idx := range base {
		jobs <- idx
	}
	close(jobs)

	var (
		done       atomic.Int64
		progressMu sync.Mutex
	)

	// Start worker pool
	eg, ctx := errgroup.WithContext(ctx)
	for w := 0; w < min(g.workers, len(base)); w++ {
		eg.Go(func() error {
			for idx := range jobs {
				if err := ctx.Err(); err != nil {
					return err
				}

				for ci, candidate := range polycube.Expand(base[idx]) {
					key := polycube.Canonical(candidate).Key()
					shards[shardIndex(key, numShards)].offer(key, discovery{
						at:   ordinal{base: idx, cand: ci},
						grid: candidate,
					})
				}

				if n := done.Add(1); n%progressReportInterval == 0 {
					progressMu.Lock()
					g.progress("Generating polycubes n=%d: %.2f%%", k, float64(n)/float64(len(base))*100)
					progressMu.Unlock()
				}
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return mergeShards(shards), nil
}

// mergeShards collects every shard's survivors in discovery order.
func mergeShards(shards []*shard) []polycube.Grid {
	var all []discovery
	for _, s := range shards {
		for _, d := range s.seen {
			all = append(all, d)
		}
	}

	slices.SortFunc(all, func(a, b discovery) int {
		switch {
		case a.at.less(b.at):
			return -1
		case b.at.less(a.at):
			return 1
		}
		return 0
	})

	shapes := make([]polycube.Grid, len(all))
	for i, d := range all {
		shapes[i] = d.grid
	}
	return shapes
}
