// Package cache persists completed polycube generations so later runs can
// resume from them instead of recomputing.
package cache

import (
	"context"
	"errors"

	"polycubes/internal/polycube"
)

var (
	// ErrIO wraps failures to read or write the backing storage.
	ErrIO = errors.New("cache: i/o failure")
	// ErrDecode wraps payloads that are truncated, corrupt, from another
	// format version, or that do not describe a valid generation.
	ErrDecode = errors.New("cache: invalid payload")
)

// Store loads and saves one generation per polycube size n.
type Store interface {
	// Load returns the cached generation for n. A missing entry is a clean
	// miss: (nil, false, nil). Failures wrap ErrIO or ErrDecode.
	Load(ctx context.Context, n int) ([]polycube.Grid, bool, error)

	// Save stores shapes for n, replacing any prior entry. A failed save
	// never leaves a partial entry behind.
	Save(ctx context.Context, n int, shapes []polycube.Grid) error
}
