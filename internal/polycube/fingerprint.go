package polycube

import (
	"encoding/binary"
	"slices"
)

// Fingerprint is a run-length encoding of a grid: the three dimensions
// followed by alternating runs over the flattened cells. A positive entry k
// is a run of k occupied cells, a negative entry -k a run of k empty cells.
//
// Because the dimensions are embedded, two grids have equal fingerprints
// exactly when they are equal.
type Fingerprint []int

// Encode computes the fingerprint of g.
func Encode(g Grid) Fingerprint {
	fp := make(Fingerprint, 3, 8)
	fp[0], fp[1], fp[2] = g.X, g.Y, g.Z
	if len(g.Cells) == 0 {
		return fp
	}

	current := g.Cells[0]
	run := 0
	for _, c := range g.Cells {
		if c == current {
			run++
			continue
		}
		fp = append(fp, signed(current, run))
		current = c
		run = 1
	}
	return append(fp, signed(current, run))
}

func signed(occupied bool, run int) int {
	if occupied {
		return run
	}
	return -run
}

// Key returns a compact string form of fp, suitable as a map key.
// Distinct fingerprints always produce distinct keys.
func (fp Fingerprint) Key() string {
	b := make([]byte, 0, len(fp)*2)
	for _, v := range fp {
		b = binary.AppendVarint(b, int64(v))
	}
	return string(b)
}

// Compare orders fingerprints lexicographically.
func Compare(a, b Fingerprint) int {
	return slices.Compare(a, b)
}
