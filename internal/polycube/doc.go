// Package polycube holds the geometry behind polycube enumeration: a dense
// 3D occupancy grid, the 24 proper rotations of the cube, the run-length
// fingerprint used as a hashable key, one-cube expansion, and the
// rotation-class equivalence checks built on top of them.
//
// Grids are values. Apart from Set, every operation returns a new grid and
// leaves its input untouched, so generations can be expanded from many
// goroutines at once.
//
// Cells are flattened with X outermost and Z innermost. The same order is used
// for indexing, fingerprints and the cache payload.
package polycube
