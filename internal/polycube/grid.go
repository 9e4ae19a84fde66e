package polycube

import (
	"errors"
	"fmt"
	"math"
	"slices"
)

// ErrEmptyGrid is returned when an operation needs at least one occupied cell.
var ErrEmptyGrid = errors.New("polycube: grid has no occupied cells")

// ErrBadDimensions is returned when grid dimensions are not all positive or
// do not match the supplied cells.
var ErrBadDimensions = errors.New("polycube: invalid grid dimensions")

// faceOffsets are the six face-adjacent neighbour offsets.
var faceOffsets = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

// Grid is a dense X×Y×Z occupancy grid. Cells[(x*Y+y)*Z+z] reports whether
// the unit cube at (x, y, z) is occupied.
type Grid struct {
	X, Y, Z int
	Cells   []bool
}

// New returns an empty grid with the given dimensions. It panics when a
// dimension is negative or the cell count does not fit in an int.
func New(x, y, z int) Grid {
	if x < 0 || y < 0 || z < 0 || overflows(x, y, z) {
		panic(fmt.Sprintf("polycube: New(%d, %d, %d): invalid dimensions", x, y, z))
	}
	return Grid{X: x, Y: y, Z: z, Cells: make([]bool, x*y*z)}
}

// Volume returns the number of cells of an x×y×z grid. Dimensions must be
// positive and their product must fit in an int.
func Volume(x, y, z int) (int, error) {
	if x <= 0 || y <= 0 || z <= 0 {
		return 0, fmt.Errorf("%w: %dx%dx%d", ErrBadDimensions, x, y, z)
	}
	if overflows(x, y, z) {
		return 0, fmt.Errorf("%w: %dx%dx%d overflows the cell count", ErrBadDimensions, x, y, z)
	}
	return x * y * z, nil
}

// overflows reports whether x*y*z exceeds math.MaxInt. Dimensions are
// non-negative.
func overflows(x, y, z int) bool {
	if x == 0 || y == 0 || z == 0 {
		return false
	}
	return x > math.MaxInt/y || x*y > math.MaxInt/z
}

// FromCells builds a grid from existing cells, validating the dimensions.
// The cells are copied.
func FromCells(x, y, z int, cells []bool) (Grid, error) {
	size, err := Volume(x, y, z)
	if err != nil {
		return Grid{}, err
	}
	if len(cells) != size {
		return Grid{}, fmt.Errorf("%w: %dx%dx%d needs %d cells, got %d",
			ErrBadDimensions, x, y, z, size, len(cells))
	}
	return Grid{X: x, Y: y, Z: z, Cells: slices.Clone(cells)}, nil
}

// Unit returns the single-cube polycube.
func Unit() Grid {
	return Bar(1)
}

// Bar returns n cubes in a straight line along the X axis. It panics for
// negative n.
func Bar(n int) Grid {
	g := New(n, 1, 1)
	for i := range g.Cells {
		g.Cells[i] = true
	}
	return g
}

// Dims returns the dimensions as an array.
func (g Grid) Dims() [3]int {
	return [3]int{g.X, g.Y, g.Z}
}

func (g Grid) index(x, y, z int) int {
	return (x*g.Y+y)*g.Z + z
}

// InBounds reports whether (x, y, z) lies inside the grid.
func (g Grid) InBounds(x, y, z int) bool {
	return x >= 0 && x < g.X && y >= 0 && y < g.Y && z >= 0 && z < g.Z
}

// At reports whether (x, y, z) is occupied. Out-of-bounds cells are empty.
func (g Grid) At(x, y, z int) bool {
	if !g.InBounds(x, y, z) {
		return false
	}
	return g.Cells[g.index(x, y, z)]
}

// Set marks (x, y, z) occupied or empty. It panics when out of bounds.
func (g Grid) Set(x, y, z int, v bool) {
	if !g.InBounds(x, y, z) {
		panic(fmt.Sprintf("polycube: Set(%d, %d, %d) outside %dx%dx%d grid", x, y, z, g.X, g.Y, g.Z))
	}
	g.Cells[g.index(x, y, z)] = v
}

// Count returns the number of occupied cells.
func (g Grid) Count() int {
	n := 0
	for _, c := range g.Cells {
		if c {
			n++
		}
	}
	return n
}

// Clone returns a deep copy of g.
func (g Grid) Clone() Grid {
	return Grid{X: g.X, Y: g.Y, Z: g.Z, Cells: slices.Clone(g.Cells)}
}

// Equal reports whether a and b have the same dimensions and cells.
// It does not consider rotations; see Equivalent for that.
func Equal(a, b Grid) bool {
	return a.X == b.X && a.Y == b.Y && a.Z == b.Z && slices.Equal(a.Cells, b.Cells)
}

// Pad returns a copy of g with one empty layer added on each of the six faces.
func (g Grid) Pad() Grid {
	p := New(g.X+2, g.Y+2, g.Z+2)
	for x := 0; x < g.X; x++ {
		for y := 0; y < g.Y; y++ {
			src := g.index(x, y, 0)
			dst := p.index(x+1, y+1, 1)
			copy(p.Cells[dst:dst+g.Z], g.Cells[src:src+g.Z])
		}
	}
	return p
}

// bounds returns the inclusive bounding box of the occupied cells.
func (g Grid) bounds() (lo, hi [3]int, ok bool) {
	lo = [3]int{g.X, g.Y, g.Z}
	hi = [3]int{-1, -1, -1}
	i := 0
	for x := 0; x < g.X; x++ {
		for y := 0; y < g.Y; y++ {
			for z := 0; z < g.Z; z++ {
				if g.Cells[i] {
					lo = [3]int{min(lo[0], x), min(lo[1], y), min(lo[2], z)}
					hi = [3]int{max(hi[0], x), max(hi[1], y), max(hi[2], z)}
					ok = true
				}
				i++
			}
		}
	}
	return lo, hi, ok
}

// Crop returns the minimal bounding sub-grid containing every occupied cell.
// The result has no fully empty boundary slab on any face. Cropping an
// already cropped grid returns an equal copy.
func (g Grid) Crop() (Grid, error) {
	lo, hi, ok := g.bounds()
	if !ok {
		return Grid{}, ErrEmptyGrid
	}
	return g.sub(lo, hi), nil
}

// crop is Crop for grids known to be non-empty.
func (g Grid) crop() Grid {
	lo, hi, ok := g.bounds()
	if !ok {
		panic(ErrEmptyGrid)
	}
	return g.sub(lo, hi)
}

func (g Grid) sub(lo, hi [3]int) Grid {
	c := New(hi[0]-lo[0]+1, hi[1]-lo[1]+1, hi[2]-lo[2]+1)
	for x := 0; x < c.X; x++ {
		for y := 0; y < c.Y; y++ {
			src := g.index(x+lo[0], y+lo[1], lo[2])
			dst := c.index(x, y, 0)
			copy(c.Cells[dst:dst+c.Z], g.Cells[src:src+c.Z])
		}
	}
	return c
}

// IsCropped reports whether every one of the six boundary slabs holds at
// least one occupied cell.
func (g Grid) IsCropped() bool {
	lo, hi, ok := g.bounds()
	return ok && lo == [3]int{} && hi == [3]int{g.X - 1, g.Y - 1, g.Z - 1}
}

// Connected reports whether the occupied cells form a single face-connected
// component. An empty grid is not connected.
func (g Grid) Connected() bool {
	start := -1
	total := 0
	for i, c := range g.Cells {
		if c {
			total++
			if start < 0 {
				start = i
			}
		}
	}
	if total == 0 {
		return false
	}

	seen := make([]bool, len(g.Cells))
	seen[start] = true
	queue := []int{start}
	for qi := 0; qi < len(queue); qi++ {
		x, y, z := g.coordinate(queue[qi])
		for _, d := range faceOffsets {
			nx, ny, nz := x+d[0], y+d[1], z+d[2]
			if !g.At(nx, ny, nz) {
				continue
			}
			ni := g.index(nx, ny, nz)
			if !seen[ni] {
				seen[ni] = true
				queue = append(queue, ni)
			}
		}
	}
	return len(queue) == total
}

// coordinate converts a flat index back to (x, y, z).
func (g Grid) coordinate(i int) (x, y, z int) {
	z = i % g.Z
	i /= g.Z
	return i / g.Y, i % g.Y, z
}

// String renders the grid as Z-slices of X rows, '#' for occupied cells.
func (g Grid) String() string {
	b := make([]byte, 0, len(g.Cells)+g.X*g.Z+16)
	b = fmt.Appendf(b, "%dx%dx%d", g.X, g.Y, g.Z)
	for z := 0; z < g.Z; z++ {
		b = append(b, '\n')
		for x := 0; x < g.X; x++ {
			if x > 0 {
				b = append(b, '/')
			}
			for y := 0; y < g.Y; y++ {
				if g.At(x, y, z) {
					b = append(b, '#')
				} else {
					b = append(b, '.')
				}
			}
		}
	}
	return string(b)
}
