package polycube

// Rotation is a proper rotation of the cube expressed as a signed axis
// permutation: output axis i reads input axis Perm[i], mirrored when Flip[i]
// is set. Only the 24 combinations with determinant +1 are rotations.
type Rotation struct {
	Perm [3]int
	Flip [3]bool
}

// rotations is the rotation group of the cube, identity first.
var rotations = buildRotations()

func buildRotations() [24]Rotation {
	perms := [6][3]int{
		{0, 1, 2}, {0, 2, 1},
		{1, 0, 2}, {1, 2, 0},
		{2, 0, 1}, {2, 1, 0},
	}

	var out [24]Rotation
	n := 0
	for _, p := range perms {
		for mask := 0; mask < 8; mask++ {
			r := Rotation{Perm: p, Flip: [3]bool{mask&1 != 0, mask&2 != 0, mask&4 != 0}}
			if r.Determinant() != 1 {
				continue
			}
			out[n] = r
			n++
		}
	}
	if n != len(out) {
		panic("polycube: rotation table is not the 24-element rotation group")
	}
	return out
}

// AllRotations returns the 24 proper rotations of the cube. The first entry
// is the identity.
func AllRotations() [24]Rotation {
	return rotations
}

// Determinant returns +1 for proper rotations and -1 for reflections.
func (r Rotation) Determinant() int {
	det := 1
	// permutation parity from the inversion count
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if r.Perm[i] > r.Perm[j] {
				det = -det
			}
		}
	}
	for _, f := range r.Flip {
		if f {
			det = -det
		}
	}
	return det
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	var inv Rotation
	for i, p := range r.Perm {
		inv.Perm[p] = i
		inv.Flip[p] = r.Flip[i]
	}
	return inv
}

// Apply rotates g. A cropped input yields a cropped output, since the
// rotation maps the bounding box onto the new bounding box.
func (r Rotation) Apply(g Grid) Grid {
	in := g.Dims()
	out := New(in[r.Perm[0]], in[r.Perm[1]], in[r.Perm[2]])

	var c, o [3]int
	i := 0
	for c[0] = 0; c[0] < in[0]; c[0]++ {
		for c[1] = 0; c[1] < in[1]; c[1]++ {
			for c[2] = 0; c[2] < in[2]; c[2]++ {
				if g.Cells[i] {
					for axis, p := range r.Perm {
						o[axis] = c[p]
						if r.Flip[axis] {
							o[axis] = in[p] - 1 - c[p]
						}
					}
					out.Cells[out.index(o[0], o[1], o[2])] = true
				}
				i++
			}
		}
	}
	return out
}

// Rotations returns the 24 rotated images of g in AllRotations order.
// Symmetric shapes produce repeated images; they are not removed.
func Rotations(g Grid) [24]Grid {
	var out [24]Grid
	for i, r := range rotations {
		out[i] = r.Apply(g)
	}
	return out
}
