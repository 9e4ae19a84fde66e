package polycube

// Expand returns every grid obtained by adding one cube face-adjacent to g,
// each cropped to its bounding box. Positions are scanned in flattening order
// over g padded by one layer, so the output order is deterministic.
//
// Candidates may be rotations of one another; deduplication is left to the
// caller.
func Expand(g Grid) []Grid {
	p := g.Pad()
	var out []Grid

	i := 0
	for x := 0; x < p.X; x++ {
		for y := 0; y < p.Y; y++ {
			for z := 0; z < p.Z; z++ {
				if !p.Cells[i] && p.touches(x, y, z) {
					next := p.Clone()
					next.Cells[i] = true
					out = append(out, next.crop())
				}
				i++
			}
		}
	}
	return out
}

// touches reports whether any face neighbour of (x, y, z) is occupied.
func (g Grid) touches(x, y, z int) bool {
	for _, d := range faceOffsets {
		if g.At(x+d[0], y+d[1], z+d[2]) {
			return true
		}
	}
	return false
}
