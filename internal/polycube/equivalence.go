package polycube

// FingerprintSet is a set of fingerprints keyed by Fingerprint.Key.
// It is not safe for concurrent writers.
type FingerprintSet map[string]struct{}

// Add inserts fp.
func (s FingerprintSet) Add(fp Fingerprint) {
	s[fp.Key()] = struct{}{}
}

// Has reports whether fp is in the set.
func (s FingerprintSet) Has(fp Fingerprint) bool {
	_, ok := s[fp.Key()]
	return ok
}

// normalize crops g when it has occupied cells. Rotating a cropped grid
// keeps it cropped, so every rotated image of the result is cropped too.
func normalize(g Grid) Grid {
	if c, err := g.Crop(); err == nil {
		return c
	}
	return g
}

// IsDuplicate reports whether any of the 24 rotations of candidate is
// already in set. If candidate is R(S) for some stored shape S, then
// R⁻¹(candidate) is S itself, so the stored orientation of S is found no
// matter which orientation was recorded first.
func IsDuplicate(candidate Grid, set FingerprintSet) bool {
	candidate = normalize(candidate)
	for _, r := range rotations {
		if set.Has(Encode(r.Apply(candidate))) {
			return true
		}
	}
	return false
}

// Canonical returns the lexicographically smallest fingerprint among the 24
// rotations of g. Grids are rotations of each other exactly when their
// canonical fingerprints are equal.
func Canonical(g Grid) Fingerprint {
	g = normalize(g)
	var best Fingerprint
	for i, r := range rotations {
		fp := Encode(r.Apply(g))
		if i == 0 || Compare(fp, best) < 0 {
			best = fp
		}
	}
	return best
}

// Equivalent reports whether b is a rotation of a, ignoring position.
func Equivalent(a, b Grid) bool {
	return Compare(Canonical(a), Canonical(b)) == 0
}
