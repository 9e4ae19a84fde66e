package polycube

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncode(t *testing.T) {
	tests := []struct {
		name string
		grid Grid
		want Fingerprint
	}{
		{name: "unit cube", grid: Unit(), want: Fingerprint{1, 1, 1, 1}},
		{name: "full 3x1x1 bar", grid: Bar(3), want: Fingerprint{3, 1, 1, 3}},
		{
			name: "alternating runs",
			grid: gridOf(t, 2, 1, 2, [3]int{0, 0, 0}, [3]int{1, 0, 1}),
			want: Fingerprint{2, 1, 2, 1, -2, 1},
		},
		{
			name: "leading empty run",
			grid: gridOf(t, 1, 1, 3, [3]int{0, 0, 2}),
			want: Fingerprint{1, 1, 3, -2, 1},
		},
		{
			name: "all empty",
			grid: New(1, 2, 1),
			want: Fingerprint{1, 2, 1, -2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.grid))
		})
	}
}

func TestEncode_DimensionsDisambiguate(t *testing.T) {
	// same flattened cells, different shapes
	a := Bar(2)
	b := New(1, 2, 1)
	b.Set(0, 0, 0, true)
	b.Set(0, 1, 0, true)

	assert.NotEqual(t, Encode(a), Encode(b))
	assert.NotEqual(t, Encode(a).Key(), Encode(b).Key())
}

func TestFingerprint_Key(t *testing.T) {
	assert.Equal(t, Encode(Bar(3)).Key(), Fingerprint{3, 1, 1, 3}.Key())
	assert.NotEqual(t, Fingerprint{1, 1, 1, 1}.Key(), Fingerprint{1, 1, 1, -1}.Key())
	assert.NotEqual(t, Fingerprint{1, 2}.Key(), Fingerprint{12}.Key())
	assert.NotEqual(t, Fingerprint{300}.Key(), Fingerprint{44, 2}.Key())
}

func TestCompare(t *testing.T) {
	assert.Equal(t, 0, Compare(Fingerprint{1, 1, 1, 1}, Fingerprint{1, 1, 1, 1}))
	assert.Equal(t, -1, Compare(Fingerprint{1, 1, 2, 2}, Fingerprint{1, 2, 1, 2}))
	assert.Equal(t, 1, Compare(Fingerprint{2, 1, 1, 2}, Fingerprint{1, 2, 1, 2}))
	assert.Equal(t, -1, Compare(Fingerprint{1, 1, 3, -1}, Fingerprint{1, 1, 3, -1, 1}))
}
