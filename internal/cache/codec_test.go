package cache

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polycubes/internal/polycube"
)

// tetracubes returns a few size-4 shapes in deliberately non-canonical
// orientations, so round trips can check orientation is preserved.
func tetracubes(t *testing.T) []polycube.Grid {
	t.Helper()

	square, err := polycube.FromCells(1, 2, 2, []bool{true, true, true, true})
	require.NoError(t, err)
	ell, err := polycube.FromCells(3, 2, 1, []bool{true, false, true, false, true, true})
	require.NoError(t, err)
	screw, err := polycube.FromCells(2, 2, 2, []bool{true, false, false, false, true, false, true, true})
	require.NoError(t, err)

	return []polycube.Grid{polycube.Bar(4), square, ell, screw}
}

func mustEncode(t *testing.T, p payload) []byte {
	t.Helper()
	raw, err := encMode.Marshal(p)
	require.NoError(t, err)
	return zstdEncoder.EncodeAll(raw, nil)
}

func TestCodec_RoundTrip(t *testing.T) {
	shapes := tetracubes(t)

	data, err := encodeGeneration(4, shapes)
	require.NoError(t, err)

	got, err := decodeGeneration(4, data)
	require.NoError(t, err)
	if diff := cmp.Diff(shapes, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestCodec_EmptyGeneration(t *testing.T) {
	data, err := encodeGeneration(0, nil)
	require.NoError(t, err)

	got, err := decodeGeneration(0, data)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCodec_Deterministic(t *testing.T) {
	a, err := encodeGeneration(4, tetracubes(t))
	require.NoError(t, err)
	b, err := encodeGeneration(4, tetracubes(t))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestCodec_DecodeErrors(t *testing.T) {
	valid, err := encodeGeneration(4, tetracubes(t))
	require.NoError(t, err)

	tests := []struct {
		name string
		n    int
		data []byte
	}{
		{name: "not zstd", n: 4, data: []byte("definitely not a cache file")},
		{name: "truncated", n: 4, data: valid[:len(valid)/2]},
		{name: "empty", n: 4, data: nil},
		{name: "not cbor", n: 4, data: zstdEncoder.EncodeAll([]byte{0xff, 0xff, 0xff}, nil)},
		{name: "wrong n", n: 5, data: valid},
		{
			name: "future version",
			n:    1,
			data: mustEncode(t, payload{Version: payloadVersion + 1, N: 1,
				Shapes: []shapeRecord{{X: 1, Y: 1, Z: 1, Cells: []byte{1}}}}),
		},
		{
			name: "zero dimension",
			n:    1,
			data: mustEncode(t, payload{Version: payloadVersion, N: 1,
				Shapes: []shapeRecord{{X: 0, Y: 1, Z: 1, Cells: []byte{}}}}),
		},
		{
			name: "dimensions wrap to one cell",
			n:    1,
			data: mustEncode(t, payload{Version: payloadVersion, N: 1,
				Shapes: []shapeRecord{{X: math.MaxInt64, Y: math.MaxInt64, Z: 1, Cells: []byte{1}}}}),
		},
		{
			name: "dimension larger than n",
			n:    2,
			data: mustEncode(t, payload{Version: payloadVersion, N: 2,
				Shapes: []shapeRecord{{X: 3, Y: 1, Z: 1, Cells: []byte{3}}}}),
		},
		{
			name: "negative dimension",
			n:    1,
			data: mustEncode(t, payload{Version: payloadVersion, N: 1,
				Shapes: []shapeRecord{{X: -1, Y: 1, Z: 1, Cells: []byte{1}}}}),
		},
		{
			name: "short cell buffer",
			n:    4,
			data: mustEncode(t, payload{Version: payloadVersion, N: 4,
				Shapes: []shapeRecord{{X: 3, Y: 3, Z: 1, Cells: []byte{3}}}}),
		},
		{
			name: "wrong cube count",
			n:    4,
			data: mustEncode(t, payload{Version: payloadVersion, N: 4,
				Shapes: []shapeRecord{{X: 3, Y: 1, Z: 1, Cells: []byte{7}}}}),
		},
		{
			name: "not cropped",
			n:    2,
			data: mustEncode(t, payload{Version: payloadVersion, N: 2,
				Shapes: []shapeRecord{{X: 2, Y: 2, Z: 1, Cells: []byte{5}}}}),
		},
		{
			name: "disconnected",
			n:    2,
			data: mustEncode(t, payload{Version: payloadVersion, N: 2,
				Shapes: []shapeRecord{{X: 2, Y: 2, Z: 1, Cells: []byte{9}}}}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeGeneration(tt.n, tt.data)
			assert.ErrorIs(t, err, ErrDecode)
		})
	}
}

func TestPackCells(t *testing.T) {
	cells := []bool{true, false, true, false, false, false, false, false, true}
	packed := packCells(cells)
	assert.Equal(t, []byte{0b00000101, 0b00000001}, packed)
	assert.Equal(t, cells, unpackCells(packed, len(cells)))
}
