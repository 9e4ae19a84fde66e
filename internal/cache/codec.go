package cache

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"

	"polycubes/internal/polycube"
)

// payloadVersion is bumped whenever the encoded layout changes. Older
// payloads then fail to decode with ErrDecode.
const payloadVersion = 1

type payload struct {
	Version int           `cbor:"1,keyasint"`
	N       int           `cbor:"2,keyasint"`
	Shapes  []shapeRecord `cbor:"3,keyasint"`
}

// shapeRecord stores one grid with its cells packed eight to a byte, in
// flattening order, least significant bit first.
type shapeRecord struct {
	X     int    `cbor:"1,keyasint"`
	Y     int    `cbor:"2,keyasint"`
	Z     int    `cbor:"3,keyasint"`
	Cells []byte `cbor:"4,keyasint"`
}

var (
	encMode     cbor.EncMode
	decMode     cbor.DecMode
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	if encMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(fmt.Sprintf("cache: cbor encoder: %v", err))
	}
	// generations past n=9 exceed the default array limit
	if decMode, err = (cbor.DecOptions{MaxArrayElements: math.MaxInt32}).DecMode(); err != nil {
		panic(fmt.Sprintf("cache: cbor decoder: %v", err))
	}
	if zstdEncoder, err = zstd.NewWriter(nil); err != nil {
		panic(fmt.Sprintf("cache: zstd encoder: %v", err))
	}
	if zstdDecoder, err = zstd.NewReader(nil); err != nil {
		panic(fmt.Sprintf("cache: zstd decoder: %v", err))
	}
}

// encodeGeneration serializes shapes for size n.
func encodeGeneration(n int, shapes []polycube.Grid) ([]byte, error) {
	p := payload{Version: payloadVersion, N: n, Shapes: make([]shapeRecord, len(shapes))}
	for i, g := range shapes {
		p.Shapes[i] = shapeRecord{X: g.X, Y: g.Y, Z: g.Z, Cells: packCells(g.Cells)}
	}

	raw, err := encMode.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode generation %d: %w", n, err)
	}
	return zstdEncoder.EncodeAll(raw, nil), nil
}

// decodeGeneration parses and validates a payload written for size n.
func decodeGeneration(n int, data []byte) ([]polycube.Grid, error) {
	raw, err := zstdDecoder.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress: %w", ErrDecode, err)
	}

	var p payload
	if err := decMode.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if p.Version != payloadVersion {
		return nil, fmt.Errorf("%w: version %d, want %d", ErrDecode, p.Version, payloadVersion)
	}
	if p.N != n {
		return nil, fmt.Errorf("%w: payload holds n=%d, want n=%d", ErrDecode, p.N, n)
	}

	shapes := make([]polycube.Grid, len(p.Shapes))
	for i, rec := range p.Shapes {
		g, err := rec.grid(n)
		if err != nil {
			return nil, fmt.Errorf("%w: shape %d: %w", ErrDecode, i, err)
		}
		if g.Count() != n || !g.IsCropped() || !g.Connected() {
			return nil, fmt.Errorf("%w: shape %d is not a cropped %d-cube", ErrDecode, i, n)
		}
		shapes[i] = g
	}
	return shapes, nil
}

// grid unpacks the record. A cropped n-cube spans at most n cells on any
// axis, so larger dimensions are rejected before the cell count is computed.
func (r shapeRecord) grid(n int) (polycube.Grid, error) {
	if r.X > n || r.Y > n || r.Z > n {
		return polycube.Grid{}, fmt.Errorf("dimensions %dx%dx%d exceed %d", r.X, r.Y, r.Z, n)
	}
	size, err := polycube.Volume(r.X, r.Y, r.Z)
	if err != nil {
		return polycube.Grid{}, err
	}
	if len(r.Cells) != size/8+min(size%8, 1) {
		return polycube.Grid{}, fmt.Errorf("%d packed bytes for %d cells", len(r.Cells), size)
	}
	return polycube.FromCells(r.X, r.Y, r.Z, unpackCells(r.Cells, size))
}

func packCells(cells []bool) []byte {
	out := make([]byte, (len(cells)+7)/8)
	for i, c := range cells {
		if c {
			out[i/8] |= 1 << (i % 8)
		}
	}
	return out
}

func unpackCells(packed []byte, size int) []bool {
	cells := make([]bool, size)
	for i := range cells {
		cells[i] = packed[i/8]&(1<<(i%8)) != 0
	}
	return cells
}
