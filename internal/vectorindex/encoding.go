package vectorindex

import (
	"encoding/binary"
	"errors"
	"math"
)

// MaxDimension bounds the vector dimension accepted when decoding.
const MaxDimension = 1 << 16

var errTruncated = errors.New("vectorindex: truncated data")

// MarshalBinary stores dim(uint32), n(uint32), then n vectors of dim
// little-endian float32 values. Payloads are not encoded.
func (f *Flat[T]) MarshalBinary() ([]byte, error) {
	return EncodeVectors(f.dim, f.Vectors())
}

// EncodeVectors writes vectors of the given dimension in the index wire format.
func EncodeVectors(dim int, vectors [][]float32) ([]byte, error) {
	out := make([]byte, 8, 8+len(vectors)*dim*4)
	binary.LittleEndian.PutUint32(out[0:4], uint32(dim))
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(vectors)))
	buf := make([]byte, 4)
	for _, vec := range vectors {
		if len(vec) != dim {
			return nil, ErrDimensionMismatch
		}
		for _, v := range vec {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
			out = append(out, buf...)
		}
	}
	return out, nil
}

// DecodeVectors reads data produced by EncodeVectors.
func DecodeVectors(data []byte) (int, [][]float32, error) {
	if len(data) < 8 {
		return 0, nil, errTruncated
	}
	d := binary.LittleEndian.Uint32(data[0:4])
	count := binary.LittleEndian.Uint32(data[4:8])
	if d == 0 || d > MaxDimension {
		return 0, nil, errors.New("vectorindex: invalid dimension")
	}
	// Header words are untrusted: check n against the body before multiplying.
	body := uint64(len(data) - 8)
	row := uint64(d) * 4
	if uint64(count) > body/row || uint64(count)*row != body {
		return 0, nil, errTruncated
	}
	dim, n := int(d), int(count)
	off := 8
	vectors := make([][]float32, n)
	for i := 0; i < n; i++ {
		vec := make([]float32, dim)
		for j := 0; j < dim; j++ {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off : off+4]))
			off += 4
		}
		vectors[i] = vec
	}
	return dim, vectors, nil
}
