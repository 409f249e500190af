package vectorindex

import (
	"encoding/binary"
	"errors"
	"testing"
)

func TestFlatSearchOrdersByDistance(t *testing.T) {
	idx, err := NewFlat[string](2)
	if err != nil {
		t.Fatalf("NewFlat failed: %v", err)
	}
	for _, p := range []struct {
		vec  []float32
		name string
	}{
		{[]float32{10, 10}, "far"},
		{[]float32{1, 0}, "near"},
		{[]float32{3, 4}, "mid"},
	} {
		if _, err := idx.Add(p.vec, p.name); err != nil {
			t.Fatalf("Add(%s) failed: %v", p.name, err)
		}
	}

	hits, err := idx.Search([]float32{0, 0}, 10)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("Search returned %d hits, want 3", len(hits))
	}
	want := []string{"near", "mid", "far"}
	for i, h := range hits {
		if h.Payload != want[i] {
			t.Errorf("hit %d = %s, want %s", i, h.Payload, want[i])
		}
	}
	if hits[1].Distance != 5 || hits[1].Position != 2 {
		t.Errorf("mid hit = %+v, want distance 5 at position 2", hits[1])
	}
}

func TestFlatSearchClampsK(t *testing.T) {
	idx, _ := NewFlat[int](1)
	_, _ = idx.Add([]float32{1}, 1)
	hits, err := idx.Search([]float32{0}, 5)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("Search returned %d hits, want 1", len(hits))
	}
}

func TestFlatRejectsWrongDimension(t *testing.T) {
	idx, _ := NewFlat[int](3)
	if _, err := idx.Add([]float32{1, 2}, 0); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("Add error = %v, want ErrDimensionMismatch", err)
	}
	if idx.Len() != 0 {
		t.Fatalf("Len = %d after rejected add, want 0", idx.Len())
	}
	if _, err := idx.Search([]float32{1}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Fatalf("Search error = %v, want ErrDimensionMismatch", err)
	}
}

func TestNewFlatInvalidDimension(t *testing.T) {
	if _, err := NewFlat[int](0); err == nil {
		t.Fatal("expected error for zero dimension")
	}
}

func TestL2(t *testing.T) {
	if d := l2([]float32{0, 0}, []float32{3, 4}); d != 5 {
		t.Fatalf("l2 = %v, want 5", d)
	}
}

func TestEncodeDecodeVectors(t *testing.T) {
	idx, _ := NewFlat[struct{}](2)
	_, _ = idx.Add([]float32{1.5, -2}, struct{}{})
	_, _ = idx.Add([]float32{0, 3.25}, struct{}{})

	data, err := idx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	dim, vecs, err := DecodeVectors(data)
	if err != nil {
		t.Fatalf("DecodeVectors failed: %v", err)
	}
	if dim != 2 || len(vecs) != 2 {
		t.Fatalf("decoded dim=%d n=%d, want 2 and 2", dim, len(vecs))
	}
	if vecs[0][0] != 1.5 || vecs[1][1] != 3.25 {
		t.Errorf("decoded vectors = %v", vecs)
	}
}

func TestDecodeVectorsTruncated(t *testing.T) {
	data, _ := EncodeVectors(2, [][]float32{{1, 2}})
	if _, _, err := DecodeVectors(data[:len(data)-1]); err == nil {
		t.Fatal("expected error for truncated data")
	}
	if _, _, err := DecodeVectors([]byte{1, 2}); err == nil {
		t.Fatal("expected error for short header")
	}
}

func TestEncodeEmptyIndex(t *testing.T) {
	idx, _ := NewFlat[int](4)
	data, err := idx.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary failed: %v", err)
	}
	dim, vecs, err := DecodeVectors(data)
	if err != nil {
		t.Fatalf("DecodeVectors failed: %v", err)
	}
	if dim != 4 || len(vecs) != 0 {
		t.Fatalf("decoded dim=%d n=%d, want 4 and 0", dim, len(vecs))
	}
}

func TestDecodeVectorsRejectsOversizedHeader(t *testing.T) {
	header := func(dim, n uint32, body int) []byte {
		data := make([]byte, 8+body)
		binary.LittleEndian.PutUint32(data[0:4], dim)
		binary.LittleEndian.PutUint32(data[4:8], n)
		return data
	}
	tests := []struct {
		name string
		data []byte
	}{
		// 2^31 * 2^31 * 4 wraps to 0 in 64-bit arithmetic.
		{"wrapping product", header(1<<31, 1<<31, 0)},
		{"dimension too large", header(MaxDimension+1, 0, 0)},
		{"count beyond body", header(16, 0xFFFFFFFF, 64)},
		{"body not a whole row", header(2, 1, 12)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := DecodeVectors(tt.data); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}
