package vectorindex

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrDimensionMismatch is returned when a vector does not match the index dimension.
var ErrDimensionMismatch = errors.New("vector dimension mismatch")

// Hit is one nearest-neighbour match.
type Hit[T any] struct {
	Position int
	Distance float64
	Payload  T
}

type entry[T any] struct {
	vector  []float32
	payload T
}

// Flat is an exact nearest-neighbour index over L2 distance. Each vector is
// stored together with its payload, so the position of a vector and the
// position of its payload can never diverge.
//
// Flat is not safe for concurrent use; callers provide their own locking.
type Flat[T any] struct {
	dim     int
	entries []entry[T]
}

// NewFlat creates an empty index of the given dimension.
func NewFlat[T any](dim int) (*Flat[T], error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dim)
	}
	return &Flat[T]{dim: dim}, nil
}

// Dimension returns the fixed vector dimension.
func (f *Flat[T]) Dimension() int { return f.dim }

// Len returns the number of stored vectors.
func (f *Flat[T]) Len() int { return len(f.entries) }

// Add appends a vector and its payload and returns the assigned position.
// The vector is copied.
func (f *Flat[T]) Add(vector []float32, payload T) (int, error) {
	if len(vector) != f.dim {
		return 0, fmt.Errorf("%w: got %d want %d", ErrDimensionMismatch, len(vector), f.dim)
	}
	v := make([]float32, len(vector))
	copy(v, vector)
	f.entries = append(f.entries, entry[T]{vector: v, payload: payload})
	return len(f.entries) - 1, nil
}

// Vectors returns the stored vectors in insertion order.
func (f *Flat[T]) Vectors() [][]float32 {
	out := make([][]float32, len(f.entries))
	for i := range f.entries {
		out[i] = f.entries[i].vector
	}
	return out
}

// Payloads returns the stored payloads in insertion order.
func (f *Flat[T]) Payloads() []T {
	out := make([]T, len(f.entries))
	for i := range f.entries {
		out[i] = f.entries[i].payload
	}
	return out
}

// Search returns up to k hits ordered by increasing distance. Ties keep
// insertion order. k larger than the index is clamped.
func (f *Flat[T]) Search(query []float32, k int) ([]Hit[T], error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("%w: query %d want %d", ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 || len(f.entries) == 0 {
		return nil, nil
	}
	hits := make([]Hit[T], len(f.entries))
	for i := range f.entries {
		hits[i] = Hit[T]{Position: i, Distance: l2(query, f.entries[i].vector), Payload: f.entries[i].payload}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Distance < hits[b].Distance })
	if k > len(hits) {
		k = len(hits)
	}
	return hits[:k], nil
}

func l2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
