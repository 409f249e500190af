package hashing

import (
	"context"
	"errors"
	"hash/fnv"
	"math"

	"textintel/internal/textutil"
)

// DefaultDimension matches the width of the all-MiniLM-L6-v2 sentence model.
const DefaultDimension = 384

// Embedder maps text to a fixed-size vector by hashing content words into
// buckets and weighting them by term frequency. It needs no corpus and no
// network, so it works offline and stays stable across restarts.
type Embedder struct {
	dimension int
}

// NewEmbedder creates a hashing embedder producing vectors of dimension dim.
func NewEmbedder(dim int) (*Embedder, error) {
	if dim <= 0 {
		return nil, errors.New("hashing embedder: dimension must be positive")
	}
	return &Embedder{dimension: dim}, nil
}

// Name returns the identifier of this embedder implementation.
func (e *Embedder) Name() string { return "hashing" }

// Dimension returns the dimensionality of the produced embedding vectors.
func (e *Embedder) Dimension() int { return e.dimension }

// Embed computes the L2-normalized hashed term-frequency vector for text.
// Text without content words maps to the zero vector.
func (e *Embedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vec := make([]float64, e.dimension)
	tokens := textutil.ContentWords(text)
	if len(tokens) == 0 {
		return make([]float32, e.dimension), nil
	}
	tf := make(map[string]int, len(tokens))
	for _, tok := range tokens {
		tf[tok]++
	}
	total := float64(len(tokens))
	for tok, count := range tf {
		idx, sign := bucket(tok, e.dimension)
		// Sublinear tf damps repeated words.
		vec[idx] += sign * (1 + math.Log(float64(count))) / total
	}
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	out := make([]float32, e.dimension)
	for i, v := range vec {
		if norm > 0 {
			v /= norm
		}
		out[i] = float32(v)
	}
	return out, nil
}

func bucket(token string, dim int) (int, float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(token))
	sum := h.Sum64()
	sign := 1.0
	if sum>>63 == 1 {
		sign = -1.0
	}
	return int(sum % uint64(dim)), sign
}
