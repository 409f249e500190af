package docstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/go-logr/logr"

	"textintel/internal/domain"
	"textintel/internal/vectorindex"
)

type record struct {
	text     string
	metadata domain.Metadata
}

// Store is the semantic search document store. Every document is held as one
// record (vector, text, metadata) in a flat L2 index, so the position of a
// vector always identifies its text and metadata.
//
// Mutations are serialized; searches and stats run concurrently with each
// other and never observe a half-applied mutation. The full snapshot is
// persisted after every mutation. Persistence is best effort: a failed save
// is logged and the in-memory state is kept.
type Store struct {
	mu       sync.RWMutex
	dim      int
	index    *vectorindex.Flat[record]
	embedder domain.Embedder
	snap     Snapshotter
	log      logr.Logger
}

// Option configures optional Store dependencies.
type Option func(*Store)

// WithLogger sets the logger used for persistence diagnostics.
func WithLogger(l logr.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithSnapshotter sets where snapshots are saved and restored from.
func WithSnapshotter(snap Snapshotter) Option {
	return func(s *Store) { s.snap = snap }
}

// New creates a store of the given vector dimension and restores the last
// snapshot. A missing or unreadable snapshot leaves the store empty.
func New(embedder domain.Embedder, dim int, opts ...Option) (*Store, error) {
	if embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if ed := embedder.Dimension(); ed != 0 && ed != dim {
		return nil, fmt.Errorf("%w: embedder %s produces %d, store expects %d", ErrDimensionMismatch, embedder.Name(), ed, dim)
	}
	index, err := vectorindex.NewFlat[record](dim)
	if err != nil {
		return nil, err
	}
	s := &Store{
		dim:      dim,
		index:    index,
		embedder: embedder,
		snap:     Discard{},
		log:      logr.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.restore()
	return s, nil
}

// Add embeds text and appends it with its metadata. Nothing is stored when
// embedding or indexing fails.
func (s *Store) Add(ctx context.Context, text string, metadata domain.Metadata) (domain.AddResult, error) {
	if text == "" {
		return domain.AddResult{}, ErrEmptyText
	}
	vec, err := s.embed(ctx, text)
	if err != nil {
		return domain.AddResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	pos, err := s.index.Add(vec, record{text: text, metadata: cloneMetadata(metadata)})
	if err != nil {
		return domain.AddResult{}, fmt.Errorf("index document: %w", err)
	}
	if err := s.persistLocked(); err != nil {
		s.log.Error(err, "snapshot save failed, keeping in-memory state", "documents", s.index.Len())
	}
	return domain.AddResult{DocumentID: pos, TotalDocuments: s.index.Len()}, nil
}

// Search returns up to topK documents closest to query, nearest first. The
// similarity score is 1/(1+d) for L2 distance d. An empty store returns no
// results without embedding the query.
func (s *Store) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if query == "" {
		return nil, ErrEmptyText
	}
	if topK < 1 {
		return nil, ErrInvalidTopK
	}
	if s.Len() == 0 {
		return []domain.SearchResult{}, nil
	}
	vec, err := s.embed(ctx, query)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	hits, err := s.index.Search(vec, topK)
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}
	results := make([]domain.SearchResult, 0, len(hits))
	for i, h := range hits {
		results = append(results, domain.SearchResult{
			Rank:            i + 1,
			Text:            h.Payload.text,
			SimilarityScore: 1 / (1 + h.Distance),
			Metadata:        cloneMetadata(h.Payload.metadata),
		})
	}
	return results, nil
}

// Stats reports the document count, the index element count and the dimension.
func (s *Store) Stats() domain.IndexStats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.IndexStats{
		TotalDocuments: len(s.index.Payloads()),
		IndexSize:      s.index.Len(),
		Dimension:      s.dim,
	}
}

// Clear drops every document and persists the empty snapshot.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	// NewFlat only fails for a non-positive dimension, checked in New.
	s.index, _ = vectorindex.NewFlat[record](s.dim)
	if err := s.persistLocked(); err != nil {
		s.log.Error(err, "snapshot save failed after clear, keeping in-memory state")
	}
}

// Len returns the number of stored documents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Len()
}

// Dimension returns the fixed vector dimension.
func (s *Store) Dimension() int { return s.dim }

// Close releases the snapshotter.
func (s *Store) Close() error { return s.snap.Close() }

func (s *Store) embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed text: %w", err)
	}
	if len(vec) != s.dim {
		return nil, fmt.Errorf("%w: got %d want %d", ErrDimensionMismatch, len(vec), s.dim)
	}
	return vec, nil
}

func (s *Store) persistLocked() error {
	data, err := s.index.MarshalBinary()
	if err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	payloads := s.index.Payloads()
	rec := DocumentsRecord{
		Texts:    make([]string, len(payloads)),
		Metadata: make([]domain.Metadata, len(payloads)),
	}
	for i, p := range payloads {
		rec.Texts[i] = p.text
		rec.Metadata[i] = p.metadata
	}
	return s.snap.Save(Snapshot{Index: data, Documents: rec})
}

func (s *Store) restore() {
	snap, err := s.snap.Load()
	if errors.Is(err, ErrNoSnapshot) {
		s.log.V(1).Info("no snapshot found, starting empty")
		return
	}
	if err != nil {
		s.log.Error(err, "cannot load snapshot, starting empty")
		return
	}
	index, err := rebuild(s.dim, snap)
	if err != nil {
		s.log.Error(err, "discarding snapshot, starting empty")
		return
	}
	s.index = index
	s.log.Info("loaded documents from snapshot", "documents", index.Len())
}

func rebuild(dim int, snap Snapshot) (*vectorindex.Flat[record], error) {
	d, vectors, err := vectorindex.DecodeVectors(snap.Index)
	if err != nil {
		return nil, fmt.Errorf("decode index: %w", err)
	}
	if d != dim {
		return nil, fmt.Errorf("%w: snapshot %d, store %d", ErrDimensionMismatch, d, dim)
	}
	texts, metas := snap.Documents.Texts, snap.Documents.Metadata
	if len(vectors) != len(texts) || len(texts) != len(metas) {
		return nil, fmt.Errorf("%w: %d vectors, %d texts, %d metadata", ErrIndexOutOfSync, len(vectors), len(texts), len(metas))
	}
	index, err := vectorindex.NewFlat[record](dim)
	if err != nil {
		return nil, err
	}
	for i := range vectors {
		if _, err := index.Add(vectors[i], record{text: texts[i], metadata: cloneMetadata(metas[i])}); err != nil {
			return nil, err
		}
	}
	return index, nil
}

func cloneMetadata(m domain.Metadata) domain.Metadata {
	out := make(domain.Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
