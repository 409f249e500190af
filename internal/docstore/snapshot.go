package docstore

import "textintel/internal/domain"

// Snapshot is the complete persisted state of a store: the encoded vector
// index and the document record that lines up with it.
type Snapshot struct {
	Index     []byte
	Documents DocumentsRecord
}

// DocumentsRecord holds the ordered texts and the ordered metadata.
type DocumentsRecord struct {
	Texts    []string          `json:"texts"`
	Metadata []domain.Metadata `json:"metadata"`
}

// Snapshotter persists and restores whole snapshots. Save replaces the
// previous snapshot; Load returns ErrNoSnapshot when nothing was saved.
type Snapshotter interface {
	Save(snap Snapshot) error
	Load() (Snapshot, error)
	Close() error
}

// Discard is a Snapshotter that keeps nothing.
type Discard struct{}

// Save does nothing.
func (Discard) Save(Snapshot) error { return nil }

// Load always reports that no snapshot exists.
func (Discard) Load() (Snapshot, error) { return Snapshot{}, ErrNoSnapshot }

// Close does nothing.
func (Discard) Close() error { return nil }
