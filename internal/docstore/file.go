package docstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// IndexFileName holds the encoded vector index.
	IndexFileName = "index.bin"
	// DocumentsFileName holds the JSON document record.
	DocumentsFileName = "documents.json"

	lockFileName = ".lock"
	lockPoll     = 50 * time.Millisecond
)

// FileSnapshotter keeps a snapshot as two files in one directory. Each file is
// replaced atomically. The directory lock is taken when the snapshotter is
// opened and held until Close, so only one process at a time owns the index.
type FileSnapshotter struct {
	dir  string
	lock *flock.Flock
}

// NewFileSnapshotter creates dir if needed and locks it. It returns ErrLocked
// when another process still holds the directory after lockTimeout.
func NewFileSnapshotter(dir string, lockTimeout time.Duration) (*FileSnapshotter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	lock, err := lockIndexDir(dir, lockTimeout)
	if err != nil {
		return nil, err
	}
	return &FileSnapshotter{dir: dir, lock: lock}, nil
}

// Dir returns the directory the snapshot lives in.
func (f *FileSnapshotter) Dir() string { return f.dir }

// Save replaces both files.
func (f *FileSnapshotter) Save(snap Snapshot) error {
	docs, err := json.Marshal(snap.Documents)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(f.dir, IndexFileName), snap.Index); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if err := writeFileAtomic(filepath.Join(f.dir, DocumentsFileName), docs); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return nil
}

// Load reads both files. It returns ErrNoSnapshot when either is absent.
func (f *FileSnapshotter) Load() (Snapshot, error) {
	index, err := readSnapshotFile(filepath.Join(f.dir, IndexFileName))
	if err != nil {
		return Snapshot{}, err
	}
	raw, err := readSnapshotFile(filepath.Join(f.dir, DocumentsFileName))
	if err != nil {
		return Snapshot{}, err
	}
	var docs DocumentsRecord
	if err := json.Unmarshal(raw, &docs); err != nil {
		return Snapshot{}, fmt.Errorf("decode documents: %w", err)
	}
	return Snapshot{Index: index, Documents: docs}, nil
}

// Close releases the directory lock.
func (f *FileSnapshotter) Close() error { return f.lock.Unlock() }

// lockIndexDir takes the exclusive lock of an index directory, polling until
// timeout.
func lockIndexDir(dir string, timeout time.Duration) (*flock.Flock, error) {
	l := flock.New(filepath.Join(dir, lockFileName))
	deadline := time.Now().Add(timeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("cannot acquire index lock: %w", err)
		}
		if locked {
			return l, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w (lock: %s)", ErrLocked, l.Path())
		}
		time.Sleep(lockPoll)
	}
}

func readSnapshotFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSnapshot
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	return data, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
