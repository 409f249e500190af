package docstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

// SQLiteFileName is the database file used by the sqlite backend.
const SQLiteFileName = "index.sqlite"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS snapshot_index (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data BLOB NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS snapshot_documents (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		data TEXT NOT NULL,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// SQLiteSnapshotter keeps the two snapshot artifacts as single-row tables of
// one SQLite database and replaces both in one transaction. Like the file
// backend it holds the directory lock until Close.
type SQLiteSnapshotter struct {
	db   *sql.DB
	lock *flock.Flock
}

// OpenSQLiteSnapshotter locks the directory of path and opens (or creates)
// the database there.
func OpenSQLiteSnapshotter(path string, busyTimeout time.Duration) (*SQLiteSnapshotter, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create index dir: %w", err)
	}
	lock, err := lockIndexDir(dir, busyTimeout)
	if err != nil {
		return nil, err
	}
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}
	db.SetMaxOpenConns(1)
	for _, stmt := range sqliteSchema {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("create schema: %w", err)
		}
	}
	return &SQLiteSnapshotter{db: db, lock: lock}, nil
}

// Save replaces the stored snapshot.
func (s *SQLiteSnapshotter) Save(snap Snapshot) error {
	docs, err := json.Marshal(snap.Documents)
	if err != nil {
		return fmt.Errorf("encode documents: %w", err)
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`INSERT INTO snapshot_index (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`, snap.Index); err != nil {
		return fmt.Errorf("write index: %w", err)
	}
	if _, err := tx.Exec(`INSERT INTO snapshot_documents (id, data) VALUES (1, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = CURRENT_TIMESTAMP`, string(docs)); err != nil {
		return fmt.Errorf("write documents: %w", err)
	}
	return tx.Commit()
}

// Load returns the stored snapshot or ErrNoSnapshot.
func (s *SQLiteSnapshotter) Load() (Snapshot, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return Snapshot{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var index []byte
	if err := tx.QueryRow(`SELECT data FROM snapshot_index WHERE id = 1`).Scan(&index); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, fmt.Errorf("read index: %w", err)
	}
	var raw string
	if err := tx.QueryRow(`SELECT data FROM snapshot_documents WHERE id = 1`).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Snapshot{}, ErrNoSnapshot
		}
		return Snapshot{}, fmt.Errorf("read documents: %w", err)
	}
	var docs DocumentsRecord
	if err := json.Unmarshal([]byte(raw), &docs); err != nil {
		return Snapshot{}, fmt.Errorf("decode documents: %w", err)
	}
	return Snapshot{Index: index, Documents: docs}, nil
}

// Close closes the database and releases the directory lock.
func (s *SQLiteSnapshotter) Close() error {
	return errors.Join(s.db.Close(), s.lock.Unlock())
}

// OpenSnapshotter builds the snapshot backend named by backend ("file" or
// "sqlite") rooted at dir.
func OpenSnapshotter(backend, dir string, lockTimeout time.Duration) (Snapshotter, error) {
	switch backend {
	case "", "file":
		return NewFileSnapshotter(dir, lockTimeout)
	case "sqlite":
		return OpenSQLiteSnapshotter(filepath.Join(dir, SQLiteFileName), lockTimeout)
	default:
		return nil, fmt.Errorf("unknown index backend %q", backend)
	}
}
