package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// SQLiteStore keeps one JSON blob per frame.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// an in-memory database lives on a single connection
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS frames (
		frame INTEGER PRIMARY KEY,
		payload BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create frames table: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Save(d *FrameDump) error {
	payload, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode frame %d: %w", d.Frame, err)
	}
	if _, err := s.db.Exec(`INSERT OR REPLACE INTO frames(frame, payload) VALUES(?, ?)`, int64(d.Frame), payload); err != nil {
		return fmt.Errorf("insert frame %d: %w", d.Frame, err)
	}
	return nil
}

func (s *SQLiteStore) Load(frame uint64) (*FrameDump, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM frames WHERE frame = ?`, int64(frame)).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrFrameNotFound, frame)
	}
	if err != nil {
		return nil, fmt.Errorf("select frame %d: %w", frame, err)
	}
	var d FrameDump
	if err := json.Unmarshal(payload, &d); err != nil {
		return nil, fmt.Errorf("decode frame %d: %w", frame, err)
	}
	return &d, nil
}

func (s *SQLiteStore) Frames() ([]uint64, error) {
	rows, err := s.db.Query(`SELECT frame FROM frames ORDER BY frame`)
	if err != nil {
		return nil, fmt.Errorf("select frames: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var frames []uint64
	for rows.Next() {
		var f int64
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		frames = append(frames, uint64(f))
	}
	return frames, rows.Err()
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
