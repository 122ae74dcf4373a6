// Package storage persists engine frame dumps so a world can recover them.
package storage

import (
	"errors"
	"time"

	"github.com/san-kum/ipcsim/internal/geometry"
)

// ErrFrameNotFound indicates no dump exists for the requested frame.
var ErrFrameNotFound = errors.New("storage: frame not found")

// FrameDump is the engine state needed to resume at Frame.
type FrameDump struct {
	Frame     uint64             `json:"frame"`
	Timestamp time.Time          `json:"timestamp"`
	Positions []geometry.Vector3 `json:"positions"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

type Store interface {
	// Save stores d, replacing any dump of the same frame.
	Save(d *FrameDump) error
	Load(frame uint64) (*FrameDump, error)
	// Frames lists the stored frames in ascending order.
	Frames() ([]uint64, error)
	Close() error
}

// Open returns a SQLite store at path, or a memory store for an empty path.
func Open(path string) (Store, error) {
	if path == "" {
		return NewMemoryStore(), nil
	}
	return NewSQLiteStore(path)
}
