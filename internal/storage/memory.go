package storage

import (
	"fmt"
	"slices"
	"sync"
)

type MemoryStore struct {
	mu     sync.RWMutex
	frames map[uint64]*FrameDump
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{frames: make(map[uint64]*FrameDump)}
}

func (s *MemoryStore) Save(d *FrameDump) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames[d.Frame] = cloneDump(d)
	return nil
}

func (s *MemoryStore) Load(frame uint64) (*FrameDump, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.frames[frame]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrFrameNotFound, frame)
	}
	return cloneDump(d), nil
}

func (s *MemoryStore) Frames() ([]uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	frames := make([]uint64, 0, len(s.frames))
	for f := range s.frames {
		frames = append(frames, f)
	}
	slices.Sort(frames)
	return frames, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneDump(d *FrameDump) *FrameDump {
	out := *d
	out.Positions = slices.Clone(d.Positions)
	if d.Metrics != nil {
		out.Metrics = make(map[string]float64, len(d.Metrics))
		for k, v := range d.Metrics {
			out.Metrics[k] = v
		}
	}
	return &out
}
