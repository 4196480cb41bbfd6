package history

import (
	"context"
	"sync"
)

// maxMemoryPoints bounds the per-token in-memory history.
const maxMemoryPoints = 200

// MemoryStore implements the Store interface in process memory. It is the
// fallback when no database is configured; history does not survive a
// restart.
type MemoryStore struct {
	mu     sync.Mutex
	points map[string][]PricePoint
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{points: make(map[string][]PricePoint)}
}

// RecordPricePoint implements the Store interface.
func (s *MemoryStore) RecordPricePoint(_ context.Context, point *PricePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	points := append(s.points[point.Address], *point)
	if len(points) > maxMemoryPoints {
		points = points[len(points)-maxMemoryPoints:]
	}
	s.points[point.Address] = points
	return nil
}

// RecentPoints implements the Store interface, newest first.
func (s *MemoryStore) RecentPoints(_ context.Context, address string, limit int) ([]PricePoint, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.points[address]
	if limit <= 0 || limit > len(stored) {
		limit = len(stored)
	}

	out := make([]PricePoint, 0, limit)
	for i := len(stored) - 1; i >= len(stored)-limit; i-- {
		out = append(out, stored[i])
	}
	return out, nil
}

// Close implements the Store interface.
func (s *MemoryStore) Close() error {
	return nil
}
