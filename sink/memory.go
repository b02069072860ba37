package sink

import (
	"context"
	"fmt"
	"sync"
)

// Memory keeps the latest snapshot for readers such as the HTTP API
type Memory struct {
	mu      sync.RWMutex
	latest  Snapshot
	present bool
}

// NewMemory creates an empty in-memory sink
func NewMemory() *Memory {
	return &Memory{}
}

// Publish replaces the held snapshot. A snapshot whose sequence is not newer
// than the held one is rejected with ErrStaleSnapshot.
func (m *Memory) Publish(_ context.Context, s Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.present && s.Seq <= m.latest.Seq {
		return fmt.Errorf("sequence %d, holding %d: %w", s.Seq, m.latest.Seq, ErrStaleSnapshot)
	}
	m.latest = s
	m.present = true
	return nil
}

// Latest returns the held snapshot. ok is false before the first publish.
func (m *Memory) Latest() (Snapshot, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.latest, m.present
}
