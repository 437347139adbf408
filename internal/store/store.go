// Package store keeps the latest machine snapshot.
package store

import (
	"context"
	"sync"

	"github.com/fairyhunter13/coffee-maker-simulator/internal/model"
)

// Memory holds the newest snapshot in process memory.
type Memory struct {
	mu   sync.RWMutex
	snap model.Snapshot
	ok   bool
}

func New() *Memory {
	return &Memory{}
}

func (s *Memory) Load(_ context.Context) (model.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.ok {
		return model.Snapshot{}, false, nil
	}
	return s.snap, true, nil
}

// Save keeps snap unless a snapshot with the same or a newer version is
// already stored.
func (s *Memory) Save(_ context.Context, snap model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ok && snap.Version <= s.snap.Version {
		return nil
	}
	s.snap = snap
	s.ok = true
	return nil
}
