package refdata

import (
	"context"
	"errors"
	"sync"
)

var ErrNotFound = errors.New("refdata: workspace not found")

// Store loads the reference-context snapshot for a workspace.
//
// Implementations must enforce workspace scoping; a snapshot must never mix
// entities from different workspaces.
type Store interface {
	Load(ctx context.Context, workspaceID string) (Context, error)
}

// MemoryStore is a workspace-keyed in-memory store useful for tests.
// It is not intended for production use.
type MemoryStore struct {
	mu       sync.RWMutex
	snapshot map[string]Context
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshot: make(map[string]Context)}
}

func (s *MemoryStore) Put(workspaceID string, c Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot[workspaceID] = c
}

func (s *MemoryStore) Load(_ context.Context, workspaceID string) (Context, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.snapshot[workspaceID]
	if !ok {
		return Context{}, ErrNotFound
	}
	return c, nil
}
