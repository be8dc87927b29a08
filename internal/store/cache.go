package store

import (
	"sync"

	"go-churn-pipeline/internal/model"
)

// ResultStore owns the single current prediction batch. Writes replace
// the batch atomically; readers always observe either the previous batch
// or the new one, never a partial write. Last completed run wins.
type ResultStore struct {
	mu      sync.RWMutex
	current *model.Batch
}

func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Set makes batch the current one.
func (s *ResultStore) Set(batch *model.Batch) {
	s.mu.Lock()
	s.current = batch
	s.mu.Unlock()
}

// Current returns the current batch, or nil when no run has completed.
// Callers must not mutate the returned batch.
func (s *ResultStore) Current() *model.Batch {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Clear drops the current batch.
func (s *ResultStore) Clear() {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
}
