package ingest

import (
	"sync"
	"time"

	"github.com/fentz26/pagent/internal/models"
)

// Store is an ordered, append-only collection of ingested tasks. It
// never deduplicates and never mutates existing entries; the only way to
// remove entries is an explicit Clear.
type Store struct {
	mu    sync.RWMutex
	tasks []models.IngestedTask
}

// NewStore creates an empty task store.
func NewStore() *Store {
	return &Store{}
}

// Ingest appends a task with its provenance metadata.
func (s *Store) Ingest(task models.Task, rawSource string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, models.IngestedTask{
		Task:       task,
		RawSource:  rawSource,
		ReceivedAt: time.Now().UTC(),
	})
}

// List returns a snapshot copy in ingestion order. Callers mutating the
// returned slice do not affect internal state.
func (s *Store) List() []models.IngestedTask {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]models.IngestedTask(nil), s.tasks...)
}

// Clear empties the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = nil
}

// Count returns the number of ingested tasks.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}
