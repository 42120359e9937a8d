package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"
)

// Store is the concurrent job table. The outer map is guarded by an
// RWMutex; each record carries its own lock so that updates to one job
// never contend with reads or updates of another. Get and List hand out
// copies, never aliases into the table.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*storeEntry
}

type storeEntry struct {
	mu  sync.Mutex
	job Job
}

func NewStore() *Store {
	return &Store{
		entries: make(map[string]*storeEntry),
	}
}

// Insert adds a new record. Identities are never reused, so a duplicate
// insert is a caller bug and is rejected.
func (s *Store) Insert(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[job.ID]; exists {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	s.entries[job.ID] = &storeEntry{job: job}
	return nil
}

// Get returns a copy of the record.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Job{}, false
	}

	entry.mu.Lock()
	job := entry.job
	entry.mu.Unlock()
	return job, true
}

// Update applies mutate to the record under its own lock and returns a
// copy of the result. It never creates a record: an unknown identity is
// ErrNotFound, creation belongs to the Manager alone.
func (s *Store) Update(id string, mutate func(*Job)) (Job, error) {
	s.mu.RLock()
	entry, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return Job{}, fmt.Errorf("update %s: %w", id, ErrNotFound)
	}

	entry.mu.Lock()
	mutate(&entry.job)
	entry.job.UpdatedAt = time.Now()
	job := entry.job
	entry.mu.Unlock()
	return job, nil
}

// List returns copies of all records ordered by creation time.
func (s *Store) List() []Job {
	s.mu.RLock()
	entries := make([]*storeEntry, 0, len(s.entries))
	for _, entry := range s.entries {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	ret := make([]Job, 0, len(entries))
	for _, entry := range entries {
		entry.mu.Lock()
		ret = append(ret, entry.job)
		entry.mu.Unlock()
	}
	sort.Slice(ret, func(i, j int) bool {
		return ret[i].CreatedAt.Before(ret[j].CreatedAt)
	})
	return ret
}

// Delete removes a record. Removing an unknown identity is a no-op.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}
