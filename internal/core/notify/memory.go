package notify

import (
	"context"
	"sync"
)

// DefaultCapacity bounds MemoryStore when no capacity is given.
const DefaultCapacity = 100

var _ Store = (*MemoryStore)(nil)

// MemoryStore is a bounded in-memory Store. Nothing outlives the process.
type MemoryStore struct {
	mu       sync.Mutex
	items    []Notification // oldest first
	capacity int
	nextID   int64
}

// NewMemoryStore creates a store keeping the newest capacity notifications.
func NewMemoryStore(capacity int) *MemoryStore {
	if capacity < 1 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{capacity: capacity}
}

// Save stores n and returns its ID. The oldest entry is dropped past capacity.
func (s *MemoryStore) Save(_ context.Context, n Notification) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	n.ID = s.nextID
	s.items = append(s.items, n)
	if len(s.items) > s.capacity {
		s.items = s.items[len(s.items)-s.capacity:]
	}
	return n.ID, nil
}

// List returns the stored notifications, newest first.
func (s *MemoryStore) List(_ context.Context) ([]Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Notification, len(s.items))
	for i, n := range s.items {
		out[len(s.items)-1-i] = n
	}
	return out, nil
}

// Clear removes every notification. IDs keep increasing.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return nil
}

// Len returns the number of stored notifications.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.items)
}
