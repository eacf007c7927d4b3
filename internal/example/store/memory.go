package store

import (
	"context"
	"sync"

	"baseapi/internal/example/models"
	"baseapi/pkg/platform/sentinel"
)

// InMemory keeps examples in maps guarded by a mutex. The national ID check
// and the insert happen under one lock, so it is the final word on uniqueness.
type InMemory struct {
	mu           sync.RWMutex
	byID         map[int64]*models.Example
	byNationalID map[string]int64
	order        []int64
	nextID       int64
}

func NewInMemory() *InMemory {
	return &InMemory{
		byID:         make(map[int64]*models.Example),
		byNationalID: make(map[string]int64),
	}
}

// Save inserts e and returns the stored copy with its assigned ID.
func (s *InMemory) Save(_ context.Context, e *models.Example) (*models.Example, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byNationalID[e.NationalID]; taken {
		return nil, sentinel.ErrAlreadyUsed
	}
	s.nextID++
	stored := e.Clone()
	stored.ID = s.nextID
	s.byID[stored.ID] = stored
	s.byNationalID[stored.NationalID] = stored.ID
	s.order = append(s.order, stored.ID)
	return stored.Clone(), nil
}

func (s *InMemory) FindByID(_ context.Context, id int64) (*models.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.byID[id]; ok {
		return e.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindByNationalID(_ context.Context, nationalID string) (*models.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if id, ok := s.byNationalID[nationalID]; ok {
		return s.byID[id].Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

// FindAll returns examples in insertion order.
func (s *InMemory) FindAll(_ context.Context) ([]*models.Example, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Example, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id].Clone())
	}
	return out, nil
}

func (s *InMemory) ExistsByNationalID(_ context.Context, nationalID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byNationalID[nationalID]
	return ok, nil
}

func (s *InMemory) Health(context.Context) error { return nil }
