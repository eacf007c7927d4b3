package store

import (
	"context"
	"sync"

	"baseapi/internal/examplestatus/models"
	"baseapi/pkg/platform/sentinel"
)

// InMemory keeps statuses in insertion order.
type InMemory struct {
	mu    sync.RWMutex
	byID  map[string]*models.ExampleStatus
	order []string
}

func NewInMemory() *InMemory {
	return &InMemory{byID: make(map[string]*models.ExampleStatus)}
}

// Save inserts or replaces by ID. Replacing keeps the original position.
func (s *InMemory) Save(_ context.Context, status *models.ExampleStatus) (*models.ExampleStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.byID[status.ID]; !exists {
		s.order = append(s.order, status.ID)
	}
	s.byID[status.ID] = status.Clone()
	return status.Clone(), nil
}

func (s *InMemory) FindByID(_ context.Context, id string) (*models.ExampleStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.byID[id]; ok {
		return st.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *InMemory) FindAll(_ context.Context) ([]*models.ExampleStatus, error) {
	return s.collect(func(*models.ExampleStatus) bool { return true }), nil
}

func (s *InMemory) FindAllActive(_ context.Context) ([]*models.ExampleStatus, error) {
	return s.collect(func(st *models.ExampleStatus) bool { return st.Active }), nil
}

func (s *InMemory) collect(keep func(*models.ExampleStatus) bool) []*models.ExampleStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.ExampleStatus, 0, len(s.order))
	for _, id := range s.order {
		if st := s.byID[id]; keep(st) {
			out = append(out, st.Clone())
		}
	}
	return out
}
