package models

import "time"

// ExampleStatus is a read-mostly catalog entry. It is JSON encoded as is when
// cached.
type ExampleStatus struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	Active      bool      `json:"active"`
}

// Clone returns a copy safe to hand out of a store.
func (s *ExampleStatus) Clone() *ExampleStatus {
	c := *s
	return &c
}
