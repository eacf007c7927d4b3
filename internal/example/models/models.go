package models

import (
	"strings"
	"time"

	dErrors "baseapi/pkg/domain-errors"
)

// Gender codes accepted on the wire.
type Gender string

const (
	GenderMale   Gender = "H"
	GenderFemale Gender = "M"
)

// IsValid reports whether g is one of the known codes.
func (g Gender) IsValid() bool {
	return g == GenderMale || g == GenderFemale
}

// IsMale matches the male code case-insensitively.
func (g Gender) IsMale() bool {
	return strings.EqualFold(string(g), string(GenderMale))
}

func (g Gender) String() string {
	return string(g)
}

// Example is a person-like record keyed by national ID.
// ID is assigned by the store on first persist.
type Example struct {
	ID         int64
	FirstName  string
	LastName   string
	NationalID string
	Gender     Gender
	TaxID      string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewCandidate builds an unpersisted Example. Tax ID and timestamps are
// filled in by the creation workflow.
func NewCandidate(firstName, lastName, nationalID string, gender Gender) (*Example, error) {
	if nationalID == "" {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "national ID is required")
	}
	if !gender.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "gender must be H or M")
	}
	return &Example{
		FirstName:  firstName,
		LastName:   lastName,
		NationalID: nationalID,
		Gender:     gender,
	}, nil
}

// Stamp sets both timestamps to now, as done once at creation.
func (e *Example) Stamp(now time.Time) {
	e.CreatedAt = now
	e.UpdatedAt = now
}

// IsPersisted reports whether the store has assigned an ID.
func (e *Example) IsPersisted() bool {
	return e.ID != 0
}

// Clone returns a shallow copy; Example holds no reference fields.
func (e *Example) Clone() *Example {
	c := *e
	return &c
}
