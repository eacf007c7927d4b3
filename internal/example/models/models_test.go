package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "baseapi/pkg/domain-errors"
)

func TestNewCandidate(t *testing.T) {
	t.Run("valid candidate has no id, tax id or timestamps", func(t *testing.T) {
		e, err := NewCandidate("Juan", "Perez", "12345678", GenderMale)
		require.NoError(t, err)
		assert.False(t, e.IsPersisted())
		assert.Empty(t, e.TaxID)
		assert.True(t, e.CreatedAt.IsZero())
	})

	t.Run("rejects unknown gender", func(t *testing.T) {
		_, err := NewCandidate("Juan", "Perez", "12345678", "X")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("rejects missing national id", func(t *testing.T) {
		_, err := NewCandidate("Juan", "Perez", "", GenderFemale)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})
}

func TestStampSetsEqualTimestamps(t *testing.T) {
	e := &Example{}
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	e.Stamp(now)
	assert.Equal(t, now, e.CreatedAt)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
}

func TestGenderIsMale(t *testing.T) {
	assert.True(t, Gender("H").IsMale())
	assert.True(t, Gender("h").IsMale())
	assert.False(t, GenderFemale.IsMale())
}
