package tracking_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"urbaniq/backend/internal/tracking"
)

// TestNewID verifies identifiers are valid UUIDs and unique across a
// run of allocations.
func TestNewID(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := tracking.NewID()

		parsed, err := uuid.Parse(id)
		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, parsed)

		assert.False(t, seen[id], "tracking ids must be unique")
		seen[id] = true
	}
}

func TestParse(t *testing.T) {
	id := tracking.NewID()
	got, err := tracking.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, got)

	_, err = tracking.Parse("42")
	assert.Error(t, err, "internal row ids are not tracking ids")
}

// TestIsUniqueViolation covers the message-text fallback used by
// stores that do not surface pg error codes.
func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, tracking.IsUniqueViolation(
		errors.New(`duplicate key value violates unique constraint "idx_complaints_tracking_id"`)))
	assert.False(t, tracking.IsUniqueViolation(errors.New("connection refused")))
	assert.False(t, tracking.IsUniqueViolation(nil))
}
