package caseid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllocate(t *testing.T) {
	day := time.Date(2030, 1, 1, 15, 30, 0, 0, time.UTC)

	assert.Equal(t, "1-01012030", Allocate(day, 0))
	assert.Equal(t, "6-01012030", Allocate(day, 5))
}

func TestAllocateDayScoped(t *testing.T) {
	first := time.Date(2026, 8, 15, 23, 59, 0, 0, time.UTC)
	next := time.Date(2026, 8, 16, 0, 1, 0, 0, time.UTC)

	// The sequence restarts every calendar day.
	assert.Equal(t, "4-15082026", Allocate(first, 3))
	assert.Equal(t, "1-16082026", Allocate(next, 0))
}
