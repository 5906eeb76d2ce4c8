package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalScheduleNext(t *testing.T) {
	s := NewIntervalSchedule(5 * time.Minute)

	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	next := s.Next(now)

	assert.Equal(t, now.Add(5*time.Minute), next)
	// Next is pure: the same input always yields the same output.
	assert.Equal(t, next, s.Next(now))
}

func TestIntervalScheduleString(t *testing.T) {
	assert.Equal(t, "@every 5m0s", NewIntervalSchedule(5*time.Minute).String())
	assert.Equal(t, "@every 1h30m0s", NewIntervalSchedule(90*time.Minute).String())
}
