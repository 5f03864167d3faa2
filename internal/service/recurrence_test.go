package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextOccurrenceDaily(t *testing.T) {
	var svc RecurrenceService
	now := time.Date(2026, 8, 29, 15, 30, 0, 0, time.UTC)
	anchor := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	next, ok := svc.NextOccurrence("FREQ=DAILY", anchor, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC), next)
	assert.True(t, next.After(now))
}

func TestNextOccurrenceWeekly(t *testing.T) {
	var svc RecurrenceService
	anchor := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC) // Monday
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)   // Saturday

	next, ok := svc.NextOccurrence("FREQ=WEEKLY", anchor, now)
	require.True(t, ok)
	assert.Equal(t, time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC), next)
}

func TestNextOccurrenceExhaustedRule(t *testing.T) {
	var svc RecurrenceService
	anchor := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

	// A single-occurrence rule anchored in the past has nothing left.
	_, ok := svc.NextOccurrence("FREQ=DAILY;COUNT=1", anchor, now)
	assert.False(t, ok)
}

func TestNextOccurrenceInvalidRuleDegrades(t *testing.T) {
	var svc RecurrenceService
	now := time.Now()

	_, ok := svc.NextOccurrence("FREQ=SOMETIMES", now, now)
	assert.False(t, ok)

	_, ok = svc.NextOccurrence("", now, now)
	assert.False(t, ok)

	_, ok = svc.NextOccurrence("   ", now, now)
	assert.False(t, ok)
}
