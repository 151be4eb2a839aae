package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(base time.Time, offset int) time.Time {
	d := base.AddDate(0, 0, offset)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func TestComputeAvailabilityBuckets(t *testing.T) {
	now := time.Now()
	w := newActiveWorker()
	policy := CapacityPolicy{}

	// Day 1 fully booked, day 2 partially booked, day 3 free.
	require.NoError(t, w.AssignWork("WO-1", "req-1", day(now, 1), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-2", "req-2", day(now, 1), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-3", "req-3", day(now, 2), "", policy, false, now))

	summary := ComputeAvailability(w, now, now.AddDate(0, 0, 7), now, policy, false)

	assert.Equal(t, []time.Time{day(now, 1)}, summary.BookedDates)
	assert.Equal(t, []time.Time{day(now, 2)}, summary.PartiallyBookedDates)
	assert.Equal(t, 3, summary.Workload)
	require.NotNil(t, summary.NextAvailableDate)
	assert.Equal(t, day(now, 0), *summary.NextAvailableDate)
}

func TestIsAvailableOnDatePartialSubset(t *testing.T) {
	now := time.Now()
	w := newActiveWorker()
	policy := CapacityPolicy{}
	require.NoError(t, w.AssignWork("WO-1", "req-1", day(now, 1), "", policy, false, now))

	summary := ComputeAvailability(w, now, now.AddDate(0, 0, 7), now, policy, false)

	// Every strictly-available day is also available when partials count.
	for offset := 0; offset <= 7; offset++ {
		d := day(now, offset)
		if summary.IsAvailableOnDate(d, false) {
			assert.True(t, summary.IsAvailableOnDate(d, true), "strict availability must imply partial availability on %s", d)
		}
	}
	assert.False(t, summary.IsAvailableOnDate(day(now, 1), false))
	assert.True(t, summary.IsAvailableOnDate(day(now, 1), true))
}

func TestAvailabilityEmergencyOverrideFreesSlot(t *testing.T) {
	now := time.Now()
	w := newActiveWorker()
	policy := CapacityPolicy{}
	require.NoError(t, w.AssignWork("WO-1", "req-1", day(now, 1), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-2", "req-2", day(now, 1), "", policy, false, now))

	normal := ComputeAvailability(w, now, now.AddDate(0, 0, 7), now, policy, false)
	override := ComputeAvailability(w, now, now.AddDate(0, 0, 7), now, policy, true)

	assert.False(t, normal.IsAvailableOnDate(day(now, 1), true))
	assert.True(t, override.IsAvailableOnDate(day(now, 1), true))
	assert.Contains(t, normal.BookedDates, day(now, 1))
	assert.Contains(t, override.PartiallyBookedDates, day(now, 1))
}

func TestDaysUntilAvailable(t *testing.T) {
	now := time.Now()
	w := newActiveWorker()
	policy := CapacityPolicy{}
	// Book out days 0 and 1 completely.
	require.NoError(t, w.AssignWork("WO-1", "req-1", day(now, 0), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-2", "req-2", day(now, 0), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-3", "req-3", day(now, 1), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-4", "req-4", day(now, 1), "", policy, false, now))

	summary := ComputeAvailability(w, now, now.AddDate(0, 0, 7), now, policy, false)
	assert.Equal(t, 2, summary.DaysUntilAvailable(now))
}

func TestDaysUntilAvailableNoSlot(t *testing.T) {
	now := time.Now()
	w := newActiveWorker()
	policy := CapacityPolicy{DailyCap: 1}
	require.NoError(t, w.AssignWork("WO-1", "req-1", day(now, 0), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-2", "req-2", day(now, 1), "", policy, false, now))

	summary := ComputeAvailability(w, now, now.AddDate(0, 0, 1), now, policy, false)
	assert.Nil(t, summary.NextAvailableDate)
	assert.Equal(t, -1, summary.DaysUntilAvailable(now))
}

func TestComputeAvailabilityCollapsesZones(t *testing.T) {
	now := time.Now()
	w := newActiveWorker()
	policy := CapacityPolicy{}

	// Two bookings on the same calendar day, carried in different zones.
	zoned := time.FixedZone("UTC+5", 5*60*60)
	d := now.AddDate(0, 0, 1)
	require.NoError(t, w.AssignWork("WO-1", "req-1",
		time.Date(d.Year(), d.Month(), d.Day(), 9, 0, 0, 0, zoned), "", policy, false, now))
	require.NoError(t, w.AssignWork("WO-2", "req-2",
		time.Date(d.Year(), d.Month(), d.Day(), 20, 0, 0, 0, time.UTC), "", policy, false, now))

	summary := ComputeAvailability(w, now, now.AddDate(0, 0, 7), now, policy, false)
	assert.Equal(t, []time.Time{day(now, 1)}, summary.BookedDates)
	assert.Empty(t, summary.PartiallyBookedDates)
}

func TestDaysUntilAvailableAcrossDSTTransition(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	w := newActiveWorker()
	policy := CapacityPolicy{DailyCap: 1}

	// DST starts March 8, 2026; the first free day sits past the short day.
	start := time.Date(2026, 3, 7, 8, 0, 0, 0, loc)
	require.NoError(t, w.AssignWork("WO-1", "req-1", start, "", policy, false, start))
	require.NoError(t, w.AssignWork("WO-2", "req-2", start.AddDate(0, 0, 1), "", policy, false, start))

	summary := ComputeAvailability(w, start, start.AddDate(0, 0, 7), start, policy, false)
	assert.Equal(t, 2, summary.DaysUntilAvailable(start))
}

func TestAvailabilityWindowStartsAtAsOf(t *testing.T) {
	now := time.Now()
	w := newActiveWorker()
	policy := CapacityPolicy{}
	// Booking in the past relative to asOf is outside the reported window.
	require.NoError(t, w.AssignWork("WO-1", "req-1", day(now, -3), "", policy, false, now.AddDate(0, 0, -4)))
	require.NoError(t, w.AssignWork("WO-2", "req-2", day(now, -3), "", policy, false, now.AddDate(0, 0, -4)))

	summary := ComputeAvailability(w, now.AddDate(0, 0, -5), now.AddDate(0, 0, 5), now, policy, false)
	assert.NotContains(t, summary.BookedDates, day(now, -3))
	require.NotNil(t, summary.NextAvailableDate)
	assert.Equal(t, day(now, 0), *summary.NextAvailableDate)
}
