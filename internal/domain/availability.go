package domain

import "time"

const (
	// DefaultDailyCap is the normal number of bookings a worker takes per day.
	DefaultDailyCap = 2
	// EmergencyDailyCap applies when the caller requests the emergency override.
	EmergencyDailyCap = 3
)

// CapacityPolicy carries the per-day booking caps. The zero value falls back
// to the defaults so callers without config still get the documented limits.
type CapacityPolicy struct {
	DailyCap     int
	EmergencyCap int
}

// CapFor returns the cap in effect for the given override mode.
func (p CapacityPolicy) CapFor(emergencyOverride bool) int {
	if emergencyOverride {
		if p.EmergencyCap > 0 {
			return p.EmergencyCap
		}
		return EmergencyDailyCap
	}
	if p.DailyCap > 0 {
		return p.DailyCap
	}
	return DefaultDailyCap
}

// WorkerAvailability is a derived, non-persisted read model over a worker's
// assignments for a date window. Recomputed on every call; switching the
// emergency override can free a slot, so summaries must never be reused
// across override changes.
type WorkerAvailability struct {
	WorkerID             string
	WindowStart          time.Time
	WindowEnd            time.Time
	EmergencyOverride    bool
	BookedDates          []time.Time
	PartiallyBookedDates []time.Time
	Workload             int
	NextAvailableDate    *time.Time

	cap    int
	counts map[time.Time]int
}

// ComputeAvailability builds the availability summary for a worker over
// [windowStart, windowEnd], judging "past" against asOf. Time-of-day on
// assignment dates is discarded.
func ComputeAvailability(w *Worker, windowStart, windowEnd, asOf time.Time, policy CapacityPolicy, emergencyOverride bool) *WorkerAvailability {
	windowStart = truncateToDay(windowStart)
	windowEnd = truncateToDay(windowEnd)

	counts := make(map[time.Time]int)
	for _, a := range w.Assignments {
		if a.Completed {
			continue
		}
		day := truncateToDay(a.ScheduledDate)
		counts[day]++
	}

	summary := &WorkerAvailability{
		WorkerID:          w.ID,
		WindowStart:       windowStart,
		WindowEnd:         windowEnd,
		EmergencyOverride: emergencyOverride,
		Workload:          w.Workload(),
		cap:               policy.CapFor(emergencyOverride),
		counts:            counts,
	}

	start := windowStart
	if asOfDay := truncateToDay(asOf); asOfDay.After(start) {
		start = asOfDay
	}
	for day := start; !day.After(windowEnd); day = day.AddDate(0, 0, 1) {
		n := counts[day]
		switch {
		case n >= summary.cap:
			summary.BookedDates = append(summary.BookedDates, day)
		case n > 0:
			summary.PartiallyBookedDates = append(summary.PartiallyBookedDates, day)
		}
		if summary.NextAvailableDate == nil && n < summary.cap {
			next := day
			summary.NextAvailableDate = &next
		}
	}
	return summary
}

// IsAvailableOnDate reports whether the worker can take a booking on the
// date. With allowPartial false only fully free days qualify; allowPartial
// true admits days below the cap, so the false case is always a subset.
func (s *WorkerAvailability) IsAvailableOnDate(date time.Time, allowPartial bool) bool {
	n := s.counts[truncateToDay(date)]
	if n >= s.cap {
		return false
	}
	return n == 0 || allowPartial
}

// DaysUntilAvailable returns the whole days from the given date to the next
// available date, or -1 when the window has no free slot.
func (s *WorkerAvailability) DaysUntilAvailable(from time.Time) int {
	if s.NextAvailableDate == nil {
		return -1
	}
	days := int(s.NextAvailableDate.Sub(truncateToDay(from)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
