package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPriorityScorePositiveAndMonotonic(t *testing.T) {
	now := time.Now()
	previous := 0
	for _, urgency := range []UrgencyLevel{UrgencyLow, UrgencyNormal, UrgencyHigh, UrgencyCritical, UrgencyEmergency} {
		r := &MaintenanceRequest{
			Title:       "Squeaky hinge",
			Description: "bedroom door",
			Urgency:     urgency,
			Status:      RequestStatusDraft,
		}
		score := CalculatePriorityScore(r, now)
		assert.Greater(t, score, 0, "urgency %s", urgency)
		assert.GreaterOrEqual(t, score, previous, "urgency %s must not score below the tier beneath it", urgency)
		previous = score
	}
}

func TestPriorityScoreSafetyBoost(t *testing.T) {
	now := time.Now()
	hazard := &MaintenanceRequest{
		Title:       "Gas leak in kitchen",
		Description: "strong smell near the stove",
		Urgency:     UrgencyLow,
		Status:      RequestStatusDraft,
	}
	assert.True(t, IsSafetyRelated(hazard))

	emergencyBase := CalculatePriorityScore(&MaintenanceRequest{
		Title:   "Elevator stuck",
		Urgency: UrgencyEmergency,
		Status:  RequestStatusDraft,
	}, now)

	// A low-labeled hazard scores at the emergency tier plus the safety boost.
	score := CalculatePriorityScore(hazard, now)
	assert.Equal(t, emergencyBase+safetyBoost, score)
	assert.GreaterOrEqual(t, score, emergencyBase)
}

func TestPriorityScoreAgeBoost(t *testing.T) {
	now := time.Now()
	submitted := func(ago time.Duration) *MaintenanceRequest {
		at := now.Add(-ago)
		return &MaintenanceRequest{
			Title:       "Dripping tap",
			Urgency:     UrgencyNormal,
			Status:      RequestStatusSubmitted,
			SubmittedAt: &at,
		}
	}

	fresh := CalculatePriorityScore(submitted(24*time.Hour), now)
	atThreshold := CalculatePriorityScore(submitted(2*24*time.Hour), now)
	aged := CalculatePriorityScore(submitted(5*24*time.Hour), now)
	ancient := CalculatePriorityScore(submitted(400*24*time.Hour), now)

	assert.Equal(t, fresh, atThreshold, "boost starts only past the threshold")
	assert.Equal(t, fresh+3, aged)
	assert.Equal(t, fresh+ageBoostCap, ancient, "age boost is capped")
}

func TestPriorityScoreNoAgeBoostOutsideSubmitted(t *testing.T) {
	now := time.Now()
	at := now.Add(-10 * 24 * time.Hour)
	draft := &MaintenanceRequest{
		Title:       "Dripping tap",
		Urgency:     UrgencyNormal,
		Status:      RequestStatusDraft,
		SubmittedAt: &at,
	}
	scheduled := &MaintenanceRequest{
		Title:       "Dripping tap",
		Urgency:     UrgencyNormal,
		Status:      RequestStatusScheduled,
		SubmittedAt: &at,
	}
	base := UrgencyNormal.Rank() * urgencyScoreWeight
	assert.Equal(t, base, CalculatePriorityScore(draft, now))
	assert.Equal(t, base, CalculatePriorityScore(scheduled, now))
}
