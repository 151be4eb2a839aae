package domain

import (
	"strings"
	"time"
)

const (
	urgencyScoreWeight = 10
	safetyBoost        = 50
	ageBoostThreshold  = 2 * 24 * time.Hour
	ageBoostCap        = 20
)

// hazardKeywords mark a request as safety-related regardless of its labeled
// urgency.
var hazardKeywords = []string{
	"gas leak",
	"fire",
	"flood",
	"electrical hazard",
	"carbon monoxide",
	"sparking",
	"structural",
	"smoke",
	"exposed wire",
}

// IsSafetyRelated reports whether the request text matches the hazard set.
// Misses are a heuristic limitation, not an error; they degrade ranking only.
func IsSafetyRelated(r *MaintenanceRequest) bool {
	text := strings.ToLower(r.Title + " " + r.Description)
	for _, keyword := range hazardKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// CalculatePriorityScore computes the queue-ranking score for a request.
// Strictly positive, monotonically non-decreasing in urgency tier. Safety
// hazards score at the Emergency tier even when labeled lower.
func CalculatePriorityScore(r *MaintenanceRequest, now time.Time) int {
	rank := r.Urgency.Rank()
	safety := IsSafetyRelated(r)
	if safety && rank < UrgencyEmergency.Rank() {
		rank = UrgencyEmergency.Rank()
	}

	score := rank * urgencyScoreWeight
	if safety {
		score += safetyBoost
	}
	score += submittedAgeBoost(r, now)
	return score
}

// submittedAgeBoost adds one point per day the request has sat in Submitted
// past the threshold, capped so stale low-urgency work cannot outrank hazards.
func submittedAgeBoost(r *MaintenanceRequest, now time.Time) int {
	if r.Status != RequestStatusSubmitted || r.SubmittedAt == nil {
		return 0
	}
	waited := now.Sub(*r.SubmittedAt)
	if waited <= ageBoostThreshold {
		return 0
	}
	days := int((waited - ageBoostThreshold) / (24 * time.Hour))
	if days > ageBoostCap {
		return ageBoostCap
	}
	return days
}
