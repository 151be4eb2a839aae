package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDraftRequest() *MaintenanceRequest {
	return &MaintenanceRequest{
		ID:          "req-1",
		Code:        "MR-TEST0001",
		TenantID:    "tenant-1",
		PropertyID:  "prop-1",
		Title:       "Kitchen faucet leaking",
		Description: "steady drip under the sink",
		Urgency:     UrgencyNormal,
		Status:      RequestStatusDraft,
	}
}

func TestRequestLifecycleHappyPath(t *testing.T) {
	now := time.Now()
	r := newDraftRequest()

	require.NoError(t, r.Submit(now))
	assert.Equal(t, RequestStatusSubmitted, r.Status)
	require.NotNil(t, r.SubmittedAt)

	date := now.AddDate(0, 0, 2)
	require.NoError(t, r.Schedule(date, "worker-1", "WO-0001", now))
	assert.Equal(t, RequestStatusScheduled, r.Status)
	require.NotNil(t, r.AssignedWorkerID)
	assert.Equal(t, "worker-1", *r.AssignedWorkerID)
	require.NotNil(t, r.WorkOrderNo)
	assert.Equal(t, "WO-0001", *r.WorkOrderNo)

	require.NoError(t, r.ReportCompletion(true, "replaced washer", now))
	assert.Equal(t, RequestStatusDone, r.Status)
	require.NotNil(t, r.CompletionSuccess)
	assert.True(t, *r.CompletionSuccess)

	require.NoError(t, r.Close("tenant confirmed fix", now))
	assert.Equal(t, RequestStatusClosed, r.Status)
	assert.Equal(t, "tenant confirmed fix", r.ClosureNotes)

	events := r.DrainEvents()
	require.Len(t, events, 4)
	assert.Equal(t, "request_submitted", events[0].EventName())
	assert.Equal(t, "request_scheduled", events[1].EventName())
	assert.Equal(t, "request_completed", events[2].EventName())
	assert.Equal(t, "request_closed", events[3].EventName())
	assert.Empty(t, r.DrainEvents())
}

func TestRequestFailureAndReschedule(t *testing.T) {
	now := time.Now()
	r := newDraftRequest()
	require.NoError(t, r.Submit(now))
	require.NoError(t, r.Schedule(now.AddDate(0, 0, 1), "worker-1", "WO-0001", now))

	require.NoError(t, r.ReportCompletion(false, "needs a replacement part", now))
	assert.Equal(t, RequestStatusFailed, r.Status)
	require.NotNil(t, r.CompletionSuccess)
	assert.False(t, *r.CompletionSuccess)

	// Failed requests go back to Scheduled; completion fields reset.
	require.NoError(t, r.Schedule(now.AddDate(0, 0, 3), "worker-2", "WO-0002", now))
	assert.Equal(t, RequestStatusScheduled, r.Status)
	assert.Nil(t, r.CompletedDate)
	assert.Nil(t, r.CompletionSuccess)
	assert.Equal(t, "worker-2", *r.AssignedWorkerID)
}

func TestRequestDecline(t *testing.T) {
	now := time.Now()
	r := newDraftRequest()
	require.NoError(t, r.Submit(now))

	assert.Error(t, r.Decline("   ", now), "reason is mandatory")
	require.NoError(t, r.Decline("not a landlord responsibility", now))
	assert.Equal(t, RequestStatusDeclined, r.Status)

	require.NoError(t, r.Close("", now))
	assert.Equal(t, RequestStatusClosed, r.Status)
	assert.Equal(t, "not a landlord responsibility", r.ClosureNotes, "decline reason survives close without notes")
}

func TestRequestGuardsRejectInvalidTransitions(t *testing.T) {
	now := time.Now()
	r := newDraftRequest()

	err := r.Schedule(now, "worker-1", "WO-0001", now)
	var invalid *InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, RequestStatusDraft, invalid.From)
	assert.Equal(t, RequestStatusScheduled, invalid.To)
	assert.Equal(t, RequestStatusDraft, r.Status, "failed guard leaves the aggregate untouched")
	assert.Empty(t, r.PendingEvents())

	require.NoError(t, r.Submit(now))
	assert.Error(t, r.Close("", now))
	assert.Error(t, r.ReportCompletion(true, "", now))
}

func TestRequestScheduleValidation(t *testing.T) {
	now := time.Now()
	r := newDraftRequest()
	require.NoError(t, r.Submit(now))

	assert.Error(t, r.Schedule(now, "", "WO-0001", now))
	assert.Error(t, r.Schedule(now, "worker-1", "", now))
	assert.Error(t, r.Schedule(now.AddDate(0, 0, -1), "worker-1", "WO-0001", now))

	// Same-day scheduling is allowed.
	assert.NoError(t, r.Schedule(now, "worker-1", "WO-0001", now))
}

func TestIsEmergency(t *testing.T) {
	for urgency, want := range map[UrgencyLevel]bool{
		UrgencyLow:       false,
		UrgencyNormal:    false,
		UrgencyHigh:      true,
		UrgencyCritical:  true,
		UrgencyEmergency: true,
	} {
		r := &MaintenanceRequest{Urgency: urgency}
		assert.Equal(t, want, r.IsEmergency(), "urgency %s", urgency)
	}
}
