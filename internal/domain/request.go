package domain

import (
	"errors"
	"strings"
	"time"
)

// UrgencyLevel is the ordered urgency category of a request.
type UrgencyLevel string

const (
	UrgencyLow       UrgencyLevel = "LOW"
	UrgencyNormal    UrgencyLevel = "NORMAL"
	UrgencyHigh      UrgencyLevel = "HIGH"
	UrgencyCritical  UrgencyLevel = "CRITICAL"
	UrgencyEmergency UrgencyLevel = "EMERGENCY"
)

var urgencyRanks = map[UrgencyLevel]int{
	UrgencyLow:       1,
	UrgencyNormal:    2,
	UrgencyHigh:      3,
	UrgencyCritical:  4,
	UrgencyEmergency: 5,
}

// Rank returns the 1-based ordering of the urgency tier. Unknown levels rank
// as Normal.
func (u UrgencyLevel) Rank() int {
	if rank, ok := urgencyRanks[u]; ok {
		return rank
	}
	return urgencyRanks[UrgencyNormal]
}

// MaintenanceRequest is the aggregate for tenant-raised maintenance work.
// Transition methods mutate status only after all guards pass; on failure the
// aggregate is left untouched. Each successful transition appends exactly one
// lifecycle event, drained by the persistence caller via DrainEvents.
type MaintenanceRequest struct {
	ID          string
	Code        string // immutable human code, globally unique
	TenantID    string
	PropertyID  string
	Title       string
	Description string
	Urgency     UrgencyLevel
	Status      RequestStatus

	// Display fields captured at creation time for display stability.
	TenantName          string
	TenantEmail         string
	TenantUnit          string
	PropertyName        string
	PropertyPhone       string
	SuperintendentName  string
	SuperintendentEmail string

	ScheduledDate    *time.Time
	AssignedWorkerID *string
	WorkOrderNo      *string

	CompletedDate     *time.Time
	CompletionSuccess *bool
	CompletionNotes   string
	ClosureNotes      string

	SubmittedAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	pendingEvents []LifecycleEvent
}

// IsEmergency reports whether the urgency tier warrants emergency handling.
func (r *MaintenanceRequest) IsEmergency() bool {
	return r.Urgency.Rank() >= urgencyRanks[UrgencyHigh]
}

// Submit moves a draft into the submitted queue.
func (r *MaintenanceRequest) Submit(now time.Time) error {
	if err := r.guard(RequestStatusSubmitted); err != nil {
		return err
	}
	r.Status = RequestStatusSubmitted
	r.SubmittedAt = &now
	r.raise(RequestSubmitted{RequestID: r.ID, Code: r.Code, Urgency: r.Urgency, OccurredAt: now})
	return nil
}

// Schedule books the request onto a worker. Valid from Submitted, and from
// Failed when rescheduling after an unsuccessful visit.
func (r *MaintenanceRequest) Schedule(date time.Time, workerID, workOrderNo string, now time.Time) error {
	if err := r.guard(RequestStatusScheduled); err != nil {
		return err
	}
	if workerID == "" || workOrderNo == "" {
		return errors.New("worker id and work order number required")
	}
	if truncateToDay(date).Before(truncateToDay(now)) {
		return errors.New("scheduled date cannot be in the past")
	}
	r.Status = RequestStatusScheduled
	r.ScheduledDate = &date
	r.AssignedWorkerID = &workerID
	r.WorkOrderNo = &workOrderNo
	r.CompletedDate = nil
	r.CompletionSuccess = nil
	r.raise(RequestScheduled{
		RequestID:     r.ID,
		Code:          r.Code,
		WorkerID:      workerID,
		WorkOrderNo:   workOrderNo,
		ScheduledDate: date,
		Urgency:       r.Urgency,
		OccurredAt:    now,
	})
	return nil
}

// Decline rejects a submitted request with a mandatory reason.
func (r *MaintenanceRequest) Decline(reason string, now time.Time) error {
	if err := r.guard(RequestStatusDeclined); err != nil {
		return err
	}
	if strings.TrimSpace(reason) == "" {
		return errors.New("decline reason required")
	}
	r.Status = RequestStatusDeclined
	r.ClosureNotes = strings.TrimSpace(reason)
	r.raise(RequestDeclined{RequestID: r.ID, Code: r.Code, Reason: reason, OccurredAt: now})
	return nil
}

// ReportCompletion records the outcome of a scheduled visit, landing in Done
// or Failed depending on success.
func (r *MaintenanceRequest) ReportCompletion(success bool, notes string, now time.Time) error {
	target := RequestStatusDone
	if !success {
		target = RequestStatusFailed
	}
	if err := r.guard(target); err != nil {
		return err
	}
	r.Status = target
	r.CompletedDate = &now
	r.CompletionSuccess = &success
	r.CompletionNotes = strings.TrimSpace(notes)
	r.raise(RequestCompleted{RequestID: r.ID, Code: r.Code, Success: success, Notes: notes, OccurredAt: now})
	return nil
}

// Close finalizes a done or declined request. Closed is terminal.
func (r *MaintenanceRequest) Close(notes string, now time.Time) error {
	if err := r.guard(RequestStatusClosed); err != nil {
		return err
	}
	r.Status = RequestStatusClosed
	if trimmed := strings.TrimSpace(notes); trimmed != "" {
		r.ClosureNotes = trimmed
	}
	r.raise(RequestClosed{RequestID: r.ID, Code: r.Code, Notes: notes, OccurredAt: now})
	return nil
}

func (r *MaintenanceRequest) guard(target RequestStatus) error {
	if !CanTransition(r.Status, target) {
		return &InvalidTransitionError{From: r.Status, To: target}
	}
	return nil
}

func (r *MaintenanceRequest) raise(event LifecycleEvent) {
	r.pendingEvents = append(r.pendingEvents, event)
}

// PendingEvents returns the uncommitted lifecycle events without clearing them.
func (r *MaintenanceRequest) PendingEvents() []LifecycleEvent {
	return append([]LifecycleEvent(nil), r.pendingEvents...)
}

// DrainEvents returns the uncommitted lifecycle events and clears the list.
// The persistence caller drains after a successful save so that "did X
// persist" and "did X notify" remain separately retryable.
func (r *MaintenanceRequest) DrainEvents() []LifecycleEvent {
	drained := r.pendingEvents
	r.pendingEvents = nil
	return drained
}

// truncateToDay maps a timestamp to its calendar day as a UTC midnight.
// Values on the same wall-clock date collapse to the same key regardless of
// zone, and day arithmetic on the keys is exact across DST transitions.
func truncateToDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
