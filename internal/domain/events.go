package domain

import "time"

// LifecycleEvent is a domain event raised by a successful request transition.
// Aggregates accumulate events; the persistence caller drains and publishes.
type LifecycleEvent interface {
	EventName() string
}

// RequestSubmitted is raised on Draft -> Submitted.
type RequestSubmitted struct {
	RequestID  string
	Code       string
	Urgency    UrgencyLevel
	OccurredAt time.Time
}

func (RequestSubmitted) EventName() string { return "request_submitted" }

// RequestScheduled is raised on Submitted -> Scheduled and Failed -> Scheduled.
type RequestScheduled struct {
	RequestID     string
	Code          string
	WorkerID      string
	WorkOrderNo   string
	ScheduledDate time.Time
	Urgency       UrgencyLevel
	OccurredAt    time.Time
}

func (RequestScheduled) EventName() string { return "request_scheduled" }

// RequestCompleted is raised on Scheduled -> Done and Scheduled -> Failed.
type RequestCompleted struct {
	RequestID  string
	Code       string
	Success    bool
	Notes      string
	OccurredAt time.Time
}

func (RequestCompleted) EventName() string { return "request_completed" }

// RequestDeclined is raised on Submitted -> Declined.
type RequestDeclined struct {
	RequestID  string
	Code       string
	Reason     string
	OccurredAt time.Time
}

func (RequestDeclined) EventName() string { return "request_declined" }

// RequestClosed is raised on Done -> Closed and Declined -> Closed.
type RequestClosed struct {
	RequestID  string
	Code       string
	Notes      string
	OccurredAt time.Time
}

func (RequestClosed) EventName() string { return "request_closed" }
