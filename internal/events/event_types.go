package events

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventRequestSubmitted EventType = "request_submitted"
	EventRequestScheduled EventType = "request_scheduled"
	EventRequestCompleted EventType = "request_completed"
	EventRequestDeclined  EventType = "request_declined"
	EventRequestClosed    EventType = "request_closed"
	EventRequestCancelled EventType = "request_cancelled"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type     domain.SubjectType `json:"type"`
	TenantID *string            `json:"tenant_id,omitempty"`
	StaffID  *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	RequestID string      `json:"request_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// RequestSubmittedPayload payload.
type RequestSubmittedPayload struct {
	Code        string              `json:"code"`
	Urgency     domain.UrgencyLevel `json:"urgency"`
	TenantEmail string              `json:"tenant_email,omitempty"`
}

// RequestScheduledPayload payload. Carries what the notification collaborator
// needs: date, worker contact, urgency.
type RequestScheduledPayload struct {
	Code          string              `json:"code"`
	WorkerID      string              `json:"worker_id"`
	WorkerEmail   string              `json:"worker_email,omitempty"`
	WorkOrderNo   string              `json:"work_order_no"`
	ScheduledDate time.Time           `json:"scheduled_date"`
	Urgency       domain.UrgencyLevel `json:"urgency"`
}

// RequestCompletedPayload payload.
type RequestCompletedPayload struct {
	Code    string `json:"code"`
	Success bool   `json:"success"`
	Notes   string `json:"notes,omitempty"`
}

// RequestDeclinedPayload payload.
type RequestDeclinedPayload struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

// RequestClosedPayload payload.
type RequestClosedPayload struct {
	Code  string `json:"code"`
	Notes string `json:"notes,omitempty"`
}

// RequestCancelledPayload payload.
type RequestCancelledPayload struct {
	Code string `json:"code"`
}
