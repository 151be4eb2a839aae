package dto

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// CreateWorkerRequest payload for roster registration.
type CreateWorkerRequest struct {
	Name           string                `json:"name" validate:"required"`
	Email          string                `json:"email" validate:"required,email"`
	Phone          string                `json:"phone"`
	Specialization domain.Specialization `json:"specialization"`
	Notes          string                `json:"notes"`
}

// UpdateWorkerRequest payload. Nil fields are left untouched.
type UpdateWorkerRequest struct {
	Name           *string                `json:"name"`
	Email          *string                `json:"email" validate:"omitempty,email"`
	Phone          *string                `json:"phone"`
	Specialization *domain.Specialization `json:"specialization"`
	Notes          *string                `json:"notes"`
	Active         *bool                  `json:"active"`
}

// WorkerResponse roster entry.
type WorkerResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Email          string                `json:"email"`
	Phone          string                `json:"phone,omitempty"`
	Active         bool                  `json:"active"`
	Specialization domain.Specialization `json:"specialization"`
	Notes          string                `json:"notes,omitempty"`
	Workload       int                   `json:"workload"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// AssignmentResponse is one booking on a worker's books.
type AssignmentResponse struct {
	WorkOrderNo       string    `json:"work_order_no"`
	RequestID         string    `json:"request_id"`
	ScheduledDate     time.Time `json:"scheduled_date"`
	AssignedAt        time.Time `json:"assigned_at"`
	Notes             string    `json:"notes,omitempty"`
	Completed         bool      `json:"completed"`
	CompletionSuccess *bool     `json:"completion_success,omitempty"`
	CompletionNotes   string    `json:"completion_notes,omitempty"`
}

// AvailabilityResponse is the booking summary for a date window.
type AvailabilityResponse struct {
	WorkerID             string      `json:"worker_id"`
	WindowStart          time.Time   `json:"window_start"`
	WindowEnd            time.Time   `json:"window_end"`
	EmergencyOverride    bool        `json:"emergency_override"`
	Workload             int         `json:"workload"`
	BookedDates          []time.Time `json:"booked_dates"`
	PartiallyBookedDates []time.Time `json:"partially_booked_dates"`
	NextAvailableDate    *time.Time  `json:"next_available_date,omitempty"`
}
