package dto

import (
	"time"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// CreateRequestRequest payload.
type CreateRequestRequest struct {
	Title       string              `json:"title" validate:"required,max=200"`
	Description string              `json:"description" validate:"required"`
	Urgency     domain.UrgencyLevel `json:"urgency" validate:"omitempty,oneof=LOW NORMAL HIGH CRITICAL EMERGENCY"`
}

// UpdateRequestRequest payload. Nil fields are left untouched.
type UpdateRequestRequest struct {
	Title       *string              `json:"title" validate:"omitempty,max=200"`
	Description *string              `json:"description"`
	Urgency     *domain.UrgencyLevel `json:"urgency" validate:"omitempty,oneof=LOW NORMAL HIGH CRITICAL EMERGENCY"`
}

// ScheduleRequestRequest payload for booking a worker.
type ScheduleRequestRequest struct {
	WorkerID          string `json:"worker_id" validate:"required"`
	ScheduledDate     string `json:"scheduled_date" validate:"required"`
	Notes             string `json:"notes"`
	EmergencyOverride bool   `json:"emergency_override"`
}

// DeclineRequestRequest payload.
type DeclineRequestRequest struct {
	Reason string `json:"reason" validate:"required"`
}

// CloseRequestRequest payload.
type CloseRequestRequest struct {
	Notes string `json:"notes"`
}

// CompletionReportRequest payload from the assigned worker.
type CompletionReportRequest struct {
	Notes string `json:"notes"`
}

// RequestSummary response.
type RequestSummary struct {
	ID            string               `json:"id"`
	Code          string               `json:"code"`
	PropertyID    string               `json:"property_id"`
	Title         string               `json:"title"`
	Urgency       domain.UrgencyLevel  `json:"urgency"`
	Status        domain.RequestStatus `json:"status"`
	ScheduledDate *time.Time           `json:"scheduled_date,omitempty"`
	SubmittedAt   *time.Time           `json:"submitted_at,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// RequestDetailResponse provides full request info including display fields.
type RequestDetailResponse struct {
	ID                  string               `json:"id"`
	Code                string               `json:"code"`
	TenantID            string               `json:"tenant_id"`
	PropertyID          string               `json:"property_id"`
	Title               string               `json:"title"`
	Description         string               `json:"description"`
	Urgency             domain.UrgencyLevel  `json:"urgency"`
	Status              domain.RequestStatus `json:"status"`
	TenantName          string               `json:"tenant_name"`
	TenantEmail         string               `json:"tenant_email"`
	TenantUnit          string               `json:"tenant_unit"`
	PropertyName        string               `json:"property_name"`
	PropertyPhone       string               `json:"property_phone"`
	SuperintendentName  string               `json:"superintendent_name"`
	SuperintendentEmail string               `json:"superintendent_email"`
	ScheduledDate       *time.Time           `json:"scheduled_date,omitempty"`
	AssignedWorkerID    *string              `json:"assigned_worker_id,omitempty"`
	WorkOrderNo         *string              `json:"work_order_no,omitempty"`
	CompletedDate       *time.Time           `json:"completed_date,omitempty"`
	CompletionSuccess   *bool                `json:"completion_success,omitempty"`
	CompletionNotes     string               `json:"completion_notes,omitempty"`
	ClosureNotes        string               `json:"closure_notes,omitempty"`
	SubmittedAt         *time.Time           `json:"submitted_at,omitempty"`
	CreatedAt           time.Time            `json:"created_at"`
	UpdatedAt           time.Time            `json:"updated_at"`
}

// QueuedRequestResponse annotates a summary with its scheduling priority.
type QueuedRequestResponse struct {
	Request       RequestSummary `json:"request"`
	PriorityScore int            `json:"priority_score"`
	SafetyRelated bool           `json:"safety_related"`
}
