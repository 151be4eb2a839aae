package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

// StaffRequestsHandler manages the staff-facing scheduling endpoints.
type StaffRequestsHandler struct {
	requests   *service.RequestService
	allocation *service.AllocationService
}

// NewStaffRequestsHandler constructs handler.
func NewStaffRequestsHandler(requestService *service.RequestService, allocationService *service.AllocationService) *StaffRequestsHandler {
	return &StaffRequestsHandler{requests: requestService, allocation: allocationService}
}

// ListRequests GET /staff/requests.
func (h *StaffRequestsHandler) ListRequests(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	filter := service.RequestStaffFilter{
		Statuses:  parseStatuses(c.Query("status")),
		Urgencies: parseUrgencies(c.Query("urgency")),
	}
	if propertyID := c.Query("property_id"); propertyID != "" {
		filter.PropertyID = &propertyID
	}
	if workerID := c.Query("worker_id"); workerID != "" {
		filter.WorkerID = &workerID
	}
	if term := strings.TrimSpace(c.Query("search")); term != "" {
		filter.SearchTerm = &term
	}
	filter.Limit, filter.Offset = parsePaging(c)

	requests, err := h.requests.ListRequestsForStaff(c.Context(), actor, filter)
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(requests))
	for i := range requests {
		items = append(items, requestSummary(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// PriorityQueue GET /staff/requests/queue. Submitted requests ranked for
// scheduling, highest priority first.
func (h *StaffRequestsHandler) PriorityQueue(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	limit := parseIntDefault(c.Query("limit"), 50)
	queue, err := h.requests.PriorityQueue(c.Context(), actor, limit)
	if err != nil {
		return err
	}
	items := make([]dto.QueuedRequestResponse, 0, len(queue))
	for i := range queue {
		items = append(items, dto.QueuedRequestResponse{
			Request:       requestSummary(&queue[i].Request),
			PriorityScore: queue[i].PriorityScore,
			SafetyRelated: queue[i].SafetyRelated,
		})
	}
	return c.JSON(fiber.Map{"data": items})
}

// ListOverdue GET /staff/requests/overdue. Submitted requests waiting longer
// than the given number of days (default 2).
func (h *StaffRequestsHandler) ListOverdue(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	days := parseIntDefault(c.Query("older_than_days"), 2)
	limit := parseIntDefault(c.Query("limit"), 50)
	requests, err := h.requests.ListOverdue(c.Context(), actor, time.Duration(days)*24*time.Hour, limit)
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(requests))
	for i := range requests {
		items = append(items, requestSummary(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// Candidates GET /staff/requests/:id/candidates. Ranked assignable workers
// for the request around the preferred date.
func (h *StaffRequestsHandler) Candidates(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	request, err := h.requests.GetRequest(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}

	preferredDate := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := parseDate(dateStr)
		if err != nil {
			return apperrors.NewValidationError("invalid date, expected YYYY-MM-DD", nil)
		}
		preferredDate = parsed
	}
	var categoryOverride *domain.Specialization
	if cat := c.Query("category"); cat != "" {
		category := domain.Specialization(strings.ToUpper(strings.TrimSpace(cat)))
		categoryOverride = &category
	}
	override := c.QueryBool("emergency_override")

	candidates, err := h.allocation.CandidatesForRequest(c.Context(), request, preferredDate, override, categoryOverride)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": candidates})
}

// ScheduleRequest POST /staff/requests/:id/schedule.
func (h *StaffRequestsHandler) ScheduleRequest(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.ScheduleRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	date, err := parseDate(req.ScheduledDate)
	if err != nil {
		return apperrors.NewValidationError("invalid scheduled_date, expected YYYY-MM-DD", nil)
	}

	request, err := h.requests.ScheduleRequest(c.Context(), actor, c.Params("id"), service.ScheduleInput{
		WorkerID:          req.WorkerID,
		ScheduledDate:     date,
		Notes:             req.Notes,
		EmergencyOverride: req.EmergencyOverride,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(request)})
}

// DeclineRequest POST /staff/requests/:id/decline.
func (h *StaffRequestsHandler) DeclineRequest(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.DeclineRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	request, err := h.requests.DeclineRequest(c.Context(), actor, c.Params("id"), req.Reason)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(request)})
}

// CloseRequest POST /staff/requests/:id/close.
func (h *StaffRequestsHandler) CloseRequest(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CloseRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.requests.CloseRequest(c.Context(), actor, c.Params("id"), req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(request)})
}
