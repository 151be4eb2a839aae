package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

// WorkersHandler manages the worker roster and worker self-service endpoints.
type WorkersHandler struct {
	workers  *service.WorkerService
	requests *service.RequestService
}

// NewWorkersHandler constructs handler.
func NewWorkersHandler(workerService *service.WorkerService, requestService *service.RequestService) *WorkersHandler {
	return &WorkersHandler{workers: workerService, requests: requestService}
}

// CreateWorker POST /staff/workers.
func (h *WorkersHandler) CreateWorker(c *fiber.Ctx) error {
	var req dto.CreateWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	worker, err := h.workers.RegisterWorker(c.Context(), service.WorkerCreateInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Notes:          req.Notes,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": workerResponse(worker)})
}

// ListWorkers GET /staff/workers.
func (h *WorkersHandler) ListWorkers(c *fiber.Ctx) error {
	filter := repository.WorkerFilter{}
	if spec := c.Query("specialization"); spec != "" {
		specialization := domain.Specialization(spec)
		filter.Specialization = &specialization
	}
	if activeStr := c.Query("active"); activeStr != "" {
		active := c.QueryBool("active")
		filter.Active = &active
	}
	workers, err := h.workers.ListWorkers(c.Context(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.WorkerResponse, 0, len(workers))
	for i := range workers {
		items = append(items, workerResponse(&workers[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetWorker GET /staff/workers/:id.
func (h *WorkersHandler) GetWorker(c *fiber.Ctx) error {
	worker, err := h.workers.GetWorker(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data":        workerResponse(worker),
		"assignments": assignmentResponses(worker.Assignments),
	})
}

// UpdateWorker PATCH /staff/workers/:id.
func (h *WorkersHandler) UpdateWorker(c *fiber.Ctx) error {
	var req dto.UpdateWorkerRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	worker, err := h.workers.UpdateWorker(c.Context(), c.Params("id"), service.WorkerUpdateInput{
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Specialization: req.Specialization,
		Notes:          req.Notes,
		Active:         req.Active,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": workerResponse(worker)})
}

// Availability GET /staff/workers/:id/availability.
func (h *WorkersHandler) Availability(c *fiber.Ctx) error {
	windowStart := time.Now()
	if fromStr := c.Query("from"); fromStr != "" {
		parsed, err := parseDate(fromStr)
		if err != nil {
			return apperrors.NewValidationError("invalid from date, expected YYYY-MM-DD", nil)
		}
		windowStart = parsed
	}
	windowEnd := windowStart.AddDate(0, 0, parseIntDefault(c.Query("days"), 30))
	if toStr := c.Query("to"); toStr != "" {
		parsed, err := parseDate(toStr)
		if err != nil {
			return apperrors.NewValidationError("invalid to date, expected YYYY-MM-DD", nil)
		}
		windowEnd = parsed
	}
	override := c.QueryBool("emergency_override")

	summary, err := h.workers.Availability(c.Context(), c.Params("id"), windowStart, windowEnd, override)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": availabilityResponse(summary)})
}

// MyAssignments GET /worker/assignments. Requires a staff principal linked to
// a roster worker.
func (h *WorkersHandler) MyAssignments(c *fiber.Ctx) error {
	workerID, err := linkedWorkerID(c)
	if err != nil {
		return err
	}
	worker, err := h.workers.GetWorker(c.Context(), workerID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": assignmentResponses(worker.Assignments)})
}

// MyRequests GET /worker/requests. Requests currently assigned to the caller.
func (h *WorkersHandler) MyRequests(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	workerID, err := linkedWorkerID(c)
	if err != nil {
		return err
	}
	filter := service.RequestStaffFilter{
		WorkerID: &workerID,
		Statuses: parseStatuses(c.Query("status")),
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

// CompleteWork POST /worker/requests/:id/complete.
func (h *WorkersHandler) CompleteWork(c *fiber.Ctx) error {
	return h.reportCompletion(c, true)
}

// ReportIssue POST /worker/requests/:id/report-issue. Marks the visit as
// unsuccessful so the request can be rescheduled.
func (h *WorkersHandler) ReportIssue(c *fiber.Ctx) error {
	return h.reportCompletion(c, false)
}

func (h *WorkersHandler) reportCompletion(c *fiber.Ctx, success bool) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.CompletionReportRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	request, err := h.requests.ReportCompletion(c.Context(), actor, c.Params("id"), success, req.Notes)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(request)})
}

func linkedWorkerID(c *fiber.Ctx) (string, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return "", apperrors.NewUnauthorized("staff required")
	}
	if principal.Staff.WorkerID == nil {
		return "", apperrors.NewForbidden("account not linked to a roster worker")
	}
	return *principal.Staff.WorkerID, nil
}

func workerResponse(worker *domain.Worker) dto.WorkerResponse {
	return dto.WorkerResponse{
		ID:             worker.ID,
		Name:           worker.Name,
		Email:          worker.Email,
		Phone:          worker.Phone,
		Active:         worker.Active,
		Specialization: worker.Specialization,
		Notes:          worker.Notes,
		Workload:       worker.Workload(),
		CreatedAt:      worker.CreatedAt,
		UpdatedAt:      worker.UpdatedAt,
	}
}

func assignmentResponses(assignments []domain.WorkAssignment) []dto.AssignmentResponse {
	items := make([]dto.AssignmentResponse, 0, len(assignments))
	for _, a := range assignments {
		items = append(items, dto.AssignmentResponse{
			WorkOrderNo:       a.WorkOrderNo,
			RequestID:         a.RequestID,
			ScheduledDate:     a.ScheduledDate,
			AssignedAt:        a.AssignedAt,
			Notes:             a.Notes,
			Completed:         a.Completed,
			CompletionSuccess: a.CompletionSuccess,
			CompletionNotes:   a.CompletionNotes,
		})
	}
	return items
}

func availabilityResponse(summary *domain.WorkerAvailability) dto.AvailabilityResponse {
	return dto.AvailabilityResponse{
		WorkerID:             summary.WorkerID,
		WindowStart:          summary.WindowStart,
		WindowEnd:            summary.WindowEnd,
		EmergencyOverride:    summary.EmergencyOverride,
		Workload:             summary.Workload,
		BookedDates:          summary.BookedDates,
		PartiallyBookedDates: summary.PartiallyBookedDates,
		NextAvailableDate:    summary.NextAvailableDate,
	}
}
