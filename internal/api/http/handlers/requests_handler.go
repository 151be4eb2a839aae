package handlers

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/maintenance-service/internal/api/dto"
	"github.com/spec-kit/maintenance-service/internal/auth"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/service"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

// RequestsHandler manages tenant-facing maintenance request endpoints.
type RequestsHandler struct {
	service *service.RequestService
}

// NewRequestsHandler constructs handler.
func NewRequestsHandler(requestService *service.RequestService) *RequestsHandler {
	return &RequestsHandler{service: requestService}
}

// CreateRequest POST /requests.
func (h *RequestsHandler) CreateRequest(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Tenant == nil {
		return apperrors.NewUnauthorized("tenant required")
	}
	var req dto.CreateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	request, err := h.service.CreateRequest(c.Context(), principal.Tenant.ID, service.RequestCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Urgency:     req.Urgency,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": requestDetail(request)})
}

// ListRequests GET /requests.
func (h *RequestsHandler) ListRequests(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Tenant == nil {
		return apperrors.NewUnauthorized("tenant required")
	}
	statuses := parseStatuses(c.Query("status"))
	limit, offset := parsePaging(c)
	requests, err := h.service.ListRequestsForTenant(c.Context(), principal.Tenant.ID, statuses, limit, offset)
	if err != nil {
		return err
	}
	items := make([]dto.RequestSummary, 0, len(requests))
	for i := range requests {
		items = append(items, requestSummary(&requests[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetRequest GET /requests/:id.
func (h *RequestsHandler) GetRequest(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	request, err := h.service.GetRequest(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(request)})
}

// UpdateRequest PATCH /requests/:id.
func (h *RequestsHandler) UpdateRequest(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	var req dto.UpdateRequestRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}
	request, err := h.service.UpdateRequest(c.Context(), actor, c.Params("id"), service.RequestUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Urgency:     req.Urgency,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(request)})
}

// SubmitRequest POST /requests/:id/submit.
func (h *RequestsHandler) SubmitRequest(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	request, err := h.service.SubmitRequest(c.Context(), actor, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": requestDetail(request)})
}

// CancelRequest POST /requests/:id/cancel.
func (h *RequestsHandler) CancelRequest(c *fiber.Ctx) error {
	actor, err := actorFromContext(c)
	if err != nil {
		return err
	}
	if err := h.service.CancelRequest(c.Context(), actor, c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"status": "cancelled"}})
}

func actorFromContext(c *fiber.Ctx) (service.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return service.Actor{}, apperrors.NewUnauthorized("authentication required")
	}
	return service.Actor{
		Role:   principal.Role,
		Tenant: principal.Tenant,
		Staff:  principal.Staff,
	}, nil
}

func parseStatuses(val string) []domain.RequestStatus {
	if val == "" {
		return nil
	}
	var statuses []domain.RequestStatus
	for _, part := range strings.Split(val, ",") {
		statuses = append(statuses, domain.RequestStatus(strings.ToUpper(strings.TrimSpace(part))))
	}
	return statuses
}

func parseUrgencies(val string) []domain.UrgencyLevel {
	if val == "" {
		return nil
	}
	var urgencies []domain.UrgencyLevel
	for _, part := range strings.Split(val, ",") {
		urgencies = append(urgencies, domain.UrgencyLevel(strings.ToUpper(strings.TrimSpace(part))))
	}
	return urgencies
}

func parsePaging(c *fiber.Ctx) (limit, offset int) {
	page := parseIntDefault(c.Query("page"), 1)
	pageSize := parseIntDefault(c.Query("page_size"), 20)
	return pageSize, (page - 1) * pageSize
}

func parseIntDefault(val string, def int) int {
	if val == "" {
		return def
	}
	parsed, err := strconv.Atoi(val)
	if err != nil || parsed <= 0 {
		return def
	}
	return parsed
}

func parseDate(val string) (time.Time, error) {
	return time.Parse("2006-01-02", val)
}

func requestSummary(request *domain.MaintenanceRequest) dto.RequestSummary {
	return dto.RequestSummary{
		ID:            request.ID,
		Code:          request.Code,
		PropertyID:    request.PropertyID,
		Title:         request.Title,
		Urgency:       request.Urgency,
		Status:        request.Status,
		ScheduledDate: request.ScheduledDate,
		SubmittedAt:   request.SubmittedAt,
		CreatedAt:     request.CreatedAt,
		UpdatedAt:     request.UpdatedAt,
	}
}

func requestDetail(request *domain.MaintenanceRequest) dto.RequestDetailResponse {
	return dto.RequestDetailResponse{
		ID:                  request.ID,
		Code:                request.Code,
		TenantID:            request.TenantID,
		PropertyID:          request.PropertyID,
		Title:               request.Title,
		Description:         request.Description,
		Urgency:             request.Urgency,
		Status:              request.Status,
		TenantName:          request.TenantName,
		TenantEmail:         request.TenantEmail,
		TenantUnit:          request.TenantUnit,
		PropertyName:        request.PropertyName,
		PropertyPhone:       request.PropertyPhone,
		SuperintendentName:  request.SuperintendentName,
		SuperintendentEmail: request.SuperintendentEmail,
		ScheduledDate:       request.ScheduledDate,
		AssignedWorkerID:    request.AssignedWorkerID,
		WorkOrderNo:         request.WorkOrderNo,
		CompletedDate:       request.CompletedDate,
		CompletionSuccess:   request.CompletionSuccess,
		CompletionNotes:     request.CompletionNotes,
		ClosureNotes:        request.ClosureNotes,
		SubmittedAt:         request.SubmittedAt,
		CreatedAt:           request.CreatedAt,
		UpdatedAt:           request.UpdatedAt,
	}
}
