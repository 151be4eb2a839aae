package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

// Actor is the authenticated caller as seen by the services. Exactly one of
// Tenant/Staff is set depending on the role.
type Actor struct {
	Role   domain.Role
	Tenant *domain.Tenant
	Staff  *domain.StaffAccount
}

// RequestService coordinates the maintenance request lifecycle.
type RequestService struct {
	requests   repository.RequestRepository
	tenants    repository.TenantRepository
	properties repository.PropertyRepository
	workers    repository.WorkerRepository
	dispatcher events.Dispatcher
	allocation *AllocationService
	capacity   domain.CapacityPolicy
}

// RequestDependencies bundles repositories for the request service.
type RequestDependencies struct {
	RequestRepo  repository.RequestRepository
	TenantRepo   repository.TenantRepository
	PropertyRepo repository.PropertyRepository
	WorkerRepo   repository.WorkerRepository
	Dispatcher   events.Dispatcher
	Allocation   *AllocationService
	Capacity     domain.CapacityPolicy
}

// NewRequestService constructs the service.
func NewRequestService(deps RequestDependencies) *RequestService {
	return &RequestService{
		requests:   deps.RequestRepo,
		tenants:    deps.TenantRepo,
		properties: deps.PropertyRepo,
		workers:    deps.WorkerRepo,
		dispatcher: deps.Dispatcher,
		allocation: deps.Allocation,
		capacity:   deps.Capacity,
	}
}

// RequestCreateInput describes draft creation payload.
type RequestCreateInput struct {
	Title       string
	Description string
	Urgency     domain.UrgencyLevel
}

// RequestUpdateInput describes editable fields.
type RequestUpdateInput struct {
	Title       *string
	Description *string
	Urgency     *domain.UrgencyLevel
}

// ScheduleInput describes a scheduling decision.
type ScheduleInput struct {
	WorkerID          string
	ScheduledDate     time.Time
	Notes             string
	EmergencyOverride bool
}

// QueuedRequest annotates a submitted request with its priority ranking.
type QueuedRequest struct {
	Request       domain.MaintenanceRequest
	PriorityScore int
	SafetyRelated bool
}

// CreateRequest opens a draft for the tenant, capturing display fields from
// the tenant and property records so later renames don't rewrite history.
func (s *RequestService) CreateRequest(ctx context.Context, tenantID string, input RequestCreateInput) (*domain.MaintenanceRequest, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Description) == "" {
		return nil, apperrors.NewValidationError("title and description required", nil)
	}

	tenant, err := s.tenants.GetByID(ctx, tenantID)
	if err != nil {
		return nil, s.mapRepoError(err, "tenant")
	}
	property, err := s.properties.GetByID(ctx, tenant.PropertyID)
	if err != nil {
		return nil, s.mapRepoError(err, "property")
	}
	if !property.IsActive {
		return nil, apperrors.NewConflict("property inactive", map[string]any{"property_id": property.ID})
	}

	urgency := input.Urgency
	if urgency == "" {
		urgency = domain.UrgencyNormal
	}

	request := &domain.MaintenanceRequest{
		Code:                generateRequestCode(),
		TenantID:            tenant.ID,
		PropertyID:          property.ID,
		Title:               strings.TrimSpace(input.Title),
		Description:         strings.TrimSpace(input.Description),
		Urgency:             urgency,
		Status:              domain.RequestStatusDraft,
		TenantName:          tenant.Name,
		TenantEmail:         tenant.Email,
		TenantUnit:          tenant.Unit,
		PropertyName:        property.Name,
		PropertyPhone:       property.Phone,
		SuperintendentName:  property.SuperintendentName,
		SuperintendentEmail: property.SuperintendentEmail,
	}
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	return request, nil
}

// UpdateRequest edits a request while its status allows editing.
func (s *RequestService) UpdateRequest(ctx context.Context, actor Actor, requestID string, input RequestUpdateInput) (*domain.MaintenanceRequest, error) {
	request, err := s.loadForActor(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !request.Status.IsEditable() {
		return nil, apperrors.NewConflict("request not editable in current status", map[string]any{"status": request.Status})
	}
	if !domain.RoleCanPerform(actor.Role, request.Status, domain.ActionEdit) {
		return nil, apperrors.NewForbidden("role may not edit in current status")
	}

	if input.Title != nil {
		request.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		request.Description = strings.TrimSpace(*input.Description)
	}
	if input.Urgency != nil {
		request.Urgency = *input.Urgency
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	return request, nil
}

// SubmitRequest moves a tenant draft into the superintendent queue.
func (s *RequestService) SubmitRequest(ctx context.Context, actor Actor, requestID string) (*domain.MaintenanceRequest, error) {
	request, err := s.loadForActor(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !domain.CanRolePerformTransition(actor.Role, request.Status, domain.RequestStatusSubmitted) {
		return nil, s.transitionDenied(actor.Role, request.Status, domain.RequestStatusSubmitted)
	}
	if err := request.Submit(time.Now()); err != nil {
		return nil, mapLifecycleError(err)
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishLifecycle(ctx, actor, request, "")
	return request, nil
}

// CancelRequest withdraws a request that has not been scheduled yet. The
// status graph has no cancelled state; withdrawal removes the record and
// emits a cancellation event for listeners.
func (s *RequestService) CancelRequest(ctx context.Context, actor Actor, requestID string) error {
	request, err := s.loadForActor(ctx, actor, requestID)
	if err != nil {
		return err
	}
	if !request.Status.IsCancellable() {
		return apperrors.NewConflict("request can no longer be cancelled", map[string]any{"status": request.Status})
	}
	if !domain.RoleCanPerform(actor.Role, request.Status, domain.ActionCancel) {
		return apperrors.NewForbidden("role may not cancel in current status")
	}
	if err := s.requests.Delete(ctx, request.ID); err != nil {
		return apperrors.MapError(err)
	}
	s.publish(ctx, events.Event{
		Type:      events.EventRequestCancelled,
		RequestID: request.ID,
		Actor:     s.eventActor(actor),
		Payload:   events.RequestCancelledPayload{Code: request.Code},
	})
	return nil
}

// ScheduleRequest books the request onto a worker as one logical operation:
// the lifecycle transition and the capacity-checked assignment either both
// happen or neither does.
func (s *RequestService) ScheduleRequest(ctx context.Context, actor Actor, requestID string, input ScheduleInput) (*domain.MaintenanceRequest, error) {
	request, err := s.loadForActor(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !domain.CanRolePerformTransition(actor.Role, request.Status, domain.RequestStatusScheduled) {
		return nil, s.transitionDenied(actor.Role, request.Status, domain.RequestStatusScheduled)
	}

	worker, err := s.workers.GetByID(ctx, input.WorkerID)
	if err != nil {
		return nil, s.mapRepoError(err, "worker")
	}

	now := time.Now()
	workOrderNo := generateWorkOrderNo()
	if err := worker.AssignWork(workOrderNo, request.ID, input.ScheduledDate, input.Notes, s.capacity, input.EmergencyOverride, now); err != nil {
		return nil, mapLifecycleError(err)
	}
	if err := request.Schedule(input.ScheduledDate, worker.ID, workOrderNo, now); err != nil {
		return nil, mapLifecycleError(err)
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.workers.SaveAssignments(ctx, worker); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.allocation != nil {
		s.allocation.InvalidateCandidates(ctx, request.ID)
	}
	s.publishLifecycle(ctx, actor, request, worker.Email)
	return request, nil
}

// DeclineRequest rejects a submitted request with a reason.
func (s *RequestService) DeclineRequest(ctx context.Context, actor Actor, requestID, reason string) (*domain.MaintenanceRequest, error) {
	request, err := s.loadForActor(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !domain.CanRolePerformTransition(actor.Role, request.Status, domain.RequestStatusDeclined) {
		return nil, s.transitionDenied(actor.Role, request.Status, domain.RequestStatusDeclined)
	}
	if err := request.Decline(reason, time.Now()); err != nil {
		return nil, mapLifecycleError(err)
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishLifecycle(ctx, actor, request, "")
	return request, nil
}

// ReportCompletion records the visit outcome from the assigned worker and
// mirrors it onto the worker's assignment record.
func (s *RequestService) ReportCompletion(ctx context.Context, actor Actor, requestID string, success bool, notes string) (*domain.MaintenanceRequest, error) {
	request, err := s.loadForActor(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	target := domain.RequestStatusDone
	if !success {
		target = domain.RequestStatusFailed
	}
	if !domain.CanRolePerformTransition(actor.Role, request.Status, target) {
		return nil, s.transitionDenied(actor.Role, request.Status, target)
	}
	if actor.Role == domain.RoleWorker {
		if actor.Staff == nil || actor.Staff.WorkerID == nil ||
			request.AssignedWorkerID == nil || *actor.Staff.WorkerID != *request.AssignedWorkerID {
			return nil, apperrors.NewForbidden("only the assigned worker may report completion")
		}
	}

	workOrderNo := request.WorkOrderNo
	workerID := request.AssignedWorkerID
	if err := request.ReportCompletion(success, notes, time.Now()); err != nil {
		return nil, mapLifecycleError(err)
	}

	// The assignment mirror is written first; the request stays Scheduled if
	// it fails, and a retry after a failed request save finds the assignment
	// already mirrored and proceeds.
	if workerID != nil && workOrderNo != nil {
		worker, err := s.workers.GetByID(ctx, *workerID)
		if err != nil {
			return nil, s.mapRepoError(err, "worker")
		}
		switch err := worker.CompleteAssignment(*workOrderNo, success, notes); {
		case err == nil:
			if err := s.workers.SaveAssignments(ctx, worker); err != nil {
				return nil, apperrors.MapError(err)
			}
		case errors.Is(err, domain.ErrAssignmentCompleted):
			// Already mirrored by an earlier attempt.
		default:
			return nil, apperrors.NewConflict(err.Error(), nil)
		}
	}

	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publishLifecycle(ctx, actor, request, "")
	return request, nil
}

// CloseRequest finalizes a done or declined request.
func (s *RequestService) CloseRequest(ctx context.Context, actor Actor, requestID, notes string) (*domain.MaintenanceRequest, error) {
	request, err := s.loadForActor(ctx, actor, requestID)
	if err != nil {
		return nil, err
	}
	if !domain.CanRolePerformTransition(actor.Role, request.Status, domain.RequestStatusClosed) {
		return nil, s.transitionDenied(actor.Role, request.Status, domain.RequestStatusClosed)
	}
	if err := request.Close(notes, time.Now()); err != nil {
		return nil, mapLifecycleError(err)
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.publishLifecycle(ctx, actor, request, "")
	return request, nil
}

// RequestStaffFilter describes staff listing filters.
type RequestStaffFilter struct {
	PropertyID *string
	WorkerID   *string
	Statuses   []domain.RequestStatus
	Urgencies  []domain.UrgencyLevel
	SearchTerm *string
	Limit      int
	Offset     int
}

// ListRequestsForTenant returns the tenant's own requests.
func (s *RequestService) ListRequestsForTenant(ctx context.Context, tenantID string, statuses []domain.RequestStatus, limit, offset int) ([]domain.MaintenanceRequest, error) {
	filter := repository.RequestFilter{
		TenantID: &tenantID,
		Statuses: statuses,
		Limit:    limit,
		Offset:   offset,
	}
	list, err := s.requests.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// ListRequestsForStaff returns requests within the staff member's scope.
// Superintendents are pinned to their own property; admins see everything.
func (s *RequestService) ListRequestsForStaff(ctx context.Context, actor Actor, filter RequestStaffFilter) ([]domain.MaintenanceRequest, error) {
	repoFilter := repository.RequestFilter{
		PropertyID:       filter.PropertyID,
		AssignedWorkerID: filter.WorkerID,
		Statuses:         filter.Statuses,
		Urgencies:        filter.Urgencies,
		SearchTerm:       filter.SearchTerm,
		Limit:            filter.Limit,
		Offset:           filter.Offset,
	}
	if actor.Role == domain.RolePropertySuperintendent && actor.Staff != nil && actor.Staff.PropertyID != nil {
		repoFilter.PropertyID = actor.Staff.PropertyID
	}
	list, err := s.requests.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// GetRequest fetches a request enforcing the actor's access scope.
func (s *RequestService) GetRequest(ctx context.Context, actor Actor, requestID string) (*domain.MaintenanceRequest, error) {
	return s.loadForActor(ctx, actor, requestID)
}

// PriorityQueue returns submitted requests ranked for scheduling, highest
// priority first. The whole submitted backlog is scored; the limit applies
// only after ranking, so aged requests are never cut before the age boost
// can surface them.
func (s *RequestService) PriorityQueue(ctx context.Context, actor Actor, limit int) ([]QueuedRequest, error) {
	filter := RequestStaffFilter{
		Statuses: []domain.RequestStatus{domain.RequestStatusSubmitted},
	}
	list, err := s.ListRequestsForStaff(ctx, actor, filter)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	queue := make([]QueuedRequest, 0, len(list))
	for i := range list {
		queue = append(queue, QueuedRequest{
			Request:       list[i],
			PriorityScore: domain.CalculatePriorityScore(&list[i], now),
			SafetyRelated: domain.IsSafetyRelated(&list[i]),
		})
	}
	sort.SliceStable(queue, func(i, j int) bool {
		return queue[i].PriorityScore > queue[j].PriorityScore
	})
	if limit > 0 && len(queue) > limit {
		queue = queue[:limit]
	}
	return queue, nil
}

// ListOverdue returns submitted requests waiting longer than the given age.
// Read-side query only; nothing in the service runs on a timer.
func (s *RequestService) ListOverdue(ctx context.Context, actor Actor, olderThan time.Duration, limit int) ([]domain.MaintenanceRequest, error) {
	cutoff := time.Now().Add(-olderThan)
	repoFilter := repository.RequestFilter{
		Statuses:        []domain.RequestStatus{domain.RequestStatusSubmitted},
		SubmittedBefore: &cutoff,
		Limit:           limit,
	}
	if actor.Role == domain.RolePropertySuperintendent && actor.Staff != nil && actor.Staff.PropertyID != nil {
		repoFilter.PropertyID = actor.Staff.PropertyID
	}
	list, err := s.requests.ListWithFilter(ctx, repoFilter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

func (s *RequestService) loadForActor(ctx context.Context, actor Actor, requestID string) (*domain.MaintenanceRequest, error) {
	request, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return nil, s.mapRepoError(err, "request")
	}
	if !s.actorCanAccess(actor, request) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return request, nil
}

func (s *RequestService) actorCanAccess(actor Actor, request *domain.MaintenanceRequest) bool {
	switch actor.Role {
	case domain.RoleSystemAdmin:
		return true
	case domain.RolePropertySuperintendent:
		if actor.Staff == nil {
			return false
		}
		return actor.Staff.PropertyID == nil || *actor.Staff.PropertyID == request.PropertyID
	case domain.RoleWorker:
		if actor.Staff == nil || actor.Staff.WorkerID == nil {
			return false
		}
		return request.AssignedWorkerID != nil && *request.AssignedWorkerID == *actor.Staff.WorkerID
	case domain.RoleTenant:
		return actor.Tenant != nil && actor.Tenant.ID == request.TenantID
	default:
		return false
	}
}

func (s *RequestService) transitionDenied(role domain.Role, from, to domain.RequestStatus) error {
	if !domain.CanTransition(from, to) {
		return apperrors.NewInvalidTransition(string(from), string(to))
	}
	return apperrors.NewForbidden(role.String() + " may not perform this transition")
}

func (s *RequestService) mapRepoError(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

// mapLifecycleError translates aggregate guard failures into the service
// error taxonomy. Unknown plain errors from guards are validation failures.
func mapLifecycleError(err error) error {
	var invalid *domain.InvalidTransitionError
	if errors.As(err, &invalid) {
		return apperrors.NewInvalidTransition(string(invalid.From), string(invalid.To))
	}
	var capacity *domain.CapacityExceededError
	if errors.As(err, &capacity) {
		return apperrors.NewCapacityExceeded(capacity.WorkerID, capacity.Date.Format("2006-01-02"), capacity.Cap)
	}
	if errors.Is(err, domain.ErrWorkerInactive) {
		return apperrors.NewConflict("worker inactive", nil)
	}
	if errors.Is(err, domain.ErrDuplicateWorkOrder) {
		return apperrors.NewConflict("work order number already assigned", nil)
	}
	return apperrors.NewValidationError(err.Error(), nil)
}

// publishLifecycle drains the aggregate's pending events after a successful
// save and hands them to the dispatcher.
func (s *RequestService) publishLifecycle(ctx context.Context, actor Actor, request *domain.MaintenanceRequest, workerEmail string) {
	if s.dispatcher == nil {
		request.DrainEvents()
		return
	}
	for _, lifecycle := range request.DrainEvents() {
		event := events.Event{
			RequestID: request.ID,
			Actor:     s.eventActor(actor),
		}
		switch e := lifecycle.(type) {
		case domain.RequestSubmitted:
			event.Type = events.EventRequestSubmitted
			event.Payload = events.RequestSubmittedPayload{
				Code:        e.Code,
				Urgency:     e.Urgency,
				TenantEmail: request.TenantEmail,
			}
		case domain.RequestScheduled:
			event.Type = events.EventRequestScheduled
			event.Payload = events.RequestScheduledPayload{
				Code:          e.Code,
				WorkerID:      e.WorkerID,
				WorkerEmail:   workerEmail,
				WorkOrderNo:   e.WorkOrderNo,
				ScheduledDate: e.ScheduledDate,
				Urgency:       e.Urgency,
			}
		case domain.RequestCompleted:
			event.Type = events.EventRequestCompleted
			event.Payload = events.RequestCompletedPayload{Code: e.Code, Success: e.Success, Notes: e.Notes}
		case domain.RequestDeclined:
			event.Type = events.EventRequestDeclined
			event.Payload = events.RequestDeclinedPayload{Code: e.Code, Reason: e.Reason}
		case domain.RequestClosed:
			event.Type = events.EventRequestClosed
			event.Payload = events.RequestClosedPayload{Code: e.Code, Notes: e.Notes}
		default:
			continue
		}
		s.publish(ctx, event)
	}
}

func (s *RequestService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *RequestService) eventActor(actor Actor) events.Actor {
	switch {
	case actor.Tenant != nil:
		id := actor.Tenant.ID
		return events.Actor{Type: domain.SubjectTypeTenant, TenantID: &id}
	case actor.Staff != nil:
		id := actor.Staff.ID
		return events.Actor{Type: domain.SubjectTypeStaff, StaffID: &id}
	default:
		return events.Actor{}
	}
}

func generateRequestCode() string {
	return "MR-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}

func generateWorkOrderNo() string {
	return "WO-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
}
