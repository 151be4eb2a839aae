package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/events"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

func strPtr(s string) *string { return &s }

func submittedRequest() *domain.MaintenanceRequest {
	at := time.Now().Add(-time.Hour)
	return &domain.MaintenanceRequest{
		ID:          "req-1",
		Code:        "MR-ABCD1234",
		TenantID:    "tenant-1",
		PropertyID:  "prop-1",
		Title:       "Kitchen faucet leaking",
		Description: "steady drip under the sink",
		Urgency:     domain.UrgencyNormal,
		Status:      domain.RequestStatusSubmitted,
		TenantEmail: "jordan@example.com",
		SubmittedAt: &at,
	}
}

func superintendentActor(propertyID string) Actor {
	return Actor{
		Role: domain.RolePropertySuperintendent,
		Staff: &domain.StaffAccount{
			ID:         "staff-1",
			Role:       domain.RolePropertySuperintendent,
			PropertyID: &propertyID,
		},
	}
}

func tenantActor(tenantID string) Actor {
	return Actor{
		Role:   domain.RoleTenant,
		Tenant: &domain.Tenant{ID: tenantID, PropertyID: "prop-1"},
	}
}

func domainErrCode(t *testing.T, err error) string {
	t.Helper()
	domainErr := apperrors.ToDomainError(err)
	require.NotNil(t, domainErr)
	return domainErr.Code
}

func TestScheduleRequestHappyPath(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	workerRepo := new(MockWorkerRepository)
	dispatcher := new(MockDispatcher)

	svc := NewRequestService(RequestDependencies{
		RequestRepo: requestRepo,
		WorkerRepo:  workerRepo,
		Dispatcher:  dispatcher,
	})

	ctx := context.Background()
	request := submittedRequest()
	worker := &domain.Worker{ID: "worker-1", Name: "Sam Fixit", Email: "sam@example.com", Active: true}

	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)
	workerRepo.On("GetByID", ctx, "worker-1").Return(worker, nil)
	requestRepo.On("Update", ctx, request).Return(nil)
	workerRepo.On("SaveAssignments", ctx, worker).Return(nil)
	dispatcher.On("Publish", ctx, mock.AnythingOfType("events.Event")).Return(nil)

	date := time.Now().AddDate(0, 0, 2)
	got, err := svc.ScheduleRequest(ctx, superintendentActor("prop-1"), "req-1", ScheduleInput{
		WorkerID:      "worker-1",
		ScheduledDate: date,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.RequestStatusScheduled, got.Status)
	require.NotNil(t, got.AssignedWorkerID)
	assert.Equal(t, "worker-1", *got.AssignedWorkerID)
	require.NotNil(t, got.WorkOrderNo)
	require.Len(t, worker.Assignments, 1)
	assert.Equal(t, *got.WorkOrderNo, worker.Assignments[0].WorkOrderNo)

	require.Len(t, dispatcher.Published, 1)
	assert.Equal(t, events.EventRequestScheduled, dispatcher.Published[0].Type)
	payload, ok := dispatcher.Published[0].Payload.(events.RequestScheduledPayload)
	require.True(t, ok)
	assert.Equal(t, "sam@example.com", payload.WorkerEmail)

	requestRepo.AssertExpectations(t)
	workerRepo.AssertExpectations(t)
}

func TestScheduleRequestCapacityExceeded(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	workerRepo := new(MockWorkerRepository)

	svc := NewRequestService(RequestDependencies{
		RequestRepo: requestRepo,
		WorkerRepo:  workerRepo,
	})

	ctx := context.Background()
	date := time.Now().AddDate(0, 0, 2)
	worker := &domain.Worker{ID: "worker-1", Active: true, Assignments: []domain.WorkAssignment{
		{WorkOrderNo: "WO-A", ScheduledDate: date},
		{WorkOrderNo: "WO-B", ScheduledDate: date},
	}}

	requestRepo.On("GetByID", ctx, "req-1").Return(submittedRequest(), nil)
	workerRepo.On("GetByID", ctx, "worker-1").Return(worker, nil)

	_, err := svc.ScheduleRequest(ctx, superintendentActor("prop-1"), "req-1", ScheduleInput{
		WorkerID:      "worker-1",
		ScheduledDate: date,
	})
	require.Error(t, err)
	assert.Equal(t, "CAPACITY_EXCEEDED", domainErrCode(t, err))

	// Third booking on the same day succeeds under the emergency override.
	requestRepo.On("Update", ctx, mock.AnythingOfType("*domain.MaintenanceRequest")).Return(nil)
	workerRepo.On("SaveAssignments", ctx, worker).Return(nil)
	_, err = svc.ScheduleRequest(ctx, superintendentActor("prop-1"), "req-1", ScheduleInput{
		WorkerID:          "worker-1",
		ScheduledDate:     date,
		EmergencyOverride: true,
	})
	require.NoError(t, err)
	assert.Len(t, worker.Assignments, 3)
}

func TestScheduleRequestRoleDenied(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo})

	ctx := context.Background()
	request := submittedRequest()
	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)

	_, err := svc.ScheduleRequest(ctx, tenantActor("tenant-1"), "req-1", ScheduleInput{
		WorkerID:      "worker-1",
		ScheduledDate: time.Now().AddDate(0, 0, 1),
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
	assert.Equal(t, domain.RequestStatusSubmitted, request.Status)
}

func TestSubmitRequestInvalidTransition(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo})

	ctx := context.Background()
	request := submittedRequest()
	request.Status = domain.RequestStatusScheduled
	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)

	_, err := svc.SubmitRequest(ctx, tenantActor("tenant-1"), "req-1")
	require.Error(t, err)
	assert.Equal(t, "INVALID_TRANSITION", domainErrCode(t, err))
}

func TestCancelRequest(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	dispatcher := new(MockDispatcher)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo, Dispatcher: dispatcher})

	ctx := context.Background()
	request := submittedRequest()
	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)
	requestRepo.On("Delete", ctx, "req-1").Return(nil)
	dispatcher.On("Publish", ctx, mock.AnythingOfType("events.Event")).Return(nil)

	require.NoError(t, svc.CancelRequest(ctx, tenantActor("tenant-1"), "req-1"))
	require.Len(t, dispatcher.Published, 1)
	assert.Equal(t, events.EventRequestCancelled, dispatcher.Published[0].Type)
	requestRepo.AssertExpectations(t)
}

func TestCancelRequestRejectedWhenScheduled(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo})

	ctx := context.Background()
	request := submittedRequest()
	request.Status = domain.RequestStatusScheduled
	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)

	err := svc.CancelRequest(ctx, tenantActor("tenant-1"), "req-1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", domainErrCode(t, err))
}

func TestReportCompletionOnlyAssignedWorker(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	workerRepo := new(MockWorkerRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo, WorkerRepo: workerRepo})

	ctx := context.Background()
	request := submittedRequest()
	request.Status = domain.RequestStatusScheduled
	request.AssignedWorkerID = strPtr("worker-1")
	request.WorkOrderNo = strPtr("WO-0001")
	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)

	otherWorker := Actor{
		Role: domain.RoleWorker,
		Staff: &domain.StaffAccount{
			ID:       "staff-9",
			Role:     domain.RoleWorker,
			WorkerID: strPtr("worker-9"),
		},
	}
	_, err := svc.ReportCompletion(ctx, otherWorker, "req-1", true, "")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
}

func TestReportCompletionMirrorsAssignment(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	workerRepo := new(MockWorkerRepository)
	dispatcher := new(MockDispatcher)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo, WorkerRepo: workerRepo, Dispatcher: dispatcher})

	ctx := context.Background()
	request := submittedRequest()
	request.Status = domain.RequestStatusScheduled
	request.AssignedWorkerID = strPtr("worker-1")
	request.WorkOrderNo = strPtr("WO-0001")

	worker := &domain.Worker{ID: "worker-1", Active: true, Assignments: []domain.WorkAssignment{
		{WorkOrderNo: "WO-0001", RequestID: "req-1", ScheduledDate: time.Now()},
	}}

	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)
	requestRepo.On("Update", ctx, request).Return(nil)
	workerRepo.On("GetByID", ctx, "worker-1").Return(worker, nil)
	workerRepo.On("SaveAssignments", ctx, worker).Return(nil)
	dispatcher.On("Publish", ctx, mock.AnythingOfType("events.Event")).Return(nil)

	assignedWorker := Actor{
		Role: domain.RoleWorker,
		Staff: &domain.StaffAccount{
			ID:       "staff-2",
			Role:     domain.RoleWorker,
			WorkerID: strPtr("worker-1"),
		},
	}
	got, err := svc.ReportCompletion(ctx, assignedWorker, "req-1", false, "needs a part")
	require.NoError(t, err)

	assert.Equal(t, domain.RequestStatusFailed, got.Status)
	assert.True(t, worker.Assignments[0].Completed)
	require.NotNil(t, worker.Assignments[0].CompletionSuccess)
	assert.False(t, *worker.Assignments[0].CompletionSuccess)
	require.Len(t, dispatcher.Published, 1)
	assert.Equal(t, events.EventRequestCompleted, dispatcher.Published[0].Type)
}

func TestReportCompletionAssignmentSaveFailureKeepsRequestUnsaved(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	workerRepo := new(MockWorkerRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo, WorkerRepo: workerRepo})

	ctx := context.Background()
	request := submittedRequest()
	request.Status = domain.RequestStatusScheduled
	request.AssignedWorkerID = strPtr("worker-1")
	request.WorkOrderNo = strPtr("WO-0001")
	worker := &domain.Worker{ID: "worker-1", Active: true, Assignments: []domain.WorkAssignment{
		{WorkOrderNo: "WO-0001", RequestID: "req-1", ScheduledDate: time.Now()},
	}}

	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)
	workerRepo.On("GetByID", ctx, "worker-1").Return(worker, nil)
	workerRepo.On("SaveAssignments", ctx, worker).Return(errors.New("connection reset"))

	assigned := Actor{Role: domain.RoleWorker, Staff: &domain.StaffAccount{ID: "staff-2", Role: domain.RoleWorker, WorkerID: strPtr("worker-1")}}
	_, err := svc.ReportCompletion(ctx, assigned, "req-1", true, "")
	require.Error(t, err)

	// The request is never persisted as Done while the assignment stays open.
	requestRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestReportCompletionRetryAfterMirroredAssignment(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	workerRepo := new(MockWorkerRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo, WorkerRepo: workerRepo})

	ctx := context.Background()
	request := submittedRequest()
	request.Status = domain.RequestStatusScheduled
	request.AssignedWorkerID = strPtr("worker-1")
	request.WorkOrderNo = strPtr("WO-0001")

	// An earlier attempt mirrored the outcome but failed to save the request.
	done := true
	worker := &domain.Worker{ID: "worker-1", Active: true, Assignments: []domain.WorkAssignment{
		{WorkOrderNo: "WO-0001", RequestID: "req-1", ScheduledDate: time.Now(), Completed: true, CompletionSuccess: &done},
	}}

	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)
	workerRepo.On("GetByID", ctx, "worker-1").Return(worker, nil)
	requestRepo.On("Update", ctx, request).Return(nil)

	assigned := Actor{Role: domain.RoleWorker, Staff: &domain.StaffAccount{ID: "staff-2", Role: domain.RoleWorker, WorkerID: strPtr("worker-1")}}
	got, err := svc.ReportCompletion(ctx, assigned, "req-1", true, "")
	require.NoError(t, err)

	assert.Equal(t, domain.RequestStatusDone, got.Status)
	workerRepo.AssertNotCalled(t, "SaveAssignments", mock.Anything, mock.Anything)
	requestRepo.AssertExpectations(t)
}

func TestPriorityQueueOrdering(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo})

	ctx := context.Background()
	now := time.Now()
	recent := now.Add(-time.Hour)
	stale := now.Add(-6 * 24 * time.Hour)

	low := domain.MaintenanceRequest{ID: "low", Title: "Squeaky door", Urgency: domain.UrgencyLow, Status: domain.RequestStatusSubmitted, SubmittedAt: &recent}
	hazard := domain.MaintenanceRequest{ID: "hazard", Title: "Gas leak in basement", Urgency: domain.UrgencyNormal, Status: domain.RequestStatusSubmitted, SubmittedAt: &recent}
	agedNormal := domain.MaintenanceRequest{ID: "aged", Title: "Running toilet", Urgency: domain.UrgencyNormal, Status: domain.RequestStatusSubmitted, SubmittedAt: &stale}

	requestRepo.On("ListWithFilter", ctx, mock.AnythingOfType("repository.RequestFilter")).
		Return([]domain.MaintenanceRequest{low, agedNormal, hazard}, nil)

	queue, err := svc.PriorityQueue(ctx, Actor{Role: domain.RoleSystemAdmin, Staff: &domain.StaffAccount{Role: domain.RoleSystemAdmin}}, 10)
	require.NoError(t, err)
	require.Len(t, queue, 3)

	assert.Equal(t, "hazard", queue[0].Request.ID)
	assert.True(t, queue[0].SafetyRelated)
	assert.Equal(t, "aged", queue[1].Request.ID)
	assert.Equal(t, "low", queue[2].Request.ID)
	assert.Greater(t, queue[0].PriorityScore, queue[1].PriorityScore)
	assert.Greater(t, queue[1].PriorityScore, queue[2].PriorityScore)
}

func TestPriorityQueueLimitAppliedAfterRanking(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo})

	ctx := context.Background()
	recent := time.Now().Add(-time.Hour)
	stale := time.Now().Add(-30 * 24 * time.Hour)

	// Repository order is most-recently-updated first; the aged request with
	// the highest score comes last and must survive a page limit of 2.
	a := domain.MaintenanceRequest{ID: "recent-a", Title: "Sticky window", Urgency: domain.UrgencyLow, Status: domain.RequestStatusSubmitted, SubmittedAt: &recent}
	b := domain.MaintenanceRequest{ID: "recent-b", Title: "Loose handle", Urgency: domain.UrgencyLow, Status: domain.RequestStatusSubmitted, SubmittedAt: &recent}
	aged := domain.MaintenanceRequest{ID: "aged", Title: "Running toilet", Urgency: domain.UrgencyNormal, Status: domain.RequestStatusSubmitted, SubmittedAt: &stale}

	unlimited := mock.MatchedBy(func(f repository.RequestFilter) bool { return f.Limit <= 0 })
	requestRepo.On("ListWithFilter", ctx, unlimited).
		Return([]domain.MaintenanceRequest{a, b, aged}, nil)

	admin := Actor{Role: domain.RoleSystemAdmin, Staff: &domain.StaffAccount{Role: domain.RoleSystemAdmin}}
	queue, err := svc.PriorityQueue(ctx, admin, 2)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, "aged", queue[0].Request.ID)
	requestRepo.AssertExpectations(t)
}

func TestGetRequestAccessScope(t *testing.T) {
	requestRepo := new(MockRequestRepository)
	svc := NewRequestService(RequestDependencies{RequestRepo: requestRepo})

	ctx := context.Background()
	request := submittedRequest()
	requestRepo.On("GetByID", ctx, "req-1").Return(request, nil)

	t.Run("own tenant sees it", func(t *testing.T) {
		_, err := svc.GetRequest(ctx, tenantActor("tenant-1"), "req-1")
		assert.NoError(t, err)
	})
	t.Run("other tenant denied", func(t *testing.T) {
		_, err := svc.GetRequest(ctx, tenantActor("tenant-2"), "req-1")
		assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
	})
	t.Run("superintendent of another property denied", func(t *testing.T) {
		_, err := svc.GetRequest(ctx, superintendentActor("prop-2"), "req-1")
		assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
	})
	t.Run("unassigned worker denied", func(t *testing.T) {
		actor := Actor{Role: domain.RoleWorker, Staff: &domain.StaffAccount{Role: domain.RoleWorker, WorkerID: strPtr("worker-1")}}
		_, err := svc.GetRequest(ctx, actor, "req-1")
		assert.Equal(t, "FORBIDDEN", domainErrCode(t, err))
	})
	t.Run("admin sees everything", func(t *testing.T) {
		actor := Actor{Role: domain.RoleSystemAdmin, Staff: &domain.StaffAccount{Role: domain.RoleSystemAdmin}}
		_, err := svc.GetRequest(ctx, actor, "req-1")
		assert.NoError(t, err)
	})
}
