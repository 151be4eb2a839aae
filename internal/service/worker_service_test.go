package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

func TestRegisterWorkerDefaults(t *testing.T) {
	workerRepo := new(MockWorkerRepository)
	svc := NewWorkerService(workerRepo, domain.CapacityPolicy{})

	ctx := context.Background()
	workerRepo.On("Create", ctx, mock.AnythingOfType("*domain.Worker")).Return(nil)

	worker, err := svc.RegisterWorker(ctx, WorkerCreateInput{Name: "  Sam Fixit ", Email: "sam@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "Sam Fixit", worker.Name)
	assert.True(t, worker.Active)
	assert.Equal(t, domain.SpecializationGeneral, worker.Specialization)
}

func TestRegisterWorkerValidation(t *testing.T) {
	svc := NewWorkerService(new(MockWorkerRepository), domain.CapacityPolicy{})
	_, err := svc.RegisterWorker(context.Background(), WorkerCreateInput{Name: "", Email: ""})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))
}

func TestAvailabilityWindowValidation(t *testing.T) {
	workerRepo := new(MockWorkerRepository)
	svc := NewWorkerService(workerRepo, domain.CapacityPolicy{})

	ctx := context.Background()
	workerRepo.On("GetByID", ctx, "worker-1").Return(&domain.Worker{ID: "worker-1", Active: true}, nil)

	now := time.Now()
	_, err := svc.Availability(ctx, "worker-1", now, now.AddDate(0, 0, -1), false)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_FAILED", domainErrCode(t, err))

	summary, err := svc.Availability(ctx, "worker-1", now, now.AddDate(0, 0, 7), true)
	require.NoError(t, err)
	assert.True(t, summary.EmergencyOverride)
}
