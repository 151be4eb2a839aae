package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

// WorkerService manages the maintenance worker roster.
type WorkerService struct {
	workers  repository.WorkerRepository
	capacity domain.CapacityPolicy
}

// NewWorkerService constructs the service.
func NewWorkerService(workers repository.WorkerRepository, capacity domain.CapacityPolicy) *WorkerService {
	return &WorkerService{workers: workers, capacity: capacity}
}

// WorkerCreateInput describes roster registration payload.
type WorkerCreateInput struct {
	Name           string
	Email          string
	Phone          string
	Specialization domain.Specialization
	Notes          string
}

// WorkerUpdateInput describes mutable roster fields.
type WorkerUpdateInput struct {
	Name           *string
	Email          *string
	Phone          *string
	Specialization *domain.Specialization
	Notes          *string
	Active         *bool
}

// RegisterWorker adds a worker to the roster. Specialization defaults to
// general maintenance.
func (s *WorkerService) RegisterWorker(ctx context.Context, input WorkerCreateInput) (*domain.Worker, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Email) == "" {
		return nil, apperrors.NewValidationError("name and email required", nil)
	}
	specialization := input.Specialization
	if specialization == "" {
		specialization = domain.SpecializationGeneral
	}
	worker := &domain.Worker{
		Name:           strings.TrimSpace(input.Name),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Active:         true,
		Specialization: specialization,
		Notes:          input.Notes,
	}
	if err := s.workers.Create(ctx, worker); err != nil {
		return nil, apperrors.MapError(err)
	}
	return worker, nil
}

// UpdateWorker mutates roster fields. Deactivation keeps assignment history.
func (s *WorkerService) UpdateWorker(ctx context.Context, workerID string, input WorkerUpdateInput) (*domain.Worker, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		worker.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		worker.Email = strings.TrimSpace(*input.Email)
	}
	if input.Phone != nil {
		worker.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.Specialization != nil {
		worker.Specialization = *input.Specialization
	}
	if input.Notes != nil {
		worker.Notes = *input.Notes
	}
	if input.Active != nil {
		worker.Active = *input.Active
	}
	if err := s.workers.Update(ctx, worker); err != nil {
		return nil, apperrors.MapError(err)
	}
	return worker, nil
}

// GetWorker returns the worker with assignment history.
func (s *WorkerService) GetWorker(ctx context.Context, workerID string) (*domain.Worker, error) {
	return s.getWorker(ctx, workerID)
}

// ListWorkers returns roster entries matching the filter.
func (s *WorkerService) ListWorkers(ctx context.Context, filter repository.WorkerFilter) ([]domain.Worker, error) {
	list, err := s.workers.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return list, nil
}

// Availability computes the worker's booking summary for the window. Always
// recomputed; the emergency override changes the cap, so summaries are never
// reused across override modes.
func (s *WorkerService) Availability(ctx context.Context, workerID string, windowStart, windowEnd time.Time, emergencyOverride bool) (*domain.WorkerAvailability, error) {
	worker, err := s.getWorker(ctx, workerID)
	if err != nil {
		return nil, err
	}
	if windowEnd.Before(windowStart) {
		return nil, apperrors.NewValidationError("window end before window start", nil)
	}
	return domain.ComputeAvailability(worker, windowStart, windowEnd, time.Now(), s.capacity, emergencyOverride), nil
}

func (s *WorkerService) getWorker(ctx context.Context, workerID string) (*domain.Worker, error) {
	worker, err := s.workers.GetByID(ctx, workerID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("worker", map[string]any{"worker_id": workerID})
		}
		return nil, apperrors.MapError(err)
	}
	return worker, nil
}
