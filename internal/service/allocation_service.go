package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/maintenance-service/internal/config"
	"github.com/spec-kit/maintenance-service/internal/domain"
	"github.com/spec-kit/maintenance-service/internal/repository"
	apperrors "github.com/spec-kit/maintenance-service/pkg/util"
)

// WorkerCandidate is one assignable worker, annotated for caller display.
type WorkerCandidate struct {
	WorkerID             string                `json:"worker_id"`
	WorkerName           string                `json:"worker_name"`
	Specialization       domain.Specialization `json:"specialization"`
	AvailabilityScore    int                   `json:"availability_score"`
	Workload             int                   `json:"workload"`
	NextAvailableDate    *time.Time            `json:"next_available_date,omitempty"`
	BookedDates          []time.Time           `json:"booked_dates,omitempty"`
	PartiallyBookedDates []time.Time           `json:"partially_booked_dates,omitempty"`
}

// AllocationService ranks workers for a maintenance request by combining the
// specialization classifier, the capacity model and the availability score.
type AllocationService struct {
	workers    repository.WorkerRepository
	cache      *redis.Client
	logger     *zap.Logger
	scheduling config.SchedulingConfig
	capacity   domain.CapacityPolicy
}

// NewAllocationService constructs the service. The redis client is optional;
// without it every call recomputes from the repository.
func NewAllocationService(workers repository.WorkerRepository, cache *redis.Client, logger *zap.Logger, scheduling config.SchedulingConfig) *AllocationService {
	return &AllocationService{
		workers:    workers,
		cache:      cache,
		logger:     logger,
		scheduling: scheduling,
		capacity: domain.CapacityPolicy{
			DailyCap:     scheduling.DailyAssignmentCap,
			EmergencyCap: scheduling.EmergencyDailyCap,
		},
	}
}

// CandidatesForRequest returns assignable workers for the request sorted by
// availability score ascending (lower is better). The category is classified
// from the request text unless explicitly supplied.
func (s *AllocationService) CandidatesForRequest(ctx context.Context, request *domain.MaintenanceRequest, preferredDate time.Time, emergencyOverride bool, categoryOverride *domain.Specialization) ([]WorkerCandidate, error) {
	if cached, ok := s.cachedCandidates(ctx, request.ID, preferredDate, emergencyOverride); ok {
		return cached, nil
	}

	category := domain.ClassifySpecialization(request.Title, request.Description)
	if categoryOverride != nil {
		category = *categoryOverride
	}

	candidates, err := s.candidatePool(ctx, category)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if len(candidates) == 0 {
		return nil, apperrors.NewConflict("no active workers available", map[string]any{"specialization": category})
	}

	windowDays := s.scheduling.AllocationWindowDays
	if windowDays <= 0 {
		windowDays = 30
	}
	windowEnd := preferredDate.AddDate(0, 0, windowDays)

	ranked := make([]WorkerCandidate, 0, len(candidates))
	for i := range candidates {
		worker := &candidates[i]
		summary := domain.ComputeAvailability(worker, preferredDate, windowEnd, preferredDate, s.capacity, emergencyOverride)

		days := summary.DaysUntilAvailable(preferredDate)
		if days < 0 {
			// No free slot inside the window; rank behind everyone who has one.
			days = windowDays
		}
		ranked = append(ranked, WorkerCandidate{
			WorkerID:             worker.ID,
			WorkerName:           worker.Name,
			Specialization:       worker.Specialization,
			AvailabilityScore:    days*100 + summary.Workload,
			Workload:             summary.Workload,
			NextAvailableDate:    summary.NextAvailableDate,
			BookedDates:          summary.BookedDates,
			PartiallyBookedDates: summary.PartiallyBookedDates,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvailabilityScore < ranked[j].AvailabilityScore
	})

	s.storeCandidates(ctx, request.ID, preferredDate, emergencyOverride, ranked)
	return ranked, nil
}

// candidatePool fetches active workers in the category, widening first to
// general maintenance and then to any active worker.
func (s *AllocationService) candidatePool(ctx context.Context, category domain.Specialization) ([]domain.Worker, error) {
	active := true
	pool, err := s.workers.List(ctx, repository.WorkerFilter{Specialization: &category, Active: &active})
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 && category != domain.SpecializationGeneral {
		general := domain.SpecializationGeneral
		pool, err = s.workers.List(ctx, repository.WorkerFilter{Specialization: &general, Active: &active})
		if err != nil {
			return nil, err
		}
	}
	if len(pool) == 0 {
		pool, err = s.workers.List(ctx, repository.WorkerFilter{Active: &active})
		if err != nil {
			return nil, err
		}
	}
	return pool, nil
}

// Availability summaries depend on the emergency override, so the override is
// part of the cache key and invalidation clears both variants.
func (s *AllocationService) candidateCacheKey(requestID string, date time.Time, override bool) string {
	return fmt.Sprintf("alloc:candidates:%s:%s:%t", requestID, date.Format("2006-01-02"), override)
}

func (s *AllocationService) cachedCandidates(ctx context.Context, requestID string, date time.Time, override bool) ([]WorkerCandidate, bool) {
	if s.cache == nil || s.scheduling.CandidateCacheTTL() <= 0 {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, s.candidateCacheKey(requestID, date, override)).Bytes()
	if err != nil {
		return nil, false
	}
	var cached []WorkerCandidate
	if err := json.Unmarshal(raw, &cached); err != nil {
		return nil, false
	}
	return cached, true
}

func (s *AllocationService) storeCandidates(ctx context.Context, requestID string, date time.Time, override bool, candidates []WorkerCandidate) {
	if s.cache == nil || s.scheduling.CandidateCacheTTL() <= 0 {
		return
	}
	raw, err := json.Marshal(candidates)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, s.candidateCacheKey(requestID, date, override), raw, s.scheduling.CandidateCacheTTL()).Err(); err != nil && s.logger != nil {
		s.logger.Debug("candidate cache write failed", zap.Error(err))
	}
}

// InvalidateCandidates drops cached candidate boards for a request, e.g.
// after it has been scheduled. Keys are walked with SCAN so a large keyspace
// never blocks the server.
func (s *AllocationService) InvalidateCandidates(ctx context.Context, requestID string) {
	if s.cache == nil {
		return
	}
	pattern := fmt.Sprintf("alloc:candidates:%s:*", requestID)
	var cursor uint64
	for {
		keys, next, err := s.cache.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			if s.logger != nil {
				s.logger.Debug("candidate cache invalidation failed", zap.Error(err))
			}
			return
		}
		if len(keys) > 0 {
			if err := s.cache.Del(ctx, keys...).Err(); err != nil && s.logger != nil {
				s.logger.Debug("candidate cache invalidation failed", zap.Error(err))
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
