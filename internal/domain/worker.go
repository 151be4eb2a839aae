package domain

import (
	"errors"
	"fmt"
	"time"
)

// Worker is the aggregate for maintenance staff who carry out scheduled work.
// Assignments accrue only while the worker is active; deactivation keeps the
// history intact.
type Worker struct {
	ID             string
	Name           string
	Email          string
	Phone          string
	Active         bool
	Specialization Specialization
	Notes          string
	Assignments    []WorkAssignment
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkAssignment records one booking of a worker against a maintenance
// request. Created on scheduling, mutated once when work is reported complete,
// never deleted.
type WorkAssignment struct {
	WorkOrderNo       string
	RequestID         string
	ScheduledDate     time.Time
	AssignedAt        time.Time
	Notes             string
	Completed         bool
	CompletionSuccess *bool
	CompletionNotes   string
}

// CapacityExceededError reports a booking that would exceed the daily cap.
type CapacityExceededError struct {
	WorkerID string
	Date     time.Time
	Cap      int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("worker %s fully booked on %s (cap %d)", e.WorkerID, e.Date.Format("2006-01-02"), e.Cap)
}

var (
	// ErrWorkerInactive rejects bookings against deactivated workers.
	ErrWorkerInactive = errors.New("worker is not active")
	// ErrDuplicateWorkOrder rejects a work-order number already on the books.
	ErrDuplicateWorkOrder = errors.New("work order number already assigned")
	// ErrAssignmentCompleted marks a work order whose outcome is already recorded.
	ErrAssignmentCompleted = errors.New("work order already completed")
)

// AssignWork books the worker for the given date, enforcing the daily cap.
// The emergency override frees the extra slot; it is caller-supplied per call,
// never stored on the worker.
func (w *Worker) AssignWork(workOrderNo, requestID string, scheduledDate time.Time, notes string, policy CapacityPolicy, emergencyOverride bool, now time.Time) error {
	if !w.Active {
		return ErrWorkerInactive
	}
	for _, existing := range w.Assignments {
		if existing.WorkOrderNo == workOrderNo {
			return ErrDuplicateWorkOrder
		}
	}

	cap := policy.CapFor(emergencyOverride)
	day := truncateToDay(scheduledDate)
	if w.assignmentsOnDate(day) >= cap {
		return &CapacityExceededError{WorkerID: w.ID, Date: day, Cap: cap}
	}

	w.Assignments = append(w.Assignments, WorkAssignment{
		WorkOrderNo:   workOrderNo,
		RequestID:     requestID,
		ScheduledDate: scheduledDate,
		AssignedAt:    now,
		Notes:         notes,
	})
	return nil
}

// CompleteAssignment records the outcome of a booked work order.
func (w *Worker) CompleteAssignment(workOrderNo string, success bool, notes string) error {
	for i := range w.Assignments {
		if w.Assignments[i].WorkOrderNo != workOrderNo {
			continue
		}
		if w.Assignments[i].Completed {
			return fmt.Errorf("work order %s: %w", workOrderNo, ErrAssignmentCompleted)
		}
		w.Assignments[i].Completed = true
		w.Assignments[i].CompletionSuccess = &success
		w.Assignments[i].CompletionNotes = notes
		return nil
	}
	return fmt.Errorf("work order %s not found", workOrderNo)
}

// Workload counts assignments not yet completed.
func (w *Worker) Workload() int {
	count := 0
	for _, a := range w.Assignments {
		if !a.Completed {
			count++
		}
	}
	return count
}

func (w *Worker) assignmentsOnDate(day time.Time) int {
	count := 0
	for _, a := range w.Assignments {
		if a.Completed {
			continue
		}
		if truncateToDay(a.ScheduledDate).Equal(day) {
			count++
		}
	}
	return count
}
