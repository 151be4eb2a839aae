package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// WorkerFilter defines query params for worker listing.
type WorkerFilter struct {
	Specialization *domain.Specialization
	Active         *bool
	Limit          int
	Offset         int
}

// WorkerRepository handles persistence for workers and their assignment
// history. Loads always hydrate the full assignment list so capacity checks
// operate on complete in-memory state.
type WorkerRepository interface {
	Create(ctx context.Context, worker *domain.Worker) error
	Update(ctx context.Context, worker *domain.Worker) error
	GetByID(ctx context.Context, id string) (*domain.Worker, error)
	List(ctx context.Context, filter WorkerFilter) ([]domain.Worker, error)
	SaveAssignments(ctx context.Context, worker *domain.Worker) error
}

type workerRepository struct {
	pool *pgxpool.Pool
}

// NewWorkerRepository instantiates the repository.
func NewWorkerRepository(pool *pgxpool.Pool) WorkerRepository {
	return &workerRepository{pool: pool}
}

func (r *workerRepository) Create(ctx context.Context, worker *domain.Worker) error {
	const query = `
        INSERT INTO workers (name, email, phone, active_flag, specialization, notes)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		worker.Name,
		worker.Email,
		worker.Phone,
		worker.Active,
		worker.Specialization,
		worker.Notes,
	).Scan(&worker.ID, &worker.CreatedAt, &worker.UpdatedAt)
}

func (r *workerRepository) Update(ctx context.Context, worker *domain.Worker) error {
	const query = `
        UPDATE workers
        SET name=$1, email=$2, phone=$3, active_flag=$4, specialization=$5, notes=$6, updated_at=NOW()
        WHERE id=$7`
	cmd, err := r.pool.Exec(ctx, query,
		worker.Name,
		worker.Email,
		worker.Phone,
		worker.Active,
		worker.Specialization,
		worker.Notes,
		worker.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *workerRepository) GetByID(ctx context.Context, id string) (*domain.Worker, error) {
	const query = `
        SELECT id, name, email, phone, active_flag, specialization, notes, created_at, updated_at
        FROM workers WHERE id=$1`
	var worker domain.Worker
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&worker.ID,
		&worker.Name,
		&worker.Email,
		&worker.Phone,
		&worker.Active,
		&worker.Specialization,
		&worker.Notes,
		&worker.CreatedAt,
		&worker.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := r.loadAssignments(ctx, &worker); err != nil {
		return nil, err
	}
	return &worker, nil
}

func (r *workerRepository) List(ctx context.Context, filter WorkerFilter) ([]domain.Worker, error) {
	base := `SELECT id, name, email, phone, active_flag, specialization, notes, created_at, updated_at
             FROM workers`
	clauses := []string{"1=1"}
	args := []any{}

	if filter.Specialization != nil {
		args = append(args, *filter.Specialization)
		clauses = append(clauses, fmt.Sprintf("specialization=$%d", len(args)))
	}
	if filter.Active != nil {
		args = append(args, *filter.Active)
		clauses = append(clauses, fmt.Sprintf("active_flag=$%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY created_at ASC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var workers []domain.Worker
	for rows.Next() {
		var worker domain.Worker
		if err := rows.Scan(
			&worker.ID,
			&worker.Name,
			&worker.Email,
			&worker.Phone,
			&worker.Active,
			&worker.Specialization,
			&worker.Notes,
			&worker.CreatedAt,
			&worker.UpdatedAt,
		); err != nil {
			return nil, err
		}
		workers = append(workers, worker)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range workers {
		if err := r.loadAssignments(ctx, &workers[i]); err != nil {
			return nil, err
		}
	}
	return workers, nil
}

// SaveAssignments upserts the worker's assignment rows. Assignments are an
// append-and-mutate-once audit trail, so rows are never deleted here.
func (r *workerRepository) SaveAssignments(ctx context.Context, worker *domain.Worker) error {
	const query = `
        INSERT INTO work_assignments (worker_id, work_order_no, request_id, scheduled_date, assigned_at, notes,
            completed, completion_success, completion_notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        ON CONFLICT (worker_id, work_order_no) DO UPDATE
        SET completed=EXCLUDED.completed,
            completion_success=EXCLUDED.completion_success,
            completion_notes=EXCLUDED.completion_notes`
	for _, a := range worker.Assignments {
		if _, err := r.pool.Exec(ctx, query,
			worker.ID,
			a.WorkOrderNo,
			a.RequestID,
			a.ScheduledDate,
			a.AssignedAt,
			a.Notes,
			a.Completed,
			a.CompletionSuccess,
			a.CompletionNotes,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *workerRepository) loadAssignments(ctx context.Context, worker *domain.Worker) error {
	const query = `
        SELECT work_order_no, request_id, scheduled_date, assigned_at, notes,
               completed, completion_success, completion_notes
        FROM work_assignments WHERE worker_id=$1 ORDER BY assigned_at ASC`
	rows, err := r.pool.Query(ctx, query, worker.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	worker.Assignments = nil
	for rows.Next() {
		var a domain.WorkAssignment
		if err := rows.Scan(
			&a.WorkOrderNo,
			&a.RequestID,
			&a.ScheduledDate,
			&a.AssignedAt,
			&a.Notes,
			&a.Completed,
			&a.CompletionSuccess,
			&a.CompletionNotes,
		); err != nil {
			return err
		}
		worker.Assignments = append(worker.Assignments, a)
	}
	return rows.Err()
}
