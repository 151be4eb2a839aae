package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/maintenance-service/internal/domain"
)

// RequestFilter captures listing parameters for maintenance requests.
type RequestFilter struct {
	TenantID         *string
	PropertyID       *string
	AssignedWorkerID *string
	Statuses         []domain.RequestStatus
	Urgencies        []domain.UrgencyLevel
	SearchTerm       *string
	SubmittedBefore  *time.Time
	CreatedFrom      *time.Time
	CreatedTo        *time.Time
	Limit            int
	Offset           int
}

// RequestRepository encapsulates maintenance request persistence.
type RequestRepository interface {
	Create(ctx context.Context, request *domain.MaintenanceRequest) error
	Update(ctx context.Context, request *domain.MaintenanceRequest) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.MaintenanceRequest, error)
	GetByCode(ctx context.Context, code string) (*domain.MaintenanceRequest, error)
	ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.MaintenanceRequest, error)
}

type requestRepository struct {
	pool *pgxpool.Pool
}

// NewRequestRepository instantiates repository.
func NewRequestRepository(pool *pgxpool.Pool) RequestRepository {
	return &requestRepository{pool: pool}
}

const requestColumns = `id, code, tenant_id, property_id, title, description, urgency, status,
       tenant_name, tenant_email, tenant_unit, property_name, property_phone,
       superintendent_name, superintendent_email,
       scheduled_date, assigned_worker_id, work_order_no,
       completed_date, completion_success, completion_notes, closure_notes,
       submitted_at, created_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, request *domain.MaintenanceRequest) error {
	const query = `
        INSERT INTO maintenance_requests (code, tenant_id, property_id, title, description, urgency, status,
            tenant_name, tenant_email, tenant_unit, property_name, property_phone,
            superintendent_name, superintendent_email)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		request.Code,
		request.TenantID,
		request.PropertyID,
		request.Title,
		request.Description,
		request.Urgency,
		request.Status,
		request.TenantName,
		request.TenantEmail,
		request.TenantUnit,
		request.PropertyName,
		request.PropertyPhone,
		request.SuperintendentName,
		request.SuperintendentEmail,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
}

func (r *requestRepository) Update(ctx context.Context, request *domain.MaintenanceRequest) error {
	const query = `
        UPDATE maintenance_requests SET title=$1, description=$2, urgency=$3, status=$4,
            scheduled_date=$5, assigned_worker_id=$6, work_order_no=$7,
            completed_date=$8, completion_success=$9, completion_notes=$10, closure_notes=$11,
            submitted_at=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		request.Title,
		request.Description,
		request.Urgency,
		request.Status,
		request.ScheduledDate,
		request.AssignedWorkerID,
		request.WorkOrderNo,
		request.CompletedDate,
		request.CompletionSuccess,
		request.CompletionNotes,
		request.ClosureNotes,
		request.SubmittedAt,
		request.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM maintenance_requests WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.MaintenanceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM maintenance_requests WHERE id=$1`, requestColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *requestRepository) GetByCode(ctx context.Context, code string) (*domain.MaintenanceRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM maintenance_requests WHERE code=$1`, requestColumns)
	return r.fetchSingle(ctx, query, code)
}

func (r *requestRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.MaintenanceRequest, error) {
	var request domain.MaintenanceRequest
	if err := scanRequest(r.pool.QueryRow(ctx, query, arg), &request); err != nil {
		return nil, err
	}
	return &request, nil
}

func (r *requestRepository) ListWithFilter(ctx context.Context, filter RequestFilter) ([]domain.MaintenanceRequest, error) {
	base := fmt.Sprintf(`SELECT %s FROM maintenance_requests`, requestColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if filter.TenantID != nil {
		args = append(args, *filter.TenantID)
		clauses = append(clauses, fmt.Sprintf("tenant_id=$%d", len(args)))
	}
	if filter.PropertyID != nil {
		args = append(args, *filter.PropertyID)
		clauses = append(clauses, fmt.Sprintf("property_id=$%d", len(args)))
	}
	if filter.AssignedWorkerID != nil {
		args = append(args, *filter.AssignedWorkerID)
		clauses = append(clauses, fmt.Sprintf("assigned_worker_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Urgencies) > 0 {
		placeholders := make([]string, len(filter.Urgencies))
		for i, urgency := range filter.Urgencies {
			args = append(args, urgency)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("urgency IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.SubmittedBefore != nil {
		args = append(args, *filter.SubmittedBefore)
		clauses = append(clauses, fmt.Sprintf("submitted_at <= $%d", len(args)))
	}
	if filter.CreatedFrom != nil {
		args = append(args, *filter.CreatedFrom)
		clauses = append(clauses, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if filter.CreatedTo != nil {
		args = append(args, *filter.CreatedTo)
		clauses = append(clauses, fmt.Sprintf("created_at <= $%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(title) LIKE %s OR LOWER(description) LIKE %s)", placeholder, placeholder))
	}

	// Limit <= 0 returns the full match set; queue ranking needs every row.
	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC`,
		base, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.MaintenanceRequest
	for rows.Next() {
		var request domain.MaintenanceRequest
		if err := scanRequest(rows, &request); err != nil {
			return nil, err
		}
		result = append(result, request)
	}
	return result, rows.Err()
}

func scanRequest(row pgx.Row, request *domain.MaintenanceRequest) error {
	return row.Scan(
		&request.ID,
		&request.Code,
		&request.TenantID,
		&request.PropertyID,
		&request.Title,
		&request.Description,
		&request.Urgency,
		&request.Status,
		&request.TenantName,
		&request.TenantEmail,
		&request.TenantUnit,
		&request.PropertyName,
		&request.PropertyPhone,
		&request.SuperintendentName,
		&request.SuperintendentEmail,
		&request.ScheduledDate,
		&request.AssignedWorkerID,
		&request.WorkOrderNo,
		&request.CompletedDate,
		&request.CompletionSuccess,
		&request.CompletionNotes,
		&request.ClosureNotes,
		&request.SubmittedAt,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
}
