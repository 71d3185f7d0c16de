package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fieldops-hq/hrops-backend/internal/domain/leave"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `
	id, employee_id, leave_type, start_date, end_date, duration_days,
	reason, status, reviewer_id, reviewed_at, reviewer_comment,
	created_at, updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.Type,
		&lr.StartDate,
		&lr.EndDate,
		&lr.DurationDays,
		&lr.Reason,
		&lr.Status,
		&lr.ReviewerID,
		&lr.ReviewedAt,
		&lr.ReviewerComment,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	return lr, err
}

func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type,
			start_date, end_date, duration_days,
			reason, status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2,
			$3, $4, $5,
			$6, $7,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.Type,
		request.StartDate, request.EndDate, request.DurationDays,
		request.Reason, request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1 FOR UPDATE`

	request, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return request, nil
}

func (r *leaveRequestRepositoryImpl) UpdateReview(ctx context.Context, request leave.LeaveRequest) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE leave_requests
		SET status = $2, reviewer_id = $3, reviewed_at = $4, reviewer_comment = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		request.ID, request.Status, request.ReviewerID, request.ReviewedAt, request.ReviewerComment,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

func (r *leaveRequestRepositoryImpl) HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error) {
	q := r.db.GetQuerier(ctx)

	// Inclusive ranges on both sides: [start_date, end_date] intersects
	// [start, end].
	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE employee_id = $1
			  AND status = $2
			  AND start_date <= $4
			  AND end_date >= $3
		)
	`

	var overlaps bool
	err := q.QueryRow(ctx, query, employeeID, leave.StatusApproved, start, end).Scan(&overlaps)
	if err != nil {
		return false, err
	}
	return overlaps, nil
}

func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	q := r.db.GetQuerier(ctx)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.Status != nil {
		whereClause += fmt.Sprintf(" AND status = $%d", argIndex)
		args = append(args, *filter.Status)
		argIndex++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM leave_requests ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests ` + whereClause +
		` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		request, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}
	return requests, total, rows.Err()
}
