package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops-hq/hrops-backend/internal/domain/overtime"
	"github.com/fieldops-hq/hrops-backend/internal/domain/review"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type overtimeRepositoryImpl struct {
	db *database.DB
}

func NewOvertimeRepository(db *database.DB) overtime.OvertimeRepository {
	return &overtimeRepositoryImpl{db: db}
}

const overtimeColumns = `
	id, employee_id, work_date, start_time, end_time, duration_minutes, reason,
	level1_status, level1_reviewer_id, level1_reviewed_at, level1_comment,
	level2_status, level2_reviewer_id, level2_reviewed_at, level2_comment,
	final_status, created_at, updated_at
`

func scanOvertime(row pgx.Row) (overtime.OvertimeRequest, error) {
	var ot overtime.OvertimeRequest
	err := row.Scan(
		&ot.ID,
		&ot.EmployeeID,
		&ot.WorkDate,
		&ot.StartTime,
		&ot.EndTime,
		&ot.DurationMinutes,
		&ot.Reason,
		&ot.Level1.Status,
		&ot.Level1.ReviewerID,
		&ot.Level1.ReviewedAt,
		&ot.Level1.Comment,
		&ot.Level2.Status,
		&ot.Level2.ReviewerID,
		&ot.Level2.ReviewedAt,
		&ot.Level2.Comment,
		&ot.FinalStatus,
		&ot.CreatedAt,
		&ot.UpdatedAt,
	)
	return ot, err
}

func (r *overtimeRepositoryImpl) Create(ctx context.Context, request overtime.OvertimeRequest) (overtime.OvertimeRequest, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO overtime_requests (
			id, employee_id, work_date, start_time, end_time, duration_minutes, reason,
			level1_status, level1_reviewer_id, level1_reviewed_at, level1_comment,
			level2_status, level2_reviewer_id, level2_reviewed_at, level2_comment,
			final_status, created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, $6,
			$7, $8, $9, $10,
			$11, $12, $13, $14,
			$15, NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID, request.WorkDate, request.StartTime, request.EndTime,
		request.DurationMinutes, request.Reason,
		request.Level1.Status, request.Level1.ReviewerID, request.Level1.ReviewedAt, request.Level1.Comment,
		request.Level2.Status, request.Level2.ReviewerID, request.Level2.ReviewedAt, request.Level2.Comment,
		request.FinalStatus,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return overtime.OvertimeRequest{}, err
	}
	return request, nil
}

func (r *overtimeRepositoryImpl) GetByID(ctx context.Context, id string) (overtime.OvertimeRequest, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + overtimeColumns + ` FROM overtime_requests WHERE id = $1`

	request, err := scanOvertime(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OvertimeRequest{}, overtime.ErrOvertimeNotFound
		}
		return overtime.OvertimeRequest{}, err
	}
	return request, nil
}

func (r *overtimeRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (overtime.OvertimeRequest, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + overtimeColumns + ` FROM overtime_requests WHERE id = $1 FOR UPDATE`

	request, err := scanOvertime(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return overtime.OvertimeRequest{}, overtime.ErrOvertimeNotFound
		}
		return overtime.OvertimeRequest{}, err
	}
	return request, nil
}

func (r *overtimeRepositoryImpl) UpdateReview(ctx context.Context, request overtime.OvertimeRequest) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE overtime_requests
		SET level1_status = $2, level1_reviewer_id = $3, level1_reviewed_at = $4, level1_comment = $5,
			level2_status = $6, level2_reviewer_id = $7, level2_reviewed_at = $8, level2_comment = $9,
			final_status = $10, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		request.ID,
		request.Level1.Status, request.Level1.ReviewerID, request.Level1.ReviewedAt, request.Level1.Comment,
		request.Level2.Status, request.Level2.ReviewerID, request.Level2.ReviewedAt, request.Level2.Comment,
		request.FinalStatus,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

func (r *overtimeRepositoryImpl) UpdateTimes(ctx context.Context, request overtime.OvertimeRequest) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE overtime_requests
		SET work_date = $2, start_time = $3, end_time = $4, duration_minutes = $5,
			reason = $6, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		request.ID, request.WorkDate, request.StartTime, request.EndTime,
		request.DurationMinutes, request.Reason,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

func (r *overtimeRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)

	commandTag, err := q.Exec(ctx, `DELETE FROM overtime_requests WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return overtime.ErrOvertimeNotFound
	}
	return nil
}

func (r *overtimeRepositoryImpl) HasActiveForDate(ctx context.Context, employeeID, workDate string) (bool, error) {
	q := r.db.GetQuerier(ctx)

	// A rejected request frees the date for a new submission; anything
	// pending or approved blocks it.
	query := `
		SELECT EXISTS (
			SELECT 1 FROM overtime_requests
			WHERE employee_id = $1 AND work_date = $2 AND final_status <> $3
		)
	`

	var active bool
	err := q.QueryRow(ctx, query, employeeID, workDate, review.StatusRejected).Scan(&active)
	if err != nil {
		return false, err
	}
	return active, nil
}

func (r *overtimeRepositoryImpl) List(ctx context.Context, filter overtime.ListFilter) ([]overtime.OvertimeRequest, int64, error) {
	q := r.db.GetQuerier(ctx)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if filter.WorkDate != nil {
		whereClause += fmt.Sprintf(" AND work_date = $%d", argIndex)
		args = append(args, *filter.WorkDate)
		argIndex++
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM overtime_requests ` + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + overtimeColumns + ` FROM overtime_requests ` + whereClause +
		` ORDER BY work_date DESC, created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var requests []overtime.OvertimeRequest
	for rows.Next() {
		request, err := scanOvertime(rows)
		if err != nil {
			return nil, 0, err
		}
		requests = append(requests, request)
	}
	return requests, total, rows.Err()
}
