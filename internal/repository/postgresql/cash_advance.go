package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops-hq/hrops-backend/internal/domain/cashflow"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type cashAdvanceRepositoryImpl struct {
	db *database.DB
}

func NewCashAdvanceRepository(db *database.DB) cashflow.CashAdvanceRepository {
	return &cashAdvanceRepositoryImpl{db: db}
}

const cashAdvanceColumns = `
	ca.id, ca.employee_id, ca.amount::text, ca.purpose, ca.type,
	ca.status,
	ca.level1_status, ca.level1_reviewer_id, ca.level1_reviewed_at, ca.level1_comment,
	ca.level2_status, ca.level2_reviewer_id, ca.level2_reviewed_at, ca.level2_comment,
	ca.approved_by, ca.approved_at,
	ca.created_at, ca.updated_at,
	e.position_code
`

const cashAdvanceFrom = `
	FROM cash_advances ca
	JOIN employees e ON ca.employee_id = e.id
`

func scanCashAdvance(row pgx.Row) (cashflow.CashAdvance, error) {
	var ca cashflow.CashAdvance
	var amount string
	err := row.Scan(
		&ca.ID,
		&ca.EmployeeID,
		&amount,
		&ca.Purpose,
		&ca.Type,
		&ca.Status,
		&ca.Level1.Status,
		&ca.Level1.ReviewerID,
		&ca.Level1.ReviewedAt,
		&ca.Level1.Comment,
		&ca.Level2.Status,
		&ca.Level2.ReviewerID,
		&ca.Level2.ReviewedAt,
		&ca.Level2.Comment,
		&ca.ApprovedBy,
		&ca.ApprovedAt,
		&ca.CreatedAt,
		&ca.UpdatedAt,
		&ca.OriginatorPosition,
	)
	if err != nil {
		return cashflow.CashAdvance{}, err
	}
	ca.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return cashflow.CashAdvance{}, fmt.Errorf("failed to parse amount: %w", err)
	}
	return ca, nil
}

func (r *cashAdvanceRepositoryImpl) Create(ctx context.Context, advance cashflow.CashAdvance) (cashflow.CashAdvance, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO cash_advances (
			id, employee_id, amount, purpose, type,
			status, level1_status, level2_status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6, $7,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		advance.EmployeeID, advance.Amount.String(), advance.Purpose, advance.Type,
		advance.Status, advance.Level1.Status, advance.Level2.Status,
	).Scan(&advance.ID, &advance.CreatedAt, &advance.UpdatedAt)
	if err != nil {
		return cashflow.CashAdvance{}, err
	}
	return advance, nil
}

func (r *cashAdvanceRepositoryImpl) GetByID(ctx context.Context, id string) (cashflow.CashAdvance, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + cashAdvanceColumns + cashAdvanceFrom + ` WHERE ca.id = $1`

	advance, err := scanCashAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cashflow.CashAdvance{}, cashflow.ErrCashAdvanceNotFound
		}
		return cashflow.CashAdvance{}, err
	}
	return advance, nil
}

func (r *cashAdvanceRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (cashflow.CashAdvance, error) {
	q := r.db.GetQuerier(ctx)

	// FOR UPDATE OF ca: lock only the request row, not the joined employee.
	query := `SELECT ` + cashAdvanceColumns + cashAdvanceFrom + ` WHERE ca.id = $1 FOR UPDATE OF ca`

	advance, err := scanCashAdvance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cashflow.CashAdvance{}, cashflow.ErrCashAdvanceNotFound
		}
		return cashflow.CashAdvance{}, err
	}
	return advance, nil
}

func (r *cashAdvanceRepositoryImpl) UpdateReview(ctx context.Context, advance cashflow.CashAdvance) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE cash_advances
		SET status = $2,
			level1_status = $3, level1_reviewer_id = $4, level1_reviewed_at = $5, level1_comment = $6,
			level2_status = $7, level2_reviewer_id = $8, level2_reviewed_at = $9, level2_comment = $10,
			approved_by = $11, approved_at = $12,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		advance.ID, advance.Status,
		advance.Level1.Status, advance.Level1.ReviewerID, advance.Level1.ReviewedAt, advance.Level1.Comment,
		advance.Level2.Status, advance.Level2.ReviewerID, advance.Level2.ReviewedAt, advance.Level2.Comment,
		advance.ApprovedBy, advance.ApprovedAt,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return cashflow.ErrCashAdvanceNotFound
	}
	return nil
}

func (r *cashAdvanceRepositoryImpl) UpdateDetails(ctx context.Context, advance cashflow.CashAdvance) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE cash_advances
		SET amount = $2, purpose = $3, type = $4, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		advance.ID, advance.Amount.String(), advance.Purpose, advance.Type,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return cashflow.ErrCashAdvanceNotFound
	}
	return nil
}

func (r *cashAdvanceRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)

	commandTag, err := q.Exec(ctx, `DELETE FROM cash_advances WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return cashflow.ErrCashAdvanceNotFound
	}
	return nil
}

func (r *cashAdvanceRepositoryImpl) List(ctx context.Context, filter cashflow.ListFilter) ([]cashflow.CashAdvance, int64, error) {
	q := r.db.GetQuerier(ctx)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND ca.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if len(filter.ExcludeSensitive) > 0 {
		whereClause += fmt.Sprintf(" AND e.position_code <> ALL($%d)", argIndex)
		args = append(args, filter.ExcludeSensitive)
		argIndex++
	}

	var total int64
	countQuery := `SELECT COUNT(*) ` + cashAdvanceFrom + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + cashAdvanceColumns + cashAdvanceFrom + whereClause +
		` ORDER BY ca.created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var advances []cashflow.CashAdvance
	for rows.Next() {
		advance, err := scanCashAdvance(rows)
		if err != nil {
			return nil, 0, err
		}
		advances = append(advances, advance)
	}
	return advances, total, rows.Err()
}
