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

type liquidationRepositoryImpl struct {
	db *database.DB
}

func NewLiquidationRepository(db *database.DB) cashflow.LiquidationRepository {
	return &liquidationRepositoryImpl{db: db}
}

const liquidationColumns = `
	l.id, l.cash_advance_id, l.employee_id, l.remarks,
	l.total_amount::text, l.return_to_company::text, l.reimbursement::text,
	l.status,
	l.level1_status, l.level1_reviewer_id, l.level1_reviewed_at, l.level1_comment,
	l.level2_status, l.level2_reviewer_id, l.level2_reviewed_at, l.level2_comment,
	l.approved_by, l.approved_at,
	l.created_at, l.updated_at,
	e.position_code
`

const liquidationFrom = `
	FROM liquidations l
	JOIN employees e ON l.employee_id = e.id
`

func scanLiquidation(row pgx.Row) (cashflow.Liquidation, error) {
	var lq cashflow.Liquidation
	var total, ret, reimb string
	err := row.Scan(
		&lq.ID,
		&lq.CashAdvanceID,
		&lq.EmployeeID,
		&lq.Remarks,
		&total,
		&ret,
		&reimb,
		&lq.Status,
		&lq.Level1.Status,
		&lq.Level1.ReviewerID,
		&lq.Level1.ReviewedAt,
		&lq.Level1.Comment,
		&lq.Level2.Status,
		&lq.Level2.ReviewerID,
		&lq.Level2.ReviewedAt,
		&lq.Level2.Comment,
		&lq.ApprovedBy,
		&lq.ApprovedAt,
		&lq.CreatedAt,
		&lq.UpdatedAt,
		&lq.OriginatorPosition,
	)
	if err != nil {
		return cashflow.Liquidation{}, err
	}
	if lq.TotalAmount, err = decimal.NewFromString(total); err != nil {
		return cashflow.Liquidation{}, fmt.Errorf("failed to parse total amount: %w", err)
	}
	if lq.ReturnToCompany, err = decimal.NewFromString(ret); err != nil {
		return cashflow.Liquidation{}, fmt.Errorf("failed to parse return amount: %w", err)
	}
	if lq.Reimbursement, err = decimal.NewFromString(reimb); err != nil {
		return cashflow.Liquidation{}, fmt.Errorf("failed to parse reimbursement: %w", err)
	}
	return lq, nil
}

func (r *liquidationRepositoryImpl) insertItems(ctx context.Context, liquidationID string, items []cashflow.LiquidationItem) ([]cashflow.LiquidationItem, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO liquidation_items (id, liquidation_id, category, description, amount)
		VALUES (uuidv7(), $1, $2, $3, $4)
		RETURNING id
	`

	inserted := make([]cashflow.LiquidationItem, 0, len(items))
	for _, item := range items {
		item.LiquidationID = liquidationID
		err := q.QueryRow(ctx, query, liquidationID, item.Category, item.Description, item.Amount.String()).Scan(&item.ID)
		if err != nil {
			return nil, err
		}
		inserted = append(inserted, item)
	}
	return inserted, nil
}

func (r *liquidationRepositoryImpl) loadItems(ctx context.Context, liquidationID string) ([]cashflow.LiquidationItem, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT id, liquidation_id, category, description, amount::text
		FROM liquidation_items
		WHERE liquidation_id = $1
		ORDER BY id
	`

	rows, err := q.Query(ctx, query, liquidationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []cashflow.LiquidationItem
	for rows.Next() {
		var item cashflow.LiquidationItem
		var amount string
		if err := rows.Scan(&item.ID, &item.LiquidationID, &item.Category, &item.Description, &amount); err != nil {
			return nil, err
		}
		if item.Amount, err = decimal.NewFromString(amount); err != nil {
			return nil, fmt.Errorf("failed to parse item amount: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *liquidationRepositoryImpl) loadAttachments(ctx context.Context, liquidationID string) ([]cashflow.Attachment, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT id, liquidation_id, file_name, storage_key, content_type, size_bytes, created_at
		FROM liquidation_attachments
		WHERE liquidation_id = $1
		ORDER BY created_at
	`

	rows, err := q.Query(ctx, query, liquidationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []cashflow.Attachment
	for rows.Next() {
		var a cashflow.Attachment
		if err := rows.Scan(&a.ID, &a.LiquidationID, &a.FileName, &a.StorageKey, &a.ContentType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, a)
	}
	return attachments, rows.Err()
}

func (r *liquidationRepositoryImpl) Create(ctx context.Context, liquidation cashflow.Liquidation) (cashflow.Liquidation, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO liquidations (
			id, cash_advance_id, employee_id, remarks,
			total_amount, return_to_company, reimbursement,
			status, level1_status, level2_status,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3,
			$4, $5, $6,
			$7, $8, $9,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	items := liquidation.Items
	err := q.QueryRow(ctx, query,
		liquidation.CashAdvanceID, liquidation.EmployeeID, liquidation.Remarks,
		liquidation.TotalAmount.String(), liquidation.ReturnToCompany.String(), liquidation.Reimbursement.String(),
		liquidation.Status, liquidation.Level1.Status, liquidation.Level2.Status,
	).Scan(&liquidation.ID, &liquidation.CreatedAt, &liquidation.UpdatedAt)
	if err != nil {
		return cashflow.Liquidation{}, err
	}

	liquidation.Items, err = r.insertItems(ctx, liquidation.ID, items)
	if err != nil {
		return cashflow.Liquidation{}, err
	}
	return liquidation, nil
}

func (r *liquidationRepositoryImpl) getByID(ctx context.Context, id string, forUpdate bool) (cashflow.Liquidation, error) {
	q := r.db.GetQuerier(ctx)

	query := `SELECT ` + liquidationColumns + liquidationFrom + ` WHERE l.id = $1`
	if forUpdate {
		query += ` FOR UPDATE OF l`
	}

	liquidation, err := scanLiquidation(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cashflow.Liquidation{}, cashflow.ErrLiquidationNotFound
		}
		return cashflow.Liquidation{}, err
	}

	if liquidation.Items, err = r.loadItems(ctx, id); err != nil {
		return cashflow.Liquidation{}, err
	}
	if liquidation.Attachments, err = r.loadAttachments(ctx, id); err != nil {
		return cashflow.Liquidation{}, err
	}
	return liquidation, nil
}

func (r *liquidationRepositoryImpl) GetByID(ctx context.Context, id string) (cashflow.Liquidation, error) {
	return r.getByID(ctx, id, false)
}

func (r *liquidationRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (cashflow.Liquidation, error) {
	return r.getByID(ctx, id, true)
}

func (r *liquidationRepositoryImpl) UpdateReview(ctx context.Context, liquidation cashflow.Liquidation) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE liquidations
		SET status = $2,
			level1_status = $3, level1_reviewer_id = $4, level1_reviewed_at = $5, level1_comment = $6,
			level2_status = $7, level2_reviewer_id = $8, level2_reviewed_at = $9, level2_comment = $10,
			approved_by = $11, approved_at = $12,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		liquidation.ID, liquidation.Status,
		liquidation.Level1.Status, liquidation.Level1.ReviewerID, liquidation.Level1.ReviewedAt, liquidation.Level1.Comment,
		liquidation.Level2.Status, liquidation.Level2.ReviewerID, liquidation.Level2.ReviewedAt, liquidation.Level2.Comment,
		liquidation.ApprovedBy, liquidation.ApprovedAt,
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return cashflow.ErrLiquidationNotFound
	}
	return nil
}

// ReplaceItems drops every existing expense line and inserts the new set,
// then rewrites the stored totals. Runs inside the caller's transaction.
func (r *liquidationRepositoryImpl) ReplaceItems(ctx context.Context, liquidation cashflow.Liquidation, items []cashflow.LiquidationItem) error {
	q := r.db.GetQuerier(ctx)

	if _, err := q.Exec(ctx, `DELETE FROM liquidation_items WHERE liquidation_id = $1`, liquidation.ID); err != nil {
		return err
	}
	if _, err := r.insertItems(ctx, liquidation.ID, items); err != nil {
		return err
	}

	query := `
		UPDATE liquidations
		SET remarks = $2, total_amount = $3, return_to_company = $4, reimbursement = $5,
			updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query,
		liquidation.ID, liquidation.Remarks,
		liquidation.TotalAmount.String(), liquidation.ReturnToCompany.String(), liquidation.Reimbursement.String(),
	)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return cashflow.ErrLiquidationNotFound
	}
	return nil
}

func (r *liquidationRepositoryImpl) List(ctx context.Context, filter cashflow.ListFilter) ([]cashflow.Liquidation, int64, error) {
	q := r.db.GetQuerier(ctx)

	whereClause := "WHERE 1=1"
	args := []interface{}{}
	argIndex := 1

	if filter.EmployeeID != nil {
		whereClause += fmt.Sprintf(" AND l.employee_id = $%d", argIndex)
		args = append(args, *filter.EmployeeID)
		argIndex++
	}
	if len(filter.ExcludeSensitive) > 0 {
		whereClause += fmt.Sprintf(" AND e.position_code <> ALL($%d)", argIndex)
		args = append(args, filter.ExcludeSensitive)
		argIndex++
	}

	var total int64
	countQuery := `SELECT COUNT(*) ` + liquidationFrom + whereClause
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + liquidationColumns + liquidationFrom + whereClause +
		` ORDER BY l.created_at DESC`
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.Limit, filter.Offset)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var liquidations []cashflow.Liquidation
	for rows.Next() {
		liquidation, err := scanLiquidation(rows)
		if err != nil {
			return nil, 0, err
		}
		liquidations = append(liquidations, liquidation)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// Expense lines are loaded per row; list pages are small enough that the
	// extra round trips do not matter.
	for i := range liquidations {
		if liquidations[i].Items, err = r.loadItems(ctx, liquidations[i].ID); err != nil {
			return nil, 0, err
		}
	}
	return liquidations, total, nil
}

func (r *liquidationRepositoryImpl) AddAttachment(ctx context.Context, attachment cashflow.Attachment) (cashflow.Attachment, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		INSERT INTO liquidation_attachments (
			id, liquidation_id, file_name, storage_key, content_type, size_bytes, created_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4, $5, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		attachment.LiquidationID, attachment.FileName, attachment.StorageKey,
		attachment.ContentType, attachment.SizeBytes,
	).Scan(&attachment.ID, &attachment.CreatedAt)
	if err != nil {
		return cashflow.Attachment{}, err
	}
	return attachment, nil
}

func (r *liquidationRepositoryImpl) GetAttachment(ctx context.Context, id string) (cashflow.Attachment, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT id, liquidation_id, file_name, storage_key, content_type, size_bytes, created_at
		FROM liquidation_attachments
		WHERE id = $1
	`

	var a cashflow.Attachment
	err := q.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.LiquidationID, &a.FileName, &a.StorageKey, &a.ContentType, &a.SizeBytes, &a.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return cashflow.Attachment{}, cashflow.ErrAttachmentNotFound
		}
		return cashflow.Attachment{}, err
	}
	return a, nil
}

func (r *liquidationRepositoryImpl) DeleteAttachment(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)

	commandTag, err := q.Exec(ctx, `DELETE FROM liquidation_attachments WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return cashflow.ErrAttachmentNotFound
	}
	return nil
}
