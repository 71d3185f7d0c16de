package cashflow

import (
	"context"
	"fmt"

	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/cashflow"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/domain/review"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/storage"
	"github.com/shopspring/decimal"
)

type LiquidationService struct {
	tx           database.TxManager
	liquidations cashflow.LiquidationRepository
	advances     cashflow.CashAdvanceRepository
	employees    employee.EmployeeRepository
	files        storage.FileStorage
	authorizer   *authz.Authorizer
	clock        clock.Clock
}

func NewLiquidationService(
	tx database.TxManager,
	liquidations cashflow.LiquidationRepository,
	advances cashflow.CashAdvanceRepository,
	employees employee.EmployeeRepository,
	files storage.FileStorage,
	authorizer *authz.Authorizer,
	clk clock.Clock,
) *LiquidationService {
	return &LiquidationService{
		tx:           tx,
		liquidations: liquidations,
		advances:     advances,
		employees:    employees,
		files:        files,
		authorizer:   authorizer,
		clock:        clk,
	}
}

func parseItems(inputs []cashflow.ItemInput) ([]cashflow.LiquidationItem, error) {
	items := make([]cashflow.LiquidationItem, 0, len(inputs))
	for _, input := range inputs {
		amount, err := decimal.NewFromString(input.Amount)
		if err != nil {
			return nil, fmt.Errorf("failed to parse item amount: %w", err)
		}
		items = append(items, cashflow.LiquidationItem{
			Category:    input.Category,
			Description: input.Description,
			Amount:      amount,
		})
	}
	return items, nil
}

// Submit files the expense reconciliation of an approved cash advance.
func (s *LiquidationService) Submit(ctx context.Context, req cashflow.SubmitLiquidationRequest) (cashflow.Liquidation, error) {
	if err := req.Validate(); err != nil {
		return cashflow.Liquidation{}, err
	}

	advance, err := s.advances.GetByID(ctx, req.CashAdvanceID)
	if err != nil {
		return cashflow.Liquidation{}, err
	}
	if advance.EmployeeID != req.EmployeeID {
		return cashflow.Liquidation{}, authz.ErrForbidden
	}
	if advance.Status != review.StatusApproved {
		return cashflow.Liquidation{}, cashflow.ErrAdvanceNotApproved
	}

	items, err := parseItems(req.Items)
	if err != nil {
		return cashflow.Liquidation{}, err
	}

	total := cashflow.SumItems(items)
	returnToCompany, reimbursement := cashflow.Reconcile(advance.Amount, total)

	liquidation := cashflow.Liquidation{
		CashAdvanceID:   req.CashAdvanceID,
		EmployeeID:      req.EmployeeID,
		Remarks:         req.Remarks,
		TotalAmount:     total,
		ReturnToCompany: returnToCompany,
		Reimbursement:   reimbursement,
		Status:          review.StatusPending,
		Level1:          review.NewPending(),
		Level2:          review.NewPending(),
		Items:           items,
	}

	created, err := s.liquidations.Create(ctx, liquidation)
	if err != nil {
		return cashflow.Liquidation{}, fmt.Errorf("failed to create liquidation: %w", err)
	}
	return created, nil
}

func (s *LiquidationService) Review(ctx context.Context, req cashflow.ReviewRequest) (cashflow.Liquidation, error) {
	if err := req.Validate(); err != nil {
		return cashflow.Liquidation{}, err
	}
	if err := s.authorizer.Can(ctx, req.ReviewerID, authz.CapManageLiquidation); err != nil {
		return cashflow.Liquidation{}, err
	}

	var updated cashflow.Liquidation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		liquidation, err := s.liquidations.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}

		target := &liquidation.Level1
		if req.Level == 2 {
			target = &liquidation.Level2
		}
		if !target.IsPending() {
			return cashflow.ErrAlreadyReviewed
		}

		now := s.clock.Now()
		if req.Decision == cashflow.DecisionApprove {
			*target = review.Approved(req.ReviewerID, now, req.Comment)
		} else {
			*target = review.Rejected(req.ReviewerID, now, req.Comment)
		}

		liquidation.Status = review.FinalStatus(liquidation.Level1, liquidation.Level2)
		if liquidation.Status == review.StatusApproved {
			liquidation.ApprovedBy = &req.ReviewerID
			liquidation.ApprovedAt = &now
		}

		if err := s.liquidations.UpdateReview(ctx, liquidation); err != nil {
			return fmt.Errorf("failed to update liquidation: %w", err)
		}
		updated = liquidation
		return nil
	})
	if err != nil {
		return cashflow.Liquidation{}, err
	}
	return updated, nil
}

// EditItems replaces the full expense line set and removes the named
// attachments. Blob deletes happen before the metadata rows go away, so a
// failed blob delete aborts the edit rather than leaving orphan metadata.
func (s *LiquidationService) EditItems(ctx context.Context, req cashflow.EditItemsRequest) (cashflow.Liquidation, error) {
	if err := req.Validate(); err != nil {
		return cashflow.Liquidation{}, err
	}

	items, err := parseItems(req.Items)
	if err != nil {
		return cashflow.Liquidation{}, err
	}

	var updated cashflow.Liquidation
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		liquidation, err := s.liquidations.GetByIDForUpdate(ctx, req.LiquidationID)
		if err != nil {
			return err
		}
		if liquidation.EmployeeID != req.EmployeeID {
			return authz.ErrForbidden
		}
		if !liquidation.Editable() {
			return cashflow.ErrReviewStarted
		}

		advance, err := s.advances.GetByID(ctx, liquidation.CashAdvanceID)
		if err != nil {
			return err
		}

		for _, attachmentID := range req.RemoveAttachmentIDs {
			attachment, err := s.liquidations.GetAttachment(ctx, attachmentID)
			if err != nil {
				return err
			}
			if attachment.LiquidationID != liquidation.ID {
				return cashflow.ErrAttachmentNotFound
			}
			if err := s.files.Delete(ctx, attachment.StorageKey); err != nil {
				return fmt.Errorf("failed to delete attachment blob: %w", err)
			}
			if err := s.liquidations.DeleteAttachment(ctx, attachmentID); err != nil {
				return fmt.Errorf("failed to delete attachment record: %w", err)
			}
		}

		liquidation.Remarks = req.Remarks
		liquidation.TotalAmount = cashflow.SumItems(items)
		liquidation.ReturnToCompany, liquidation.Reimbursement = cashflow.Reconcile(advance.Amount, liquidation.TotalAmount)
		liquidation.Items = items

		if err := s.liquidations.ReplaceItems(ctx, liquidation, items); err != nil {
			return fmt.Errorf("failed to replace liquidation items: %w", err)
		}
		updated = liquidation
		return nil
	})
	if err != nil {
		return cashflow.Liquidation{}, err
	}
	return updated, nil
}

// Reopen drops a decided liquidation back to pending, clearing both levels
// and the top-level approver stamp together.
func (s *LiquidationService) Reopen(ctx context.Context, req cashflow.ReopenRequest) (cashflow.Liquidation, error) {
	if err := s.authorizer.Can(ctx, req.CallerID, authz.CapManageLiquidation); err != nil {
		return cashflow.Liquidation{}, err
	}

	var updated cashflow.Liquidation
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		liquidation, err := s.liquidations.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if liquidation.Status == review.StatusPending {
			return cashflow.ErrInvalidTransition
		}

		liquidation.Status = review.StatusPending
		liquidation.Level1 = review.NewPending()
		liquidation.Level2 = review.NewPending()
		liquidation.ApprovedBy = nil
		liquidation.ApprovedAt = nil

		if err := s.liquidations.UpdateReview(ctx, liquidation); err != nil {
			return fmt.Errorf("failed to update liquidation: %w", err)
		}
		updated = liquidation
		return nil
	})
	if err != nil {
		return cashflow.Liquidation{}, err
	}
	return updated, nil
}

func (s *LiquidationService) List(ctx context.Context, callerID string, filter cashflow.ListFilter) ([]cashflow.Liquidation, int64, error) {
	if err := s.authorizer.Can(ctx, callerID, authz.CapManageLiquidation); err != nil {
		return nil, 0, err
	}

	callerPosition, err := s.employees.GetPositionCode(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !authz.CanViewConfidential(callerPosition) {
		filter.ExcludeSensitive = authz.SensitivePositionCodes()
	}

	return s.liquidations.List(ctx, filter)
}

// AttachReceipt uploads a receipt blob and records its metadata while the
// liquidation is still editable.
func (s *LiquidationService) AttachReceipt(ctx context.Context, liquidationID, employeeID string, upload cashflow.ReceiptUpload) (cashflow.Attachment, error) {
	liquidation, err := s.liquidations.GetByID(ctx, liquidationID)
	if err != nil {
		return cashflow.Attachment{}, err
	}
	if liquidation.EmployeeID != employeeID {
		return cashflow.Attachment{}, authz.ErrForbidden
	}
	if !liquidation.Editable() {
		return cashflow.Attachment{}, cashflow.ErrReviewStarted
	}

	key := "liquidations/" + liquidationID + "/" + upload.Key
	storedKey, err := s.files.Upload(ctx, upload.Body, key, upload.Size, upload.ContentType)
	if err != nil {
		return cashflow.Attachment{}, fmt.Errorf("failed to upload receipt: %w", err)
	}

	attachment, err := s.liquidations.AddAttachment(ctx, cashflow.Attachment{
		LiquidationID: liquidationID,
		FileName:      upload.FileName,
		StorageKey:    storedKey,
		ContentType:   upload.ContentType,
		SizeBytes:     upload.Size,
	})
	if err != nil {
		// The blob is already stored; roll it back so metadata and bytes
		// stay in step.
		_ = s.files.Delete(ctx, storedKey)
		return cashflow.Attachment{}, fmt.Errorf("failed to record attachment: %w", err)
	}
	return attachment, nil
}
