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
	"github.com/shopspring/decimal"
)

type AdvanceService struct {
	tx         database.TxManager
	advances   cashflow.CashAdvanceRepository
	employees  employee.EmployeeRepository
	authorizer *authz.Authorizer
	clock      clock.Clock
}

func NewAdvanceService(
	tx database.TxManager,
	advances cashflow.CashAdvanceRepository,
	employees employee.EmployeeRepository,
	authorizer *authz.Authorizer,
	clk clock.Clock,
) *AdvanceService {
	return &AdvanceService{
		tx:         tx,
		advances:   advances,
		employees:  employees,
		authorizer: authorizer,
		clock:      clk,
	}
}

func (s *AdvanceService) Submit(ctx context.Context, req cashflow.SubmitAdvanceRequest) (cashflow.CashAdvance, error) {
	if err := req.Validate(); err != nil {
		return cashflow.CashAdvance{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return cashflow.CashAdvance{}, err
	}
	if !emp.Active {
		return cashflow.CashAdvance{}, employee.ErrEmployeeInactive
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return cashflow.CashAdvance{}, fmt.Errorf("failed to parse amount: %w", err)
	}

	advance := cashflow.CashAdvance{
		EmployeeID: req.EmployeeID,
		Amount:     amount,
		Purpose:    req.Purpose,
		Type:       cashflow.AdvanceType(req.Type),
		Status:     review.StatusPending,
		Level1:     review.NewPending(),
		Level2:     review.NewPending(),
	}

	created, err := s.advances.Create(ctx, advance)
	if err != nil {
		return cashflow.CashAdvance{}, fmt.Errorf("failed to create cash advance: %w", err)
	}
	return created, nil
}

// Review decides one level. The shared status follows the derived final
// status; top-level approver bookkeeping is stamped when the request closes
// as approved.
func (s *AdvanceService) Review(ctx context.Context, req cashflow.ReviewRequest) (cashflow.CashAdvance, error) {
	if err := req.Validate(); err != nil {
		return cashflow.CashAdvance{}, err
	}
	if err := s.authorizer.Can(ctx, req.ReviewerID, authz.CapManageCashFlow); err != nil {
		return cashflow.CashAdvance{}, err
	}

	var updated cashflow.CashAdvance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		advance, err := s.advances.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}

		target := &advance.Level1
		if req.Level == 2 {
			target = &advance.Level2
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

		advance.Status = review.FinalStatus(advance.Level1, advance.Level2)
		if advance.Status == review.StatusApproved {
			advance.ApprovedBy = &req.ReviewerID
			advance.ApprovedAt = &now
		}

		if err := s.advances.UpdateReview(ctx, advance); err != nil {
			return fmt.Errorf("failed to update cash advance: %w", err)
		}
		updated = advance
		return nil
	})
	if err != nil {
		return cashflow.CashAdvance{}, err
	}
	return updated, nil
}

func (s *AdvanceService) Edit(ctx context.Context, req cashflow.EditAdvanceRequest) (cashflow.CashAdvance, error) {
	if err := req.Validate(); err != nil {
		return cashflow.CashAdvance{}, err
	}

	var updated cashflow.CashAdvance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		advance, err := s.advances.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if advance.EmployeeID != req.EmployeeID {
			return authz.ErrForbidden
		}
		if !advance.Editable() {
			return cashflow.ErrReviewStarted
		}

		amount, err := decimal.NewFromString(req.Amount)
		if err != nil {
			return fmt.Errorf("failed to parse amount: %w", err)
		}
		advance.Amount = amount
		advance.Purpose = req.Purpose
		advance.Type = cashflow.AdvanceType(req.Type)

		if err := s.advances.UpdateDetails(ctx, advance); err != nil {
			return fmt.Errorf("failed to update cash advance: %w", err)
		}
		updated = advance
		return nil
	})
	if err != nil {
		return cashflow.CashAdvance{}, err
	}
	return updated, nil
}

func (s *AdvanceService) Delete(ctx context.Context, requestID, employeeID string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		advance, err := s.advances.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if advance.EmployeeID != employeeID {
			return authz.ErrForbidden
		}
		if !advance.Editable() {
			return cashflow.ErrReviewStarted
		}
		return s.advances.Delete(ctx, requestID)
	})
}

// Reopen drops a decided request back to pending. Every piece of approval
// bookkeeping is cleared in the same write; a partial clear would leave
// stale audit data behind.
func (s *AdvanceService) Reopen(ctx context.Context, req cashflow.ReopenRequest) (cashflow.CashAdvance, error) {
	if err := s.authorizer.Can(ctx, req.CallerID, authz.CapManageCashFlow); err != nil {
		return cashflow.CashAdvance{}, err
	}

	var updated cashflow.CashAdvance
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		advance, err := s.advances.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if advance.Status == review.StatusPending {
			return cashflow.ErrInvalidTransition
		}

		advance.Status = review.StatusPending
		advance.Level1 = review.NewPending()
		advance.Level2 = review.NewPending()
		advance.ApprovedBy = nil
		advance.ApprovedAt = nil

		if err := s.advances.UpdateReview(ctx, advance); err != nil {
			return fmt.Errorf("failed to update cash advance: %w", err)
		}
		updated = advance
		return nil
	})
	if err != nil {
		return cashflow.CashAdvance{}, err
	}
	return updated, nil
}

// List applies the capability gate first, then narrows to what the caller's
// position may see.
func (s *AdvanceService) List(ctx context.Context, callerID string, filter cashflow.ListFilter) ([]cashflow.CashAdvance, int64, error) {
	if err := s.authorizer.Can(ctx, callerID, authz.CapManageCashFlow); err != nil {
		return nil, 0, err
	}

	callerPosition, err := s.employees.GetPositionCode(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}
	if !authz.CanViewConfidential(callerPosition) {
		filter.ExcludeSensitive = authz.SensitivePositionCodes()
	}

	return s.advances.List(ctx, filter)
}
