package leave

import (
	"context"
	"fmt"

	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/domain/leave"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type Service struct {
	tx         database.TxManager
	requests   leave.LeaveRequestRepository
	employees  employee.EmployeeRepository
	ledger     *CreditLedger
	authorizer *authz.Authorizer
	clock      clock.Clock
}

func NewService(
	tx database.TxManager,
	requests leave.LeaveRequestRepository,
	employees employee.EmployeeRepository,
	ledger *CreditLedger,
	authorizer *authz.Authorizer,
	clk clock.Clock,
) *Service {
	return &Service{
		tx:         tx,
		requests:   requests,
		employees:  employees,
		ledger:     ledger,
		authorizer: authorizer,
		clock:      clk,
	}
}

// Submit creates a pending leave request. The sufficiency check here is
// informational: the binding check happens again under lock at approval.
// Overlap is tested against approved requests only; two overlapping pending
// requests may coexist.
func (s *Service) Submit(ctx context.Context, req leave.SubmitRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	if !emp.Active {
		return leave.LeaveRequest{}, employee.ErrEmployeeInactive
	}

	start, err := clock.ParseDate(req.StartDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse start date: %w", err)
	}
	end, err := clock.ParseDate(req.EndDate)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to parse end date: %w", err)
	}

	leaveType := leave.LeaveType(req.Type)
	duration := clock.InclusiveDays(start, end)

	if leaveType.DeductsCredits() {
		balance, err := s.ledger.Balance(ctx, req.EmployeeID)
		if err != nil {
			return leave.LeaveRequest{}, fmt.Errorf("failed to read leave balance: %w", err)
		}
		if balance.LessThan(decimal.NewFromInt(int64(duration))) {
			return leave.LeaveRequest{}, leave.ErrInsufficientCredits
		}
	}

	hasOverlap, err := s.requests.HasApprovedOverlap(ctx, req.EmployeeID, start, end)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to check overlapping requests: %w", err)
	}
	if hasOverlap {
		return leave.LeaveRequest{}, leave.ErrOverlappingRequest
	}

	request := leave.LeaveRequest{
		EmployeeID:   req.EmployeeID,
		Type:         leaveType,
		StartDate:    start,
		EndDate:      end,
		DurationDays: duration,
		Reason:       req.Reason,
		Status:       leave.StatusPending,
	}

	created, err := s.requests.Create(ctx, request)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return created, nil
}

// Review decides a pending request. Approval debits the ledger in the same
// transaction as the status write; if the debit fails the status write rolls
// back with it.
func (s *Service) Review(ctx context.Context, req leave.ReviewRequest) (leave.LeaveRequest, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequest{}, err
	}
	if err := s.authorizer.Can(ctx, req.ReviewerID, authz.CapApproveLeave); err != nil {
		return leave.LeaveRequest{}, err
	}

	var updated leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return leave.ErrAlreadyReviewed
		}

		next := leave.StatusApproved
		if req.Decision == leave.DecisionReject {
			next = leave.StatusRejected
		}

		if next == leave.StatusApproved && request.Type.DeductsCredits() {
			if err := s.ledger.Debit(ctx, request.EmployeeID, request.DurationDays); err != nil {
				return err
			}
		}

		now := s.clock.Now()
		request.Status = next
		request.ReviewerID = &req.ReviewerID
		request.ReviewedAt = &now
		request.ReviewerComment = req.Comment

		if err := s.requests.UpdateReview(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

// Revoke moves an approved request to the soft-terminal revoked state and
// credits the debited days back in the same transaction.
func (s *Service) Revoke(ctx context.Context, req leave.RevokeRequest) (leave.LeaveRequest, error) {
	if err := s.authorizer.Can(ctx, req.ReviewerID, authz.CapApproveLeave); err != nil {
		return leave.LeaveRequest{}, err
	}

	var updated leave.LeaveRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if !request.CanTransitionTo(leave.StatusRevoked) {
			return leave.ErrInvalidTransition
		}

		if request.Type.DeductsCredits() {
			if err := s.ledger.Credit(ctx, request.EmployeeID, request.DurationDays); err != nil {
				return err
			}
		}

		now := s.clock.Now()
		request.Status = leave.StatusRevoked
		request.ReviewerID = &req.ReviewerID
		request.ReviewedAt = &now
		request.ReviewerComment = req.Comment

		if err := s.requests.UpdateReview(ctx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return updated, nil
}

// List returns requests visible to a reviewer.
func (s *Service) List(ctx context.Context, callerID string, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	if err := s.authorizer.Can(ctx, callerID, authz.CapApproveLeave); err != nil {
		return nil, 0, err
	}
	return s.requests.List(ctx, filter)
}

// MyRequests returns the caller's own requests.
func (s *Service) MyRequests(ctx context.Context, employeeID string) ([]leave.LeaveRequest, int64, error) {
	return s.requests.List(ctx, leave.ListFilter{EmployeeID: &employeeID})
}
