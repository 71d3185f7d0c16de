package overtime

import (
	"context"
	"fmt"

	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/domain/overtime"
	"github.com/fieldops-hq/hrops-backend/internal/domain/review"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
)

type Service struct {
	tx         database.TxManager
	requests   overtime.OvertimeRepository
	employees  employee.EmployeeRepository
	authorizer *authz.Authorizer
	clock      clock.Clock
}

func NewService(
	tx database.TxManager,
	requests overtime.OvertimeRepository,
	employees employee.EmployeeRepository,
	authorizer *authz.Authorizer,
	clk clock.Clock,
) *Service {
	return &Service{
		tx:         tx,
		requests:   requests,
		employees:  employees,
		authorizer: authorizer,
		clock:      clk,
	}
}

// Submit files an overtime request for one date. A date admits at most one
// request that is not fully rejected. Submissions by the operations director
// are stamped approved on both levels immediately.
func (s *Service) Submit(ctx context.Context, req overtime.SubmitRequest) (overtime.OvertimeRequest, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeRequest{}, err
	}

	position, err := s.employees.GetPositionCode(ctx, req.EmployeeID)
	if err != nil {
		return overtime.OvertimeRequest{}, err
	}

	startMin, err := clock.MinutesOfDay(req.StartTime)
	if err != nil {
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to parse start time: %w", err)
	}
	endMin, err := clock.MinutesOfDay(req.EndTime)
	if err != nil {
		return overtime.OvertimeRequest{}, fmt.Errorf("failed to parse end time: %w", err)
	}

	request := overtime.OvertimeRequest{
		EmployeeID:      req.EmployeeID,
		WorkDate:        req.Date,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
		DurationMinutes: clock.SpanMinutes(startMin, endMin),
		Reason:          req.Reason,
		Level1:          review.NewPending(),
		Level2:          review.NewPending(),
	}

	if position == employee.PositionOperationsDirector {
		now := s.clock.Now()
		comment := overtime.SystemComment
		request.Level1 = review.Approved(req.EmployeeID, now, &comment)
		request.Level2 = review.Approved(req.EmployeeID, now, &comment)
	}
	request.FinalStatus = review.FinalStatus(request.Level1, request.Level2)

	// The duplicate check and the insert must see each other: lock the
	// employee row so racing submissions for the same date serialize.
	var created overtime.OvertimeRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.employees.Lock(ctx, req.EmployeeID); err != nil {
			return err
		}

		active, err := s.requests.HasActiveForDate(ctx, req.EmployeeID, req.Date)
		if err != nil {
			return fmt.Errorf("failed to check requests for date: %w", err)
		}
		if active {
			return overtime.ErrDuplicateForDate
		}

		created, err = s.requests.Create(ctx, request)
		if err != nil {
			return fmt.Errorf("failed to create overtime request: %w", err)
		}
		return nil
	})
	if err != nil {
		return overtime.OvertimeRequest{}, err
	}
	return created, nil
}

// Review decides one level. Both levels move independently; the final status
// is recomputed and persisted in the same write.
func (s *Service) Review(ctx context.Context, req overtime.ReviewRequest) (overtime.OvertimeRequest, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeRequest{}, err
	}
	if err := s.authorizer.Can(ctx, req.ReviewerID, authz.CapEditTimeEntries); err != nil {
		return overtime.OvertimeRequest{}, err
	}

	var updated overtime.OvertimeRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}

		target := &request.Level1
		if req.Level == 2 {
			target = &request.Level2
		}
		if !target.IsPending() {
			return overtime.ErrAlreadyReviewed
		}

		now := s.clock.Now()
		if req.Decision == overtime.DecisionApprove {
			*target = review.Approved(req.ReviewerID, now, req.Comment)
		} else {
			*target = review.Rejected(req.ReviewerID, now, req.Comment)
		}
		request.FinalStatus = review.FinalStatus(request.Level1, request.Level2)

		if err := s.requests.UpdateReview(ctx, request); err != nil {
			return fmt.Errorf("failed to update overtime request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return overtime.OvertimeRequest{}, err
	}
	return updated, nil
}

// Edit rewrites times and reason. Only the submitter, and only before level
// 1 has been touched.
func (s *Service) Edit(ctx context.Context, req overtime.EditRequest) (overtime.OvertimeRequest, error) {
	if err := req.Validate(); err != nil {
		return overtime.OvertimeRequest{}, err
	}

	var updated overtime.OvertimeRequest
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, req.RequestID)
		if err != nil {
			return err
		}
		if request.EmployeeID != req.EmployeeID {
			return authz.ErrForbidden
		}
		if !request.Editable() {
			return overtime.ErrReviewStarted
		}

		startMin, err := clock.MinutesOfDay(req.StartTime)
		if err != nil {
			return fmt.Errorf("failed to parse start time: %w", err)
		}
		endMin, err := clock.MinutesOfDay(req.EndTime)
		if err != nil {
			return fmt.Errorf("failed to parse end time: %w", err)
		}

		request.StartTime = req.StartTime
		request.EndTime = req.EndTime
		request.DurationMinutes = clock.SpanMinutes(startMin, endMin)
		request.Reason = req.Reason

		if err := s.requests.UpdateTimes(ctx, request); err != nil {
			return fmt.Errorf("failed to update overtime request: %w", err)
		}
		updated = request
		return nil
	})
	if err != nil {
		return overtime.OvertimeRequest{}, err
	}
	return updated, nil
}

// Delete removes a not-yet-reviewed request. Same ownership and state gates
// as Edit.
func (s *Service) Delete(ctx context.Context, requestID, employeeID string) error {
	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		request, err := s.requests.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if request.EmployeeID != employeeID {
			return authz.ErrForbidden
		}
		if !request.Editable() {
			return overtime.ErrReviewStarted
		}
		return s.requests.Delete(ctx, requestID)
	})
}

// List returns requests visible to a reviewer.
func (s *Service) List(ctx context.Context, callerID string, filter overtime.ListFilter) ([]overtime.OvertimeRequest, int64, error) {
	if err := s.authorizer.Can(ctx, callerID, authz.CapEditTimeEntries); err != nil {
		return nil, 0, err
	}
	return s.requests.List(ctx, filter)
}
