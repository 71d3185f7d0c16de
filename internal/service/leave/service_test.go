package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/domain/leave"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughTx runs the unit directly; repository fakes are in-memory so
// there is nothing to commit.
type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memEmployees struct {
	byID map[string]*employee.Employee
}

func (m *memEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if e, ok := m.byID[id]; ok {
		return *e, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployees) GetPositionCode(_ context.Context, id string) (employee.PositionCode, error) {
	if e, ok := m.byID[id]; ok {
		return e.PositionCode, nil
	}
	return "", employee.ErrEmployeeNotFound
}

func (m *memEmployees) Lock(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (m *memEmployees) LockLeaveCredits(_ context.Context, id string) (decimal.Decimal, error) {
	if e, ok := m.byID[id]; ok {
		return e.LeaveCredits, nil
	}
	return decimal.Zero, employee.ErrEmployeeNotFound
}

func (m *memEmployees) UpdateLeaveCredits(_ context.Context, id string, balance decimal.Decimal) error {
	if e, ok := m.byID[id]; ok {
		e.LeaveCredits = balance
		return nil
	}
	return employee.ErrEmployeeNotFound
}

type memLeaveRequests struct {
	byID map[string]*leave.LeaveRequest
	seq  int
}

func (m *memLeaveRequests) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	m.seq++
	request.ID = fmt.Sprintf("lr-%d", m.seq)
	request.CreatedAt = time.Now()
	m.byID[request.ID] = &request
	return request, nil
}

func (m *memLeaveRequests) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	if r, ok := m.byID[id]; ok {
		return *r, nil
	}
	return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
}

func (m *memLeaveRequests) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *memLeaveRequests) UpdateReview(_ context.Context, request leave.LeaveRequest) error {
	if _, ok := m.byID[request.ID]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	m.byID[request.ID] = &request
	return nil
}

func (m *memLeaveRequests) HasApprovedOverlap(_ context.Context, employeeID string, start, end time.Time) (bool, error) {
	for _, r := range m.byID {
		if r.EmployeeID == employeeID && r.Status == leave.StatusApproved && r.Overlaps(start, end) {
			return true, nil
		}
	}
	return false, nil
}

func (m *memLeaveRequests) List(_ context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, int64, error) {
	var out []leave.LeaveRequest
	for _, r := range m.byID {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Status != nil && r.Status != *filter.Status {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

type allowAll struct{}

func (allowAll) HasCapability(context.Context, string, authz.Capability) (bool, error) {
	return true, nil
}

type denyAll struct{}

func (denyAll) HasCapability(context.Context, string, authz.Capability) (bool, error) {
	return false, nil
}

func newTestService(t *testing.T, credits int64) (*Service, *memEmployees, *memLeaveRequests) {
	t.Helper()
	employees := &memEmployees{byID: map[string]*employee.Employee{
		"emp-1": {ID: "emp-1", PositionCode: employee.PositionStaff, LeaveCredits: decimal.NewFromInt(credits), Active: true},
		"rev-1": {ID: "rev-1", PositionCode: employee.PositionHRManager, LeaveCredits: decimal.Zero, Active: true},
	}}
	requests := &memLeaveRequests{byID: map[string]*leave.LeaveRequest{}}
	fixed := clock.Fixed{Instant: time.Date(2025, 1, 15, 9, 0, 0, 0, clock.OrgZone)}
	svc := NewService(passthroughTx{}, requests, employees, NewCreditLedger(employees), authz.NewAuthorizer(allowAll{}), fixed)
	return svc, employees, requests
}

func submit(t *testing.T, svc *Service, start, end string) (leave.LeaveRequest, error) {
	t.Helper()
	return svc.Submit(context.Background(), leave.SubmitRequest{
		EmployeeID: "emp-1",
		Type:       string(leave.TypeOrdinary),
		StartDate:  start,
		EndDate:    end,
		Reason:     "family matters",
	})
}

func TestSubmit_EndBeforeStartRejected(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	_, err := submit(t, svc, "2025-02-10", "2025-02-08")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "end_date")
}

func TestSubmit_InsufficientCredits(t *testing.T) {
	svc, _, _ := newTestService(t, 3)
	_, err := submit(t, svc, "2025-02-01", "2025-02-05") // 5 days, 3 in balance
	assert.ErrorIs(t, err, leave.ErrInsufficientCredits)
}

func TestSubmit_ExemptTypesSkipBalanceCheck(t *testing.T) {
	svc, _, _ := newTestService(t, 0)
	req, err := svc.Submit(context.Background(), leave.SubmitRequest{
		EmployeeID: "emp-1",
		Type:       string(leave.TypeUnpaid),
		StartDate:  "2025-02-01",
		EndDate:    "2025-02-10",
		Reason:     "sabbatical",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, req.Status)
	assert.Equal(t, 10, req.DurationDays)
}

func TestSubmit_OverlapAgainstApprovedOnly(t *testing.T) {
	svc, _, requests := newTestService(t, 30)

	first, err := submit(t, svc, "2025-01-01", "2025-01-05")
	require.NoError(t, err)

	// A pending request does not block an overlapping submission.
	_, err = submit(t, svc, "2025-01-04", "2025-01-10")
	require.NoError(t, err)

	// Approve the first, then the same overlap must be rejected.
	requests.byID[first.ID].Status = leave.StatusApproved
	_, err = submit(t, svc, "2025-01-04", "2025-01-10")
	assert.ErrorIs(t, err, leave.ErrOverlappingRequest)

	// Adjacent but non-overlapping range is fine.
	_, err = submit(t, svc, "2025-01-06", "2025-01-10")
	require.NoError(t, err)
}

func TestReview_ApproveDebitsLedger(t *testing.T) {
	svc, employees, _ := newTestService(t, 10)
	req, err := submit(t, svc, "2025-02-01", "2025-02-05")
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), leave.ReviewRequest{
		RequestID:  req.ID,
		ReviewerID: "rev-1",
		Decision:   leave.DecisionApprove,
	})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, reviewed.Status)
	assert.Equal(t, "rev-1", *reviewed.ReviewerID)
	assert.NotNil(t, reviewed.ReviewedAt)
	assert.True(t, employees.byID["emp-1"].LeaveCredits.Equal(decimal.NewFromInt(5)))
}

func TestReview_RejectLeavesLedgerUntouched(t *testing.T) {
	svc, employees, _ := newTestService(t, 10)
	req, err := submit(t, svc, "2025-02-01", "2025-02-05")
	require.NoError(t, err)

	reviewed, err := svc.Review(context.Background(), leave.ReviewRequest{
		RequestID:  req.ID,
		ReviewerID: "rev-1",
		Decision:   leave.DecisionReject,
	})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusRejected, reviewed.Status)
	assert.True(t, employees.byID["emp-1"].LeaveCredits.Equal(decimal.NewFromInt(10)))
}

func TestReview_SecondReviewFails(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	req, err := submit(t, svc, "2025-02-01", "2025-02-02")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), leave.ReviewRequest{RequestID: req.ID, ReviewerID: "rev-1", Decision: leave.DecisionApprove})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), leave.ReviewRequest{RequestID: req.ID, ReviewerID: "rev-1", Decision: leave.DecisionReject})
	assert.ErrorIs(t, err, leave.ErrAlreadyReviewed)
}

func TestReview_ApprovalRecheckClosesSubmissionRace(t *testing.T) {
	// Two pending requests both passed the submission-time balance check;
	// only the first approval may debit.
	svc, employees, _ := newTestService(t, 5)

	first, err := submit(t, svc, "2025-02-01", "2025-02-05") // 5 days
	require.NoError(t, err)
	second, err := submit(t, svc, "2025-03-01", "2025-03-05") // 5 days
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), leave.ReviewRequest{RequestID: first.ID, ReviewerID: "rev-1", Decision: leave.DecisionApprove})
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), leave.ReviewRequest{RequestID: second.ID, ReviewerID: "rev-1", Decision: leave.DecisionApprove})
	assert.ErrorIs(t, err, leave.ErrInsufficientCredits)
	assert.True(t, employees.byID["emp-1"].LeaveCredits.Equal(decimal.Zero))
}

func TestRevoke_RestoresBalance(t *testing.T) {
	svc, employees, _ := newTestService(t, 10)
	req, err := submit(t, svc, "2025-02-01", "2025-02-03")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), leave.ReviewRequest{RequestID: req.ID, ReviewerID: "rev-1", Decision: leave.DecisionApprove})
	require.NoError(t, err)
	require.True(t, employees.byID["emp-1"].LeaveCredits.Equal(decimal.NewFromInt(7)))

	revoked, err := svc.Revoke(context.Background(), leave.RevokeRequest{RequestID: req.ID, ReviewerID: "rev-1"})
	require.NoError(t, err)

	assert.Equal(t, leave.StatusRevoked, revoked.Status)
	// Approve-then-revoke is a ledger round trip.
	assert.True(t, employees.byID["emp-1"].LeaveCredits.Equal(decimal.NewFromInt(10)))
}

func TestRevoke_RequiresApprovedState(t *testing.T) {
	svc, _, _ := newTestService(t, 10)
	req, err := submit(t, svc, "2025-02-01", "2025-02-03")
	require.NoError(t, err)

	_, err = svc.Revoke(context.Background(), leave.RevokeRequest{RequestID: req.ID, ReviewerID: "rev-1"})
	assert.ErrorIs(t, err, leave.ErrInvalidTransition)
}

func TestReview_ForbiddenWithoutCapability(t *testing.T) {
	employees := &memEmployees{byID: map[string]*employee.Employee{
		"emp-1": {ID: "emp-1", PositionCode: employee.PositionStaff, LeaveCredits: decimal.NewFromInt(10), Active: true},
	}}
	requests := &memLeaveRequests{byID: map[string]*leave.LeaveRequest{}}
	fixed := clock.Fixed{Instant: time.Date(2025, 1, 15, 9, 0, 0, 0, clock.OrgZone)}
	svc := NewService(passthroughTx{}, requests, employees, NewCreditLedger(employees), authz.NewAuthorizer(denyAll{}), fixed)

	req, err := submit(t, svc, "2025-02-01", "2025-02-03")
	require.NoError(t, err)

	_, err = svc.Review(context.Background(), leave.ReviewRequest{RequestID: req.ID, ReviewerID: "rev-1", Decision: leave.DecisionApprove})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestStateMachine_OnlyLegalEdges(t *testing.T) {
	assert.True(t, leave.LeaveRequest{Status: leave.StatusPending}.CanTransitionTo(leave.StatusApproved))
	assert.True(t, leave.LeaveRequest{Status: leave.StatusPending}.CanTransitionTo(leave.StatusRejected))
	assert.True(t, leave.LeaveRequest{Status: leave.StatusApproved}.CanTransitionTo(leave.StatusRevoked))

	assert.False(t, leave.LeaveRequest{Status: leave.StatusRejected}.CanTransitionTo(leave.StatusApproved))
	assert.False(t, leave.LeaveRequest{Status: leave.StatusRevoked}.CanTransitionTo(leave.StatusPending))
	assert.False(t, leave.LeaveRequest{Status: leave.StatusApproved}.CanTransitionTo(leave.StatusRejected))
	assert.False(t, leave.LeaveRequest{Status: leave.StatusPending}.CanTransitionTo(leave.StatusRevoked))
}
