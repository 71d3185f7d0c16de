package overtime

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/domain/overtime"
	"github.com/fieldops-hq/hrops-backend/internal/domain/review"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type passthroughTx struct{}

func (passthroughTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memOvertime struct {
	byID map[string]*overtime.OvertimeRequest
	seq  int
}

func (m *memOvertime) Create(_ context.Context, request overtime.OvertimeRequest) (overtime.OvertimeRequest, error) {
	m.seq++
	request.ID = fmt.Sprintf("ot-%d", m.seq)
	m.byID[request.ID] = &request
	return request, nil
}

func (m *memOvertime) GetByID(_ context.Context, id string) (overtime.OvertimeRequest, error) {
	if r, ok := m.byID[id]; ok {
		return *r, nil
	}
	return overtime.OvertimeRequest{}, overtime.ErrOvertimeNotFound
}

func (m *memOvertime) GetByIDForUpdate(ctx context.Context, id string) (overtime.OvertimeRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *memOvertime) UpdateReview(_ context.Context, request overtime.OvertimeRequest) error {
	m.byID[request.ID] = &request
	return nil
}

func (m *memOvertime) UpdateTimes(_ context.Context, request overtime.OvertimeRequest) error {
	m.byID[request.ID] = &request
	return nil
}

func (m *memOvertime) Delete(_ context.Context, id string) error {
	if _, ok := m.byID[id]; !ok {
		return overtime.ErrOvertimeNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memOvertime) HasActiveForDate(_ context.Context, employeeID, workDate string) (bool, error) {
	for _, r := range m.byID {
		if r.EmployeeID == employeeID && r.WorkDate == workDate && r.FinalStatus != review.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (m *memOvertime) List(_ context.Context, filter overtime.ListFilter) ([]overtime.OvertimeRequest, int64, error) {
	var out []overtime.OvertimeRequest
	for _, r := range m.byID {
		if filter.EmployeeID != nil && r.EmployeeID != *filter.EmployeeID {
			continue
		}
		out = append(out, *r)
	}
	return out, int64(len(out)), nil
}

type memEmployees struct {
	positions map[string]employee.PositionCode
}

func (m *memEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if p, ok := m.positions[id]; ok {
		return employee.Employee{ID: id, PositionCode: p, Active: true}, nil
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (m *memEmployees) GetPositionCode(_ context.Context, id string) (employee.PositionCode, error) {
	if p, ok := m.positions[id]; ok {
		return p, nil
	}
	return "", employee.ErrEmployeeNotFound
}

func (m *memEmployees) Lock(_ context.Context, id string) error {
	if _, ok := m.positions[id]; !ok {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func (m *memEmployees) LockLeaveCredits(_ context.Context, _ string) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *memEmployees) UpdateLeaveCredits(_ context.Context, _ string, _ decimal.Decimal) error {
	return nil
}

type allowAll struct{}

func (allowAll) HasCapability(context.Context, string, authz.Capability) (bool, error) {
	return true, nil
}

func newTestService() (*Service, *memOvertime) {
	requests := &memOvertime{byID: map[string]*overtime.OvertimeRequest{}}
	employees := &memEmployees{positions: map[string]employee.PositionCode{
		"emp-1": employee.PositionStaff,
		"dir-1": employee.PositionOperationsDirector,
		"rev-1": employee.PositionTeamLead,
		"rev-2": employee.PositionHRManager,
	}}
	fixed := clock.Fixed{Instant: time.Date(2025, 4, 1, 10, 0, 0, 0, clock.OrgZone)}
	return NewService(passthroughTx{}, requests, employees, authz.NewAuthorizer(allowAll{}), fixed), requests
}

func submit(t *testing.T, svc *Service, employeeID, date, start, end string) (overtime.OvertimeRequest, error) {
	t.Helper()
	return svc.Submit(context.Background(), overtime.SubmitRequest{
		EmployeeID: employeeID,
		Date:       date,
		StartTime:  start,
		EndTime:    end,
		Reason:     "deployment window",
	})
}

func reviewLevel(t *testing.T, svc *Service, id string, level int, reviewer string, decision overtime.ReviewDecision) (overtime.OvertimeRequest, error) {
	t.Helper()
	return svc.Review(context.Background(), overtime.ReviewRequest{
		RequestID:  id,
		ReviewerID: reviewer,
		Level:      level,
		Decision:   decision,
	})
}

func TestSubmit_OvernightDuration(t *testing.T) {
	svc, _ := newTestService()

	req, err := submit(t, svc, "emp-1", "2025-04-01", "22:00", "02:00")
	require.NoError(t, err)
	assert.Equal(t, 240, req.DurationMinutes)
	assert.InDelta(t, 4.0, req.DurationHours(), 0.001)

	req, err = submit(t, svc, "emp-1", "2025-04-02", "09:00", "17:00")
	require.NoError(t, err)
	assert.Equal(t, 480, req.DurationMinutes)
	assert.InDelta(t, 8.0, req.DurationHours(), 0.001)
}

func TestSubmit_DuplicateForDate(t *testing.T) {
	svc, _ := newTestService()

	first, err := submit(t, svc, "emp-1", "2025-04-01", "18:00", "20:00")
	require.NoError(t, err)

	// Still pending: second submission refused.
	_, err = submit(t, svc, "emp-1", "2025-04-01", "19:00", "21:00")
	assert.ErrorIs(t, err, overtime.ErrDuplicateForDate)

	// One level rejected already makes the final status rejected.
	_, err = reviewLevel(t, svc, first.ID, 1, "rev-1", overtime.DecisionReject)
	require.NoError(t, err)

	_, err = submit(t, svc, "emp-1", "2025-04-01", "19:00", "21:00")
	require.NoError(t, err)

	// Another employee on the same date was never blocked.
	_, err = submit(t, svc, "dir-1", "2025-04-01", "18:00", "20:00")
	require.NoError(t, err)
}

func TestSubmit_AutoApprovalForOperationsDirector(t *testing.T) {
	svc, _ := newTestService()

	req, err := submit(t, svc, "dir-1", "2025-04-05", "18:00", "21:00")
	require.NoError(t, err)

	assert.Equal(t, review.StatusApproved, req.FinalStatus)
	assert.Equal(t, review.StatusApproved, req.Level1.Status)
	assert.Equal(t, review.StatusApproved, req.Level2.Status)
	assert.Equal(t, overtime.SystemComment, *req.Level1.Comment)
	assert.Equal(t, "dir-1", *req.Level2.ReviewerID)
}

func TestReview_TwoIndependentLevels(t *testing.T) {
	svc, _ := newTestService()
	req, err := submit(t, svc, "emp-1", "2025-04-01", "18:00", "20:00")
	require.NoError(t, err)

	after1, err := reviewLevel(t, svc, req.ID, 1, "rev-1", overtime.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, review.StatusPending, after1.FinalStatus)

	after2, err := reviewLevel(t, svc, req.ID, 2, "rev-2", overtime.DecisionApprove)
	require.NoError(t, err)
	assert.Equal(t, review.StatusApproved, after2.FinalStatus)

	// A decided level cannot be decided again.
	_, err = reviewLevel(t, svc, req.ID, 1, "rev-1", overtime.DecisionReject)
	assert.ErrorIs(t, err, overtime.ErrAlreadyReviewed)
}

func TestReview_RejectionWins(t *testing.T) {
	svc, _ := newTestService()
	req, err := submit(t, svc, "emp-1", "2025-04-01", "18:00", "20:00")
	require.NoError(t, err)

	_, err = reviewLevel(t, svc, req.ID, 2, "rev-2", overtime.DecisionApprove)
	require.NoError(t, err)

	after, err := reviewLevel(t, svc, req.ID, 1, "rev-1", overtime.DecisionReject)
	require.NoError(t, err)
	assert.Equal(t, review.StatusRejected, after.FinalStatus)
}

func TestEdit_OnlyBeforeReviewStarts(t *testing.T) {
	svc, _ := newTestService()
	req, err := submit(t, svc, "emp-1", "2025-04-01", "18:00", "20:00")
	require.NoError(t, err)

	edited, err := svc.Edit(context.Background(), overtime.EditRequest{
		RequestID:  req.ID,
		EmployeeID: "emp-1",
		StartTime:  "19:00",
		EndTime:    "23:30",
		Reason:     "window moved",
	})
	require.NoError(t, err)
	assert.Equal(t, 270, edited.DurationMinutes)

	// Not the submitter.
	_, err = svc.Edit(context.Background(), overtime.EditRequest{
		RequestID: req.ID, EmployeeID: "dir-1", StartTime: "19:00", EndTime: "20:00", Reason: "x",
	})
	assert.ErrorIs(t, err, authz.ErrForbidden)

	_, err = reviewLevel(t, svc, req.ID, 1, "rev-1", overtime.DecisionApprove)
	require.NoError(t, err)

	_, err = svc.Edit(context.Background(), overtime.EditRequest{
		RequestID: req.ID, EmployeeID: "emp-1", StartTime: "19:00", EndTime: "20:00", Reason: "too late",
	})
	assert.ErrorIs(t, err, overtime.ErrReviewStarted)
}

func TestDelete_OnlyBeforeReviewStarts(t *testing.T) {
	svc, requests := newTestService()
	req, err := submit(t, svc, "emp-1", "2025-04-01", "18:00", "20:00")
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), req.ID, "emp-1"))
	assert.Empty(t, requests.byID)

	req, err = submit(t, svc, "emp-1", "2025-04-01", "18:00", "20:00")
	require.NoError(t, err)
	_, err = reviewLevel(t, svc, req.ID, 2, "rev-2", overtime.DecisionApprove)
	require.NoError(t, err)

	// Level 1 still pending: the submitter may still delete.
	require.NoError(t, svc.Delete(context.Background(), req.ID, "emp-1"))
}

// serialTx holds a lock for the whole unit, the way the row lock inside
// Submit serializes racing transactions in postgres.
type serialTx struct{ mu sync.Mutex }

func (t *serialTx) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

// gatedOvertime stalls the duplicate check until a second caller arrives or a
// short timeout passes, forcing the widest interleaving between check and
// insert that the scheduler could produce.
type gatedOvertime struct {
	*memOvertime
	mu       sync.Mutex
	arrivals int
	both     chan struct{}
}

func (g *gatedOvertime) HasActiveForDate(ctx context.Context, employeeID, workDate string) (bool, error) {
	g.mu.Lock()
	g.arrivals++
	if g.arrivals == 2 {
		close(g.both)
	}
	g.mu.Unlock()

	select {
	case <-g.both:
	case <-time.After(50 * time.Millisecond):
	}
	return g.memOvertime.HasActiveForDate(ctx, employeeID, workDate)
}

func TestSubmit_ConcurrentSameDate(t *testing.T) {
	requests := &gatedOvertime{
		memOvertime: &memOvertime{byID: map[string]*overtime.OvertimeRequest{}},
		both:        make(chan struct{}),
	}
	employees := &memEmployees{positions: map[string]employee.PositionCode{
		"emp-1": employee.PositionStaff,
	}}
	fixed := clock.Fixed{Instant: time.Date(2025, 4, 1, 10, 0, 0, 0, clock.OrgZone)}
	svc := NewService(&serialTx{}, requests, employees, authz.NewAuthorizer(allowAll{}), fixed)

	errs := make(chan error, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Submit(context.Background(), overtime.SubmitRequest{
				EmployeeID: "emp-1",
				Date:       "2025-04-01",
				StartTime:  "18:00",
				EndTime:    "20:00",
				Reason:     "deployment window",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var accepted, duplicates int
	for err := range errs {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, overtime.ErrDuplicateForDate):
			duplicates++
		default:
			t.Fatalf("unexpected submit error: %v", err)
		}
	}
	assert.Equal(t, 1, accepted)
	assert.Equal(t, 1, duplicates)
	assert.Len(t, requests.byID, 1)
}
