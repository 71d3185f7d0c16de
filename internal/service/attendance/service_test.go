package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fieldops-hq/hrops-backend/internal/domain/attendance"
	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memSessions struct {
	byID map[string]*attendance.Session
	seq  int
}

func (m *memSessions) Create(_ context.Context, session attendance.Session) (attendance.Session, error) {
	m.seq++
	session.ID = fmt.Sprintf("sess-%d", m.seq)
	m.byID[session.ID] = &session
	return session, nil
}

func (m *memSessions) GetByID(_ context.Context, id string) (attendance.Session, error) {
	if s, ok := m.byID[id]; ok {
		return *s, nil
	}
	return attendance.Session{}, attendance.ErrSessionNotFound
}

func (m *memSessions) Update(_ context.Context, session attendance.Session) error {
	if _, ok := m.byID[session.ID]; !ok {
		return attendance.ErrSessionNotFound
	}
	m.byID[session.ID] = &session
	return nil
}

func (m *memSessions) ListByEmployeeAndDate(_ context.Context, employeeID, workDate string) ([]attendance.Session, error) {
	var out []attendance.Session
	for _, s := range m.byID {
		if s.EmployeeID == employeeID && s.WorkDate == workDate {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *memSessions) HasOpenSession(_ context.Context, employeeID string) (bool, error) {
	for _, s := range m.byID {
		if s.EmployeeID == employeeID && s.Open() {
			return true, nil
		}
	}
	return false, nil
}

type memEmployees struct {
	byID map[string]employee.Employee
}

func (m *memEmployees) GetByID(_ context.Context, id string) (employee.Employee, error) {
	if e, ok := m.byID[id]; ok {
		return e, nil
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
	return decimal.Zero, nil
}

func (m *memEmployees) UpdateLeaveCredits(_ context.Context, id string, balance decimal.Decimal) error {
	return nil
}

type allowAll struct{}

func (allowAll) HasCapability(context.Context, string, authz.Capability) (bool, error) {
	return true, nil
}

func newTestService(allowConcurrent bool, position employee.PositionCode, instant time.Time) (*Service, *memSessions) {
	sessions := &memSessions{byID: map[string]*attendance.Session{}}
	employees := &memEmployees{byID: map[string]employee.Employee{
		"emp-1": {ID: "emp-1", PositionCode: position, Active: true},
	}}
	svc := NewService(sessions, employees, authz.NewAuthorizer(allowAll{}), clock.Fixed{Instant: instant}, allowConcurrent)
	return svc, sessions
}

func TestClockIn_BucketsByOrgZone(t *testing.T) {
	// 17:30 UTC on March 10 is already March 11 in the org zone.
	svc, _ := newTestService(true, employee.PositionStaff, time.Date(2025, 3, 10, 17, 30, 0, 0, time.UTC))

	session, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", session.WorkDate)
	assert.True(t, session.Open())
}

func TestClockIn_ConcurrentSessions(t *testing.T) {
	instant := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)

	// Default: a second open session is permitted.
	svc, _ := newTestService(true, employee.PositionStaff, instant)
	_, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, err = svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	// Strict mode rejects it.
	svc, _ = newTestService(false, employee.PositionStaff, instant)
	_, err = svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)
	_, err = svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "emp-1"})
	assert.ErrorIs(t, err, attendance.ErrSessionAlreadyOpen)
}

func TestClockOut_FlooredToMinutes(t *testing.T) {
	start := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	svc, sessions := newTestService(true, employee.PositionStaff, start)

	session, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	// 89.9 minutes later floors to 89.
	later := NewService(sessions, &memEmployees{byID: map[string]employee.Employee{"emp-1": {ID: "emp-1", Active: true}}},
		authz.NewAuthorizer(allowAll{}), clock.Fixed{Instant: start.Add(89*time.Minute + 54*time.Second)}, true)

	closed, err := later.ClockOut(context.Background(), attendance.ClockOutRequest{EmployeeID: "emp-1", SessionID: session.ID})
	require.NoError(t, err)
	require.NotNil(t, closed.DurationMinutes)
	assert.Equal(t, 89, *closed.DurationMinutes)

	// Second clock-out is refused.
	_, err = later.ClockOut(context.Background(), attendance.ClockOutRequest{EmployeeID: "emp-1", SessionID: session.ID})
	assert.ErrorIs(t, err, attendance.ErrSessionAlreadyClosed)
}

func TestClockOut_OtherEmployeeForbidden(t *testing.T) {
	start := time.Date(2025, 3, 10, 1, 0, 0, 0, time.UTC)
	svc, _ := newTestService(true, employee.PositionStaff, start)

	session, err := svc.ClockIn(context.Background(), attendance.ClockInRequest{EmployeeID: "emp-1"})
	require.NoError(t, err)

	_, err = svc.ClockOut(context.Background(), attendance.ClockOutRequest{EmployeeID: "emp-2", SessionID: session.ID})
	assert.ErrorIs(t, err, authz.ErrForbidden)
}

func TestDailySummary_SumsMultipleSessions(t *testing.T) {
	svc, sessions := newTestService(true, employee.PositionStaff, time.Time{})

	d1, d2 := 120, 95
	sessions.byID["a"] = &attendance.Session{ID: "a", EmployeeID: "emp-1", WorkDate: "2025-03-10", DurationMinutes: &d1, ClockOut: &time.Time{}}
	sessions.byID["b"] = &attendance.Session{ID: "b", EmployeeID: "emp-1", WorkDate: "2025-03-10", DurationMinutes: &d2, ClockOut: &time.Time{}}
	// Open session contributes nothing.
	sessions.byID["c"] = &attendance.Session{ID: "c", EmployeeID: "emp-1", WorkDate: "2025-03-10"}

	summary, err := svc.DailySummary(context.Background(), attendance.DailySummaryRequest{EmployeeID: "emp-1", Date: "2025-03-10"})
	require.NoError(t, err)
	assert.Equal(t, 215, summary.TotalMinutesRaw)
	assert.Equal(t, 215, summary.TotalMinutesFinal)
	assert.False(t, summary.LunchDeducted)
}

func TestApplyLunchDeduction(t *testing.T) {
	tests := []struct {
		name     string
		position employee.PositionCode
		raw      int
		want     int
		deducted bool
	}{
		{"field engineer above threshold", employee.PositionFieldEngineer, 480, 420, true},
		{"field engineer at threshold", employee.PositionFieldEngineer, 300, 300, false},
		{"field engineer just above threshold", employee.PositionFieldEngineer, 301, 241, true},
		{"field engineer below threshold", employee.PositionFieldEngineer, 299, 299, false},
		{"staff above threshold", employee.PositionStaff, 480, 480, false},
		{"ops director above threshold", employee.PositionOperationsDirector, 600, 600, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			final, deducted := ApplyLunchDeduction(tt.position, tt.raw)
			assert.Equal(t, tt.want, final)
			assert.Equal(t, tt.deducted, deducted)
		})
	}
}
