package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/fieldops-hq/hrops-backend/internal/domain/attendance"
	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/clock"
)

type Service struct {
	sessions  attendance.SessionRepository
	employees employee.EmployeeRepository

	authorizer *authz.Authorizer
	clock      clock.Clock

	// allowConcurrent permits a clock-in while another session is open.
	allowConcurrent bool
}

func NewService(
	sessions attendance.SessionRepository,
	employees employee.EmployeeRepository,
	authorizer *authz.Authorizer,
	clk clock.Clock,
	allowConcurrent bool,
) *Service {
	return &Service{
		sessions:        sessions,
		employees:       employees,
		authorizer:      authorizer,
		clock:           clk,
		allowConcurrent: allowConcurrent,
	}
}

// ClockIn opens a new session. Re-clocking on the same day is always a new
// row; whether an open session blocks it is a deployment decision.
func (s *Service) ClockIn(ctx context.Context, req attendance.ClockInRequest) (attendance.Session, error) {
	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Session{}, err
	}
	if !emp.Active {
		return attendance.Session{}, employee.ErrEmployeeInactive
	}

	if !s.allowConcurrent {
		open, err := s.sessions.HasOpenSession(ctx, req.EmployeeID)
		if err != nil {
			return attendance.Session{}, fmt.Errorf("failed to check open sessions: %w", err)
		}
		if open {
			return attendance.Session{}, attendance.ErrSessionAlreadyOpen
		}
	}

	now := s.clock.Now()
	session := attendance.Session{
		EmployeeID: req.EmployeeID,
		WorkDate:   clock.LocalDate(now),
		ClockIn:    now,
	}
	if req.Location != nil {
		session.ClockInLatitude = &req.Location.Latitude
		session.ClockInLongitude = &req.Location.Longitude
	}

	created, err := s.sessions.Create(ctx, session)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to create attendance session: %w", err)
	}
	return created, nil
}

// ClockOut closes a session. A second clock-out is an error, not a no-op,
// so the stored duration is written exactly once.
func (s *Service) ClockOut(ctx context.Context, req attendance.ClockOutRequest) (attendance.Session, error) {
	if err := req.Validate(); err != nil {
		return attendance.Session{}, err
	}

	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return attendance.Session{}, err
	}
	if session.EmployeeID != req.EmployeeID {
		return attendance.Session{}, authz.ErrForbidden
	}
	if !session.Open() {
		return attendance.Session{}, attendance.ErrSessionAlreadyClosed
	}

	now := s.clock.Now()
	if now.Before(session.ClockIn) {
		return attendance.Session{}, attendance.ErrClockOutBeforeIn
	}

	duration := int(now.Sub(session.ClockIn).Minutes())
	session.ClockOut = &now
	session.DurationMinutes = &duration
	if req.Location != nil {
		session.ClockOutLatitude = &req.Location.Latitude
		session.ClockOutLongitude = &req.Location.Longitude
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return attendance.Session{}, fmt.Errorf("failed to update attendance session: %w", err)
	}
	return session, nil
}

// CorrectSession is the authorized manual fix. It rewrites both instants and
// recomputes duration and the work date from the new clock-in.
func (s *Service) CorrectSession(ctx context.Context, req attendance.CorrectSessionRequest) (attendance.Session, error) {
	if err := req.Validate(); err != nil {
		return attendance.Session{}, err
	}
	if err := s.authorizer.Can(ctx, req.CallerID, authz.CapEditTimeEntries); err != nil {
		return attendance.Session{}, err
	}

	session, err := s.sessions.GetByID(ctx, req.SessionID)
	if err != nil {
		return attendance.Session{}, err
	}

	clockIn, err := time.Parse(time.RFC3339, req.ClockIn)
	if err != nil {
		return attendance.Session{}, fmt.Errorf("failed to parse clock-in time: %w", err)
	}
	session.ClockIn = clockIn.UTC()
	session.WorkDate = clock.LocalDate(session.ClockIn)

	if req.ClockOut != nil {
		clockOut, err := time.Parse(time.RFC3339, *req.ClockOut)
		if err != nil {
			return attendance.Session{}, fmt.Errorf("failed to parse clock-out time: %w", err)
		}
		out := clockOut.UTC()
		if out.Before(session.ClockIn) {
			return attendance.Session{}, attendance.ErrClockOutBeforeIn
		}
		duration := int(out.Sub(session.ClockIn).Minutes())
		session.ClockOut = &out
		session.DurationMinutes = &duration
	} else {
		session.ClockOut = nil
		session.DurationMinutes = nil
	}

	if err := s.sessions.Update(ctx, session); err != nil {
		return attendance.Session{}, fmt.Errorf("failed to update attendance session: %w", err)
	}
	return session, nil
}

// DailySummary aggregates the employee's closed sessions on one local date
// and applies the lunch deduction when it qualifies.
func (s *Service) DailySummary(ctx context.Context, req attendance.DailySummaryRequest) (attendance.DailySummary, error) {
	if err := req.Validate(); err != nil {
		return attendance.DailySummary{}, err
	}

	position, err := s.employees.GetPositionCode(ctx, req.EmployeeID)
	if err != nil {
		return attendance.DailySummary{}, err
	}

	sessions, err := s.sessions.ListByEmployeeAndDate(ctx, req.EmployeeID, req.Date)
	if err != nil {
		return attendance.DailySummary{}, fmt.Errorf("failed to list attendance sessions: %w", err)
	}

	raw := 0
	for _, session := range sessions {
		if session.DurationMinutes != nil {
			raw += *session.DurationMinutes
		}
	}

	final, deducted := ApplyLunchDeduction(position, raw)

	return attendance.DailySummary{
		EmployeeID:        req.EmployeeID,
		WorkDate:          req.Date,
		TotalMinutesRaw:   raw,
		TotalMinutesFinal: final,
		LunchDeducted:     deducted,
		Sessions:          sessions,
	}, nil
}

// ApplyLunchDeduction subtracts the flat lunch hour for field engineers
// whose raw day exceeds the threshold. Exactly one hour, never scaled.
func ApplyLunchDeduction(position employee.PositionCode, rawMinutes int) (finalMinutes int, deducted bool) {
	if position == employee.PositionFieldEngineer && rawMinutes > attendance.LunchThresholdMinutes {
		return rawMinutes - attendance.LunchDeductionMinutes, true
	}
	return rawMinutes, false
}
