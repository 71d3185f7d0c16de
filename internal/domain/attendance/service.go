package attendance

import "context"

type AttendanceService interface {
	ClockIn(ctx context.Context, req ClockInRequest) (Session, error)
	ClockOut(ctx context.Context, req ClockOutRequest) (Session, error)
	CorrectSession(ctx context.Context, req CorrectSessionRequest) (Session, error)
	DailySummary(ctx context.Context, req DailySummaryRequest) (DailySummary, error)
}
