package attendance

import "time"

// Session is one clock-in/clock-out pair. An employee may hold several
// sessions per local date; re-clocking opens a new row rather than touching
// the old one. Rows are never deleted.
type Session struct {
	ID         string
	EmployeeID string
	// WorkDate is the civil date in the organization zone the session was
	// opened on, precomputed at clock-in so day queries never re-bucket.
	WorkDate string

	ClockIn  time.Time
	ClockOut *time.Time

	// DurationMinutes is clock_out - clock_in floored to minutes; nil while
	// the session is open.
	DurationMinutes *int

	// Geolocation metadata, informational only. Stored verbatim, never
	// validated against any geofence.
	ClockInLatitude   *float64
	ClockInLongitude  *float64
	ClockOutLatitude  *float64
	ClockOutLongitude *float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Open reports whether the session has not been clocked out yet.
func (s Session) Open() bool {
	return s.ClockOut == nil
}

// DailySummary aggregates all sessions of one (employee, date).
type DailySummary struct {
	EmployeeID string
	WorkDate   string

	TotalMinutesRaw   int
	TotalMinutesFinal int
	LunchDeducted     bool
	Sessions          []Session
}

const (
	// LunchDeductionMinutes is subtracted once per qualifying day, flat and
	// never prorated.
	LunchDeductionMinutes = 60

	// LunchThresholdMinutes is the raw daily total a field engineer must
	// exceed before the lunch deduction applies.
	LunchThresholdMinutes = 300
)
