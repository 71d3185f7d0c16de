// Package clock centralizes time handling. All instants are stored in UTC;
// every civil-date decision (attendance day bucketing, one-overtime-per-day,
// leave ranges) is made in the single organization timezone so that replicas
// in different regions bucket the same instant into the same date.
package clock

import "time"

// OrgZone is the organization's civil timezone. Attendance days, overtime
// dates and leave ranges are all evaluated in this zone, never in server
// local time.
var OrgZone = time.FixedZone("UTC+8", 8*60*60)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"

	minutesPerDay = 24 * 60
)

// Clock abstracts time.Now so services can be tested with a fixed instant.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// NewRealClock returns a Clock backed by the system time, in UTC.
func NewRealClock() Clock { return realClock{} }

// Fixed is a Clock pinned to one instant, for tests.
type Fixed struct{ Instant time.Time }

func (f Fixed) Now() time.Time { return f.Instant.UTC() }

// LocalDate returns the civil date of t in the organization zone.
func LocalDate(t time.Time) string {
	return t.In(OrgZone).Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD civil date in the organization zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, OrgZone)
}

// DayBounds returns the UTC instants [from, to) covering the given civil
// date in the organization zone.
func DayBounds(date string) (time.Time, time.Time, error) {
	day, err := ParseDate(date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	from := day.UTC()
	return from, from.Add(24 * time.Hour), nil
}

// InclusiveDays counts calendar days between two civil dates, both ends
// included. Callers must reject end < start before calling.
func InclusiveDays(start, end time.Time) int {
	s := start.In(OrgZone)
	e := end.In(OrgZone)
	s = time.Date(s.Year(), s.Month(), s.Day(), 0, 0, 0, 0, OrgZone)
	e = time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, OrgZone)
	return int(e.Sub(s).Hours()/24) + 1
}

// MinutesOfDay parses an HH:MM clock time into minutes since midnight.
func MinutesOfDay(s string) (int, error) {
	t, err := time.Parse(TimeLayout, s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

// SpanMinutes returns the duration in minutes between two clock times on the
// same or adjacent days. An end earlier than the start means the span crosses
// midnight and is wrapped by 24 hours.
func SpanMinutes(startMin, endMin int) int {
	if endMin < startMin {
		endMin += minutesPerDay
	}
	return endMin - startMin
}
