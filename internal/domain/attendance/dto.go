package attendance

import (
	"github.com/fieldops-hq/hrops-backend/internal/pkg/validator"
)

// GeoPoint is optional clock-in/out location metadata.
type GeoPoint struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type ClockInRequest struct {
	EmployeeID string    `json:"-"`
	Location   *GeoPoint `json:"location,omitempty"`
}

type ClockOutRequest struct {
	EmployeeID string    `json:"-"`
	SessionID  string    `json:"session_id"`
	Location   *GeoPoint `json:"location,omitempty"`
}

func (r ClockOutRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.SessionID) {
		errs = append(errs, validator.ValidationError{Field: "session_id", Message: "Session ID is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CorrectSessionRequest is an authorized manual fix of a recorded session.
type CorrectSessionRequest struct {
	CallerID  string  `json:"-"`
	SessionID string  `json:"-"`
	ClockIn   string  `json:"clock_in"`            // RFC3339
	ClockOut  *string `json:"clock_out,omitempty"` // RFC3339, nil reopens the session
}

func (r CorrectSessionRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.ClockIn) {
		errs = append(errs, validator.ValidationError{Field: "clock_in", Message: "Clock-in time is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type DailySummaryRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
}

func (r DailySummaryRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
