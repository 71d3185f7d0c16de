package overtime

import (
	"github.com/fieldops-hq/hrops-backend/internal/pkg/validator"
)

type SubmitRequest struct {
	EmployeeID string `json:"-"`
	Date       string `json:"date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Reason     string `json:"reason"`
}

func (r SubmitRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "Date must be in YYYY-MM-DD format"})
	}
	if !validator.IsValidClockTime(r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "Start time must be in HH:MM format"})
	}
	if !validator.IsValidClockTime(r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "End time must be in HH:MM format"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "Reason is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionReject  ReviewDecision = "reject"
)

type ReviewRequest struct {
	RequestID  string         `json:"-"`
	ReviewerID string         `json:"-"`
	Level      int            `json:"level"`
	Decision   ReviewDecision `json:"decision"`
	Comment    *string        `json:"comment,omitempty"`
}

func (r ReviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Level != 1 && r.Level != 2 {
		errs = append(errs, validator.ValidationError{Field: "level", Message: "Level must be 1 or 2"})
	}
	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "Decision must be approve or reject"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EditRequest struct {
	RequestID  string `json:"-"`
	EmployeeID string `json:"-"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Reason     string `json:"reason"`
}

func (r EditRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidClockTime(r.StartTime) {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "Start time must be in HH:MM format"})
	}
	if !validator.IsValidClockTime(r.EndTime) {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "End time must be in HH:MM format"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "Reason is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListFilter struct {
	EmployeeID *string
	WorkDate   *string
	Limit      int
	Offset     int
}
