package leave

import (
	"github.com/fieldops-hq/hrops-backend/internal/pkg/validator"
)

type SubmitRequest struct {
	EmployeeID string `json:"-"`
	Type       string `json:"type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

func (r SubmitRequest) Validate() error {
	var errs validator.ValidationErrors
	if !LeaveType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "Unknown leave type"})
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{Field: "start_date", Message: "Start date must be in YYYY-MM-DD format"})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "End date must be in YYYY-MM-DD format"})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{Field: "end_date", Message: "End date must not be before start date"})
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
	Decision   ReviewDecision `json:"decision"`
	Comment    *string        `json:"comment,omitempty"`
}

func (r ReviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.Decision != DecisionApprove && r.Decision != DecisionReject {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "Decision must be approve or reject"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RevokeRequest struct {
	RequestID  string  `json:"-"`
	ReviewerID string  `json:"-"`
	Comment    *string `json:"comment,omitempty"`
}

type ListFilter struct {
	EmployeeID *string
	Status     *Status
	Limit      int
	Offset     int
}
