package cashflow

import (
	"github.com/fieldops-hq/hrops-backend/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type SubmitAdvanceRequest struct {
	EmployeeID string `json:"-"`
	Amount     string `json:"amount"`
	Purpose    string `json:"purpose"`
	Type       string `json:"type"`
}

func (r SubmitAdvanceRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.IsValidAmount(r.Amount) {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "Amount must be a positive number"})
	} else if amt, err := decimal.NewFromString(r.Amount); err != nil || !amt.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "amount", Message: "Amount must be greater than zero"})
	}
	if validator.IsEmpty(r.Purpose) {
		errs = append(errs, validator.ValidationError{Field: "purpose", Message: "Purpose is required"})
	}
	if !AdvanceType(r.Type).Valid() {
		errs = append(errs, validator.ValidationError{Field: "type", Message: "Type must be personal or support"})
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

type EditAdvanceRequest struct {
	RequestID  string `json:"-"`
	EmployeeID string `json:"-"`
	Amount     string `json:"amount"`
	Purpose    string `json:"purpose"`
	Type       string `json:"type"`
}

func (r EditAdvanceRequest) Validate() error {
	return SubmitAdvanceRequest{Amount: r.Amount, Purpose: r.Purpose, Type: r.Type}.Validate()
}

type ItemInput struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

func validateItems(items []ItemInput, errs validator.ValidationErrors) validator.ValidationErrors {
	if len(items) == 0 {
		errs = append(errs, validator.ValidationError{Field: "items", Message: "At least one expense line is required"})
	}
	for i, item := range items {
		if validator.IsEmpty(item.Category) {
			errs = append(errs, validator.ValidationError{Field: "items[" + validator.Itoa(i) + "].category", Message: "Category is required"})
		}
		if !validator.IsValidAmount(item.Amount) {
			errs = append(errs, validator.ValidationError{Field: "items[" + validator.Itoa(i) + "].amount", Message: "Amount must be a positive number"})
		}
	}
	return errs
}

type SubmitLiquidationRequest struct {
	EmployeeID    string      `json:"-"`
	CashAdvanceID string      `json:"cash_advance_id"`
	Remarks       string      `json:"remarks"`
	Items         []ItemInput `json:"items"`
}

func (r SubmitLiquidationRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.CashAdvanceID) {
		errs = append(errs, validator.ValidationError{Field: "cash_advance_id", Message: "Cash advance ID is required"})
	}
	errs = validateItems(r.Items, errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// EditItemsRequest replaces the full item list and removes the named
// attachments in one call.
type EditItemsRequest struct {
	LiquidationID       string      `json:"-"`
	EmployeeID          string      `json:"-"`
	Remarks             string      `json:"remarks"`
	Items               []ItemInput `json:"items"`
	RemoveAttachmentIDs []string    `json:"remove_attachment_ids,omitempty"`
}

func (r EditItemsRequest) Validate() error {
	var errs validator.ValidationErrors
	errs = validateItems(r.Items, errs)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReopenRequest struct {
	RequestID string `json:"-"`
	CallerID  string `json:"-"`
}

type ListFilter struct {
	EmployeeID *string
	Limit      int
	Offset     int

	// ExcludeSensitive holds the originator position codes the caller may
	// not see; empty when the caller can view confidential requests.
	ExcludeSensitive []string
}
