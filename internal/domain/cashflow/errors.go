package cashflow

import "errors"

var (
	ErrCashAdvanceNotFound = errors.New("Cash advance request not found")
	ErrLiquidationNotFound = errors.New("Liquidation request not found")
	ErrAttachmentNotFound  = errors.New("Attachment not found")
	ErrAlreadyReviewed     = errors.New("Review level already decided")
	ErrReviewStarted       = errors.New("Request can no longer be changed once review has started")
	ErrInvalidTransition   = errors.New("Request state does not allow this transition")
	ErrAdvanceNotApproved  = errors.New("Cash advance must be approved before liquidation")
)
