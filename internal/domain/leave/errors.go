package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("Leave request not found")
	ErrInsufficientCredits  = errors.New("Insufficient leave credits")
	ErrOverlappingRequest   = errors.New("Leave request overlaps an approved request")
	ErrAlreadyReviewed      = errors.New("Leave request already reviewed")
	ErrInvalidTransition    = errors.New("Leave request state does not allow this transition")
)
