package overtime

import "errors"

var (
	ErrOvertimeNotFound = errors.New("Overtime request not found")
	ErrDuplicateForDate = errors.New("An overtime request already exists for this date")
	ErrAlreadyReviewed  = errors.New("Overtime review level already decided")
	ErrReviewStarted    = errors.New("Overtime request can no longer be changed once review has started")
)
