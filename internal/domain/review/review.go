// Package review holds the two-checkpoint approval machinery shared by
// overtime and cash-flow requests. Each level is an independent slot with
// its own reviewer and outcome; the externally visible final status is
// always derived from the slots, never stored on its own.
package review

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Level is one review slot. Reviewer fields are set exactly when Status is
// not pending.
type Level struct {
	Status     Status
	ReviewerID *string
	ReviewedAt *time.Time
	Comment    *string
}

func NewPending() Level {
	return Level{Status: StatusPending}
}

func Approved(reviewerID string, at time.Time, comment *string) Level {
	return Level{Status: StatusApproved, ReviewerID: &reviewerID, ReviewedAt: &at, Comment: comment}
}

func Rejected(reviewerID string, at time.Time, comment *string) Level {
	return Level{Status: StatusRejected, ReviewerID: &reviewerID, ReviewedAt: &at, Comment: comment}
}

func (l Level) IsPending() bool {
	return l.Status == StatusPending
}

// FinalStatus derives the outcome of a two-level approval: approved only
// when both levels approved, rejected as soon as either level rejects,
// pending otherwise.
func FinalStatus(level1, level2 Level) Status {
	switch {
	case level1.Status == StatusRejected:
		return StatusRejected
	case level2.Status == StatusRejected:
		return StatusRejected
	case level1.Status == StatusApproved && level2.Status == StatusApproved:
		return StatusApproved
	default:
		return StatusPending
	}
}
