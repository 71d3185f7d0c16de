package leave

import "time"

type LeaveType string

const (
	TypeOrdinary  LeaveType = "ordinary"
	TypeSick      LeaveType = "sick"
	TypeEmergency LeaveType = "emergency"
	TypeUnpaid    LeaveType = "unpaid"
	TypeHoliday   LeaveType = "holiday"
)

// DeductsCredits reports whether the type draws on the leave-credit ledger.
// Unpaid and holiday leave never touch the balance.
func (t LeaveType) DeductsCredits() bool {
	return t != TypeUnpaid && t != TypeHoliday
}

func (t LeaveType) Valid() bool {
	switch t {
	case TypeOrdinary, TypeSick, TypeEmergency, TypeUnpaid, TypeHoliday:
		return true
	}
	return false
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	// StatusRevoked is soft-terminal, reachable only from approved. Rows are
	// never physically deleted.
	StatusRevoked Status = "revoked"
)

// LeaveRequest entity. Start and end dates are inclusive civil dates in the
// organization zone.
type LeaveRequest struct {
	ID         string
	EmployeeID string
	Type       LeaveType

	StartDate    time.Time
	EndDate      time.Time
	DurationDays int

	Reason string
	Status Status

	ReviewerID      *string
	ReviewedAt      *time.Time
	ReviewerComment *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTransitionTo encodes the only legal edges:
// pending -> approved|rejected, approved -> revoked.
func (r LeaveRequest) CanTransitionTo(next Status) bool {
	switch r.Status {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusRevoked
	default:
		return false
	}
}

// Overlaps is the inclusive-inclusive range intersection test used by the
// submission overlap check.
func (r LeaveRequest) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}
