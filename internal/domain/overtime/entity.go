package overtime

import (
	"time"

	"github.com/fieldops-hq/hrops-backend/internal/domain/review"
)

// OvertimeRequest entity. Start and end are local clock times on WorkDate;
// an end earlier than the start means the overtime ran past midnight.
type OvertimeRequest struct {
	ID         string
	EmployeeID string
	WorkDate   string // civil date, organization zone

	StartTime       string // HH:MM
	EndTime         string // HH:MM
	DurationMinutes int

	Reason string

	Level1 review.Level
	Level2 review.Level
	// FinalStatus is persisted for querying but is always recomputed from
	// the levels on every write; it never drifts from them.
	FinalStatus review.Status

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationHours is the reviewer-facing rendering of the span.
func (r OvertimeRequest) DurationHours() float64 {
	return float64(r.DurationMinutes) / 60
}

// Editable reports whether the submitter may still edit or delete. Level 1
// alone is the gate: a request whose second level was reviewed first stays
// editable until the level 1 decision lands.
func (r OvertimeRequest) Editable() bool {
	return r.Level1.IsPending()
}

// SystemComment marks level stamps written by the auto-approval rule rather
// than a human reviewer.
const SystemComment = "auto-approved on submission"
