package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// GetByIDForUpdate reads the request with a row lock so two reviews of
	// the same record serialize. Must run inside a transaction.
	GetByIDForUpdate(ctx context.Context, id string) (LeaveRequest, error)

	// UpdateReview writes the status transition and its audit fields.
	UpdateReview(ctx context.Context, request LeaveRequest) error

	// HasApprovedOverlap checks the inclusive date range against approved
	// requests of the employee. Pending requests are deliberately ignored.
	HasApprovedOverlap(ctx context.Context, employeeID string, start, end time.Time) (bool, error)

	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, int64, error)
}
