package overtime

import "context"

type OvertimeRepository interface {
	Create(ctx context.Context, request OvertimeRequest) (OvertimeRequest, error)
	GetByID(ctx context.Context, id string) (OvertimeRequest, error)

	// GetByIDForUpdate reads the request with a row lock. Must run inside a
	// transaction.
	GetByIDForUpdate(ctx context.Context, id string) (OvertimeRequest, error)

	// UpdateReview persists both levels and the recomputed final status in
	// one statement.
	UpdateReview(ctx context.Context, request OvertimeRequest) error

	// UpdateTimes persists a submitter edit of the not-yet-reviewed request.
	UpdateTimes(ctx context.Context, request OvertimeRequest) error

	Delete(ctx context.Context, id string) error

	// HasActiveForDate reports whether any request for (employee, workDate)
	// has a final status other than rejected. A new submission is allowed
	// only when this is false.
	HasActiveForDate(ctx context.Context, employeeID, workDate string) (bool, error)

	List(ctx context.Context, filter ListFilter) ([]OvertimeRequest, int64, error)
}

type OvertimeService interface {
	Submit(ctx context.Context, req SubmitRequest) (OvertimeRequest, error)
	Review(ctx context.Context, req ReviewRequest) (OvertimeRequest, error)
	Edit(ctx context.Context, req EditRequest) (OvertimeRequest, error)
	Delete(ctx context.Context, requestID, employeeID string) error
	List(ctx context.Context, callerID string, filter ListFilter) ([]OvertimeRequest, int64, error)
}
