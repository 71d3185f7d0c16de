package attendance

import "context"

type SessionRepository interface {
	Create(ctx context.Context, session Session) (Session, error)
	GetByID(ctx context.Context, id string) (Session, error)
	Update(ctx context.Context, session Session) error

	// ListByEmployeeAndDate returns all sessions of the employee on the
	// given local civil date, oldest first.
	ListByEmployeeAndDate(ctx context.Context, employeeID, workDate string) ([]Session, error)

	// HasOpenSession reports whether the employee has any session without a
	// clock-out.
	HasOpenSession(ctx context.Context, employeeID string) (bool, error)
}
