package employee

import (
	"context"

	"github.com/shopspring/decimal"
)

type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)
	GetPositionCode(ctx context.Context, id string) (PositionCode, error)

	// Lock takes a row lock on the employee without reading anything. Must
	// be called inside a transaction; used to serialize check-then-insert
	// sequences that hang a uniqueness invariant off the employee.
	Lock(ctx context.Context, id string) error

	// LockLeaveCredits reads the employee's balance with a row lock. Must be
	// called inside a transaction; the lock is held until commit so racing
	// debits serialize on the employee row.
	LockLeaveCredits(ctx context.Context, id string) (decimal.Decimal, error)

	// UpdateLeaveCredits writes the balance. Joins the caller's transaction.
	UpdateLeaveCredits(ctx context.Context, id string, balance decimal.Decimal) error
}
