package leave

import (
	"context"
	"fmt"

	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/domain/leave"
	"github.com/shopspring/decimal"
)

// CreditLedger owns the per-employee leave-credit balance. Mutations run
// inside the caller's transaction and take a row lock on the employee, so
// two approvals racing for the last credits serialize and the second one
// fails instead of driving the balance negative.
type CreditLedger struct {
	employees employee.EmployeeRepository
}

func NewCreditLedger(employees employee.EmployeeRepository) *CreditLedger {
	return &CreditLedger{employees: employees}
}

// Balance reads the current balance without locking. Used for the
// informational sufficiency check at submission time.
func (l *CreditLedger) Balance(ctx context.Context, employeeID string) (decimal.Decimal, error) {
	emp, err := l.employees.GetByID(ctx, employeeID)
	if err != nil {
		return decimal.Zero, err
	}
	return emp.LeaveCredits, nil
}

// Debit subtracts days from the balance. Must run inside a transaction; the
// sufficiency check happens under the row lock, so it cannot be invalidated
// by a concurrent approval.
func (l *CreditLedger) Debit(ctx context.Context, employeeID string, days int) error {
	balance, err := l.employees.LockLeaveCredits(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to lock leave credits: %w", err)
	}

	amount := decimal.NewFromInt(int64(days))
	next := balance.Sub(amount)
	if next.IsNegative() {
		return leave.ErrInsufficientCredits
	}

	if err := l.employees.UpdateLeaveCredits(ctx, employeeID, next); err != nil {
		return fmt.Errorf("failed to update leave credits: %w", err)
	}
	return nil
}

// Credit returns days to the balance, used on revocation.
func (l *CreditLedger) Credit(ctx context.Context, employeeID string, days int) error {
	balance, err := l.employees.LockLeaveCredits(ctx, employeeID)
	if err != nil {
		return fmt.Errorf("failed to lock leave credits: %w", err)
	}

	next := balance.Add(decimal.NewFromInt(int64(days)))
	if err := l.employees.UpdateLeaveCredits(ctx, employeeID, next); err != nil {
		return fmt.Errorf("failed to update leave credits: %w", err)
	}
	return nil
}
