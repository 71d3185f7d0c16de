package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT id, employee_code, full_name, email, position_code,
			   leave_credits::text, active, created_at, updated_at
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	var credits string
	err := q.QueryRow(ctx, query, id).Scan(
		&emp.ID,
		&emp.EmployeeCode,
		&emp.FullName,
		&emp.Email,
		&emp.PositionCode,
		&credits,
		&emp.Active,
		&emp.CreatedAt,
		&emp.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, err
	}

	emp.LeaveCredits, err = decimal.NewFromString(credits)
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to parse leave credits: %w", err)
	}
	return emp, nil
}

func (r *employeeRepositoryImpl) GetPositionCode(ctx context.Context, id string) (employee.PositionCode, error) {
	q := r.db.GetQuerier(ctx)

	var code employee.PositionCode
	err := q.QueryRow(ctx, `SELECT position_code FROM employees WHERE id = $1`, id).Scan(&code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", employee.ErrEmployeeNotFound
		}
		return "", err
	}
	return code, nil
}

func (r *employeeRepositoryImpl) Lock(ctx context.Context, id string) error {
	q := r.db.GetQuerier(ctx)

	var locked string
	err := q.QueryRow(ctx, `SELECT id FROM employees WHERE id = $1 FOR UPDATE`, id).Scan(&locked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.ErrEmployeeNotFound
		}
		return err
	}
	return nil
}

func (r *employeeRepositoryImpl) LockLeaveCredits(ctx context.Context, id string) (decimal.Decimal, error) {
	q := r.db.GetQuerier(ctx)

	query := `
		SELECT leave_credits::text
		FROM employees
		WHERE id = $1
		FOR UPDATE
	`

	var credits string
	err := q.QueryRow(ctx, query, id).Scan(&credits)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, employee.ErrEmployeeNotFound
		}
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(credits)
}

func (r *employeeRepositoryImpl) UpdateLeaveCredits(ctx context.Context, id string, balance decimal.Decimal) error {
	q := r.db.GetQuerier(ctx)

	query := `
		UPDATE employees
		SET leave_credits = $2, updated_at = NOW()
		WHERE id = $1
	`

	commandTag, err := q.Exec(ctx, query, id, balance.String())
	if err != nil {
		return err
	}
	if commandTag.RowsAffected() != 1 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}
