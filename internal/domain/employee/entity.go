package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

// PositionCode drives authorization, pay rules and visibility. The set is
// fixed; the capability table maps codes to what they may do.
type PositionCode string

const (
	PositionStaff              PositionCode = "staff"
	PositionFieldEngineer      PositionCode = "field_engineer"
	PositionTeamLead           PositionCode = "team_lead"
	PositionHRManager          PositionCode = "hr_manager"
	PositionFinanceController  PositionCode = "finance_controller"
	PositionOperationsDirector PositionCode = "operations_director"
	PositionExecutiveDirector  PositionCode = "executive_director"
)

// Employee entity. Never physically deleted; Active=false soft-disables.
// LeaveCredits is the single running paid-leave balance, mutated only by the
// leave workflow or administrative override, and never negative.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	PositionCode PositionCode
	LeaveCredits decimal.Decimal
	Active       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}
