// Package authz evaluates who may transition or see which record. Two
// independent predicates compose in a fixed order: the capability check runs
// first on every mutating or listing operation, then the confidentiality
// filter narrows what a permitted caller can see.
package authz

import (
	"context"

	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
)

// Capability names a permission consulted once per mutating operation.
type Capability string

const (
	CapApproveLeave      Capability = "approve_leave"
	CapEditTimeEntries   Capability = "edit_time_entries"
	CapManageCashFlow    Capability = "manage_cash_flow"
	CapManageLiquidation Capability = "manage_liquidation"
)

// CapabilityRepository is the read-only permission lookup. The table behind
// it is managed elsewhere.
type CapabilityRepository interface {
	HasCapability(ctx context.Context, employeeID string, capability Capability) (bool, error)
}

type Authorizer struct {
	capabilities CapabilityRepository
}

func NewAuthorizer(capabilities CapabilityRepository) *Authorizer {
	return &Authorizer{capabilities: capabilities}
}

// Can returns nil when employeeID holds the capability. Lookup failures fail
// closed: the caller gets ErrForbidden, never the underlying error.
func (a *Authorizer) Can(ctx context.Context, employeeID string, capability Capability) error {
	ok, err := a.capabilities.HasCapability(ctx, employeeID, capability)
	if err != nil || !ok {
		return ErrForbidden
	}
	return nil
}

// sensitivePositions originate requests that are hidden from ordinary
// reviewers. confidentialViewers is the disjoint allow-list that may still
// see them.
var sensitivePositions = map[employee.PositionCode]bool{
	employee.PositionExecutiveDirector: true,
	employee.PositionFinanceController: true,
}

var confidentialViewers = map[employee.PositionCode]bool{
	employee.PositionExecutiveDirector: true,
	employee.PositionHRManager:         true,
}

// IsSensitivePosition reports whether requests originated by the position
// fall under the confidentiality rule.
func IsSensitivePosition(p employee.PositionCode) bool {
	return sensitivePositions[p]
}

// CanViewConfidential reports whether a caller position may see requests
// from sensitive originators. Own requests are always visible; that
// exception belongs to the caller, not this predicate.
func CanViewConfidential(viewer employee.PositionCode) bool {
	return confidentialViewers[viewer]
}

// IsVisible is the confidentiality predicate applied after the capability
// check: a record is visible unless its originator is sensitive and the
// viewer lacks the override.
func IsVisible(originator, viewer employee.PositionCode) bool {
	if !IsSensitivePosition(originator) {
		return true
	}
	return CanViewConfidential(viewer)
}

// SensitivePositionCodes returns the sensitive originator codes for SQL
// list filters.
func SensitivePositionCodes() []string {
	codes := make([]string, 0, len(sensitivePositions))
	for p := range sensitivePositions {
		codes = append(codes, string(p))
	}
	return codes
}
