package authz

import (
	"context"
	"errors"
	"testing"

	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/stretchr/testify/assert"
)

type stubCapabilities struct {
	granted map[string]bool
	err     error
}

func (s stubCapabilities) HasCapability(_ context.Context, employeeID string, capability Capability) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.granted[employeeID+":"+string(capability)], nil
}

func TestAuthorizer_Can(t *testing.T) {
	a := NewAuthorizer(stubCapabilities{granted: map[string]bool{
		"emp-1:approve_leave": true,
	}})

	assert.NoError(t, a.Can(context.Background(), "emp-1", CapApproveLeave))
	assert.ErrorIs(t, a.Can(context.Background(), "emp-1", CapManageCashFlow), ErrForbidden)
	assert.ErrorIs(t, a.Can(context.Background(), "emp-2", CapApproveLeave), ErrForbidden)
}

func TestAuthorizer_FailsClosedOnLookupError(t *testing.T) {
	a := NewAuthorizer(stubCapabilities{err: errors.New("connection reset")})

	err := a.Can(context.Background(), "emp-1", CapApproveLeave)
	assert.ErrorIs(t, err, ErrForbidden)
	// The lookup failure must not leak through the error chain.
	assert.Equal(t, ErrForbidden.Error(), err.Error())
}

func TestIsVisible(t *testing.T) {
	tests := []struct {
		name       string
		originator employee.PositionCode
		viewer     employee.PositionCode
		want       bool
	}{
		{"ordinary originator, ordinary viewer", employee.PositionStaff, employee.PositionTeamLead, true},
		{"sensitive originator, ordinary viewer", employee.PositionExecutiveDirector, employee.PositionTeamLead, false},
		{"sensitive originator, hr manager", employee.PositionFinanceController, employee.PositionHRManager, true},
		{"sensitive originator, executive viewer", employee.PositionFinanceController, employee.PositionExecutiveDirector, true},
		{"ordinary originator, field engineer viewer", employee.PositionFieldEngineer, employee.PositionFieldEngineer, true},
		// Approval power alone never grants confidential visibility.
		{"sensitive originator, operations director", employee.PositionExecutiveDirector, employee.PositionOperationsDirector, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVisible(tt.originator, tt.viewer))
		})
	}
}

func TestSensitivePositionCodes(t *testing.T) {
	codes := SensitivePositionCodes()
	assert.ElementsMatch(t, []string{"executive_director", "finance_controller"}, codes)
}
