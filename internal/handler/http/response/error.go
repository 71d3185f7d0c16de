package response

import (
	"context"
	"errors"
	"net/http"

	"github.com/fieldops-hq/hrops-backend/internal/domain/attendance"
	"github.com/fieldops-hq/hrops-backend/internal/domain/authz"
	"github.com/fieldops-hq/hrops-backend/internal/domain/cashflow"
	"github.com/fieldops-hq/hrops-backend/internal/domain/employee"
	"github.com/fieldops-hq/hrops-backend/internal/domain/leave"
	"github.com/fieldops-hq/hrops-backend/internal/domain/overtime"
	"github.com/fieldops-hq/hrops-backend/internal/pkg/validator"
	"github.com/jackc/pgx/v5/pgconn"
)

// HandleError maps domain errors to HTTP responses.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Authorization: one opaque message, no capability detail.
	case errors.Is(err, authz.ErrForbidden):
		Forbidden(w, "You are not allowed to perform this action")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is inactive")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrSessionNotFound):
		NotFound(w, "Attendance session not found")
	case errors.Is(err, attendance.ErrSessionAlreadyClosed):
		Conflict(w, "Attendance session already clocked out")
	case errors.Is(err, attendance.ErrSessionAlreadyOpen):
		Conflict(w, "An attendance session is already open")
	case errors.Is(err, attendance.ErrClockOutBeforeIn):
		BadRequest(w, "Clock-out must not be earlier than clock-in", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrInsufficientCredits):
		BadRequest(w, "Insufficient leave credits", nil)
	case errors.Is(err, leave.ErrOverlappingRequest):
		Conflict(w, "Leave request overlaps an approved request")
	case errors.Is(err, leave.ErrAlreadyReviewed):
		Conflict(w, "Leave request already reviewed")
	case errors.Is(err, leave.ErrInvalidTransition):
		Conflict(w, "Leave request state does not allow this transition")

	// Overtime domain errors
	case errors.Is(err, overtime.ErrOvertimeNotFound):
		NotFound(w, "Overtime request not found")
	case errors.Is(err, overtime.ErrDuplicateForDate):
		Conflict(w, "An overtime request already exists for this date")
	case errors.Is(err, overtime.ErrAlreadyReviewed):
		Conflict(w, "Overtime review level already decided")
	case errors.Is(err, overtime.ErrReviewStarted):
		Conflict(w, "Overtime request can no longer be changed once review has started")

	// Cash flow domain errors
	case errors.Is(err, cashflow.ErrCashAdvanceNotFound):
		NotFound(w, "Cash advance request not found")
	case errors.Is(err, cashflow.ErrLiquidationNotFound):
		NotFound(w, "Liquidation request not found")
	case errors.Is(err, cashflow.ErrAttachmentNotFound):
		NotFound(w, "Attachment not found")
	case errors.Is(err, cashflow.ErrAlreadyReviewed):
		Conflict(w, "Review level already decided")
	case errors.Is(err, cashflow.ErrReviewStarted):
		Conflict(w, "Request can no longer be changed once review has started")
	case errors.Is(err, cashflow.ErrInvalidTransition):
		Conflict(w, "Request state does not allow this transition")
	case errors.Is(err, cashflow.ErrAdvanceNotApproved):
		Conflict(w, "Cash advance must be approved before liquidation")

	// Infrastructure errors surface as unavailable, never as a silent
	// default or a fabricated zero result.
	case isStoreUnavailable(err):
		ServiceUnavailable(w, "Service temporarily unavailable")

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// isStoreUnavailable recognizes connection-level database failures.
func isStoreUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exceptions.
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08"
	}
	var connectErr *pgconn.ConnectError
	return errors.As(err, &connectErr)
}
