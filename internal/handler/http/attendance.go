package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fieldops-hq/hrops-backend/internal/domain/attendance"
	"github.com/fieldops-hq/hrops-backend/internal/handler/http/response"
)

type AttendanceHandler interface {
	ClockIn(w http.ResponseWriter, r *http.Request)
	ClockOut(w http.ResponseWriter, r *http.Request)
	Correct(w http.ResponseWriter, r *http.Request)
	DailySummary(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// ClockIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockIn(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.ClockInRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("ClockIn decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	req.EmployeeID = employeeID

	session, err := h.attendanceService.ClockIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Clocked in", session)
}

// ClockOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) ClockOut(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.ClockOutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ClockOut decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	sessionID, ok := pathID(r)
	if !ok {
		response.HandleError(w, attendance.ErrSessionNotFound)
		return
	}
	req.EmployeeID = employeeID
	req.SessionID = sessionID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	session, err := h.attendanceService.ClockOut(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Clocked out", session)
}

// Correct implements AttendanceHandler.
func (h *attendanceHandlerImpl) Correct(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if caller == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req attendance.CorrectSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Correct decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	sessionID, ok := pathID(r)
	if !ok {
		response.HandleError(w, attendance.ErrSessionNotFound)
		return
	}
	req.CallerID = caller
	req.SessionID = sessionID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	session, err := h.attendanceService.CorrectSession(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Session corrected", session)
}

// DailySummary implements AttendanceHandler.
func (h *attendanceHandlerImpl) DailySummary(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	req := attendance.DailySummaryRequest{
		EmployeeID: employeeID,
		Date:       r.URL.Query().Get("date"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	summary, err := h.attendanceService.DailySummary(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, summary)
}
