package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/fieldops-hq/hrops-backend/internal/domain/overtime"
	"github.com/fieldops-hq/hrops-backend/internal/handler/http/response"
)

type OvertimeHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Edit(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
}

type overtimeHandlerImpl struct {
	overtimeService overtime.OvertimeService
}

func NewOvertimeHandler(overtimeService overtime.OvertimeService) OvertimeHandler {
	return &overtimeHandlerImpl{
		overtimeService: overtimeService,
	}
}

// Submit implements OvertimeHandler.
func (h *overtimeHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req overtime.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit overtime decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	request, err := h.overtimeService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Overtime request submitted", request)
}

// Review implements OvertimeHandler.
func (h *overtimeHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	reviewerID := callerID(r)
	if reviewerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req overtime.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review overtime decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, overtime.ErrOvertimeNotFound)
		return
	}
	req.RequestID = requestID
	req.ReviewerID = reviewerID

	request, err := h.overtimeService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request reviewed", request)
}

// Edit implements OvertimeHandler.
func (h *overtimeHandlerImpl) Edit(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req overtime.EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Edit overtime decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, overtime.ErrOvertimeNotFound)
		return
	}
	req.RequestID = requestID
	req.EmployeeID = employeeID

	request, err := h.overtimeService.Edit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request updated", request)
}

// Delete implements OvertimeHandler.
func (h *overtimeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, overtime.ErrOvertimeNotFound)
		return
	}

	if err := h.overtimeService.Delete(r.Context(), requestID, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Overtime request deleted", nil)
}

// List implements OvertimeHandler.
func (h *overtimeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if caller == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := overtime.ListFilter{}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if workDate := r.URL.Query().Get("date"); workDate != "" {
		filter.WorkDate = &workDate
	}
	filter.Limit, filter.Offset = pagination(r)

	requests, total, err := h.overtimeService.List(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		TotalItems: total,
	})
}
