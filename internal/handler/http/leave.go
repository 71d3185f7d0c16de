package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/fieldops-hq/hrops-backend/internal/domain/leave"
	"github.com/fieldops-hq/hrops-backend/internal/handler/http/response"
)

type LeaveHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	Review(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	MyRequests(w http.ResponseWriter, r *http.Request)
}

type leaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &leaveHandlerImpl{
		leaveService: leaveService,
	}
}

// Submit implements LeaveHandler.
func (h *leaveHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req leave.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Submit leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	request, err := h.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", request)
}

// Review implements LeaveHandler.
func (h *leaveHandlerImpl) Review(w http.ResponseWriter, r *http.Request) {
	reviewerID := callerID(r)
	if reviewerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req leave.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Review leave decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}
	req.RequestID = requestID
	req.ReviewerID = reviewerID

	request, err := h.leaveService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request reviewed", request)
}

// Revoke implements LeaveHandler.
func (h *leaveHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	reviewerID := callerID(r)
	if reviewerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req leave.RevokeRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			slog.Error("Revoke leave decode error", "error", err)
			response.BadRequest(w, "Invalid request format", nil)
			return
		}
	}
	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, leave.ErrLeaveRequestNotFound)
		return
	}
	req.RequestID = requestID
	req.ReviewerID = reviewerID

	request, err := h.leaveService.Revoke(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request revoked", request)
}

// List implements LeaveHandler.
func (h *leaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if caller == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := leave.ListFilter{}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if status := r.URL.Query().Get("status"); status != "" {
		s := leave.Status(status)
		filter.Status = &s
	}
	filter.Limit, filter.Offset = pagination(r)

	requests, total, err := h.leaveService.List(r.Context(), caller, filter)
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

// MyRequests implements LeaveHandler.
func (h *leaveHandlerImpl) MyRequests(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requests, total, err := h.leaveService.MyRequests(r.Context(), employeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, requests, &response.Meta{TotalItems: total})
}

// pagination reads limit/offset query params, defaulting to 20/0.
func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}
