package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/fieldops-hq/hrops-backend/internal/domain/cashflow"
	"github.com/fieldops-hq/hrops-backend/internal/handler/http/response"
	"github.com/google/uuid"
)

// maxReceiptSize bounds a single receipt upload.
const maxReceiptSize = 10 << 20

type CashFlowHandler interface {
	SubmitAdvance(w http.ResponseWriter, r *http.Request)
	ReviewAdvance(w http.ResponseWriter, r *http.Request)
	EditAdvance(w http.ResponseWriter, r *http.Request)
	DeleteAdvance(w http.ResponseWriter, r *http.Request)
	ReopenAdvance(w http.ResponseWriter, r *http.Request)
	ListAdvances(w http.ResponseWriter, r *http.Request)

	SubmitLiquidation(w http.ResponseWriter, r *http.Request)
	ReviewLiquidation(w http.ResponseWriter, r *http.Request)
	EditLiquidation(w http.ResponseWriter, r *http.Request)
	ReopenLiquidation(w http.ResponseWriter, r *http.Request)
	ListLiquidations(w http.ResponseWriter, r *http.Request)
	AttachReceipt(w http.ResponseWriter, r *http.Request)
}

type cashFlowHandlerImpl struct {
	advanceService     cashflow.CashAdvanceService
	liquidationService cashflow.LiquidationService
}

func NewCashFlowHandler(
	advanceService cashflow.CashAdvanceService,
	liquidationService cashflow.LiquidationService,
) CashFlowHandler {
	return &cashFlowHandlerImpl{
		advanceService:     advanceService,
		liquidationService: liquidationService,
	}
}

// SubmitAdvance implements CashFlowHandler.
func (h *cashFlowHandlerImpl) SubmitAdvance(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req cashflow.SubmitAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitAdvance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	advance, err := h.advanceService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Cash advance request submitted", advance)
}

// ReviewAdvance implements CashFlowHandler.
func (h *cashFlowHandlerImpl) ReviewAdvance(w http.ResponseWriter, r *http.Request) {
	reviewerID := callerID(r)
	if reviewerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req cashflow.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReviewAdvance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrCashAdvanceNotFound)
		return
	}
	req.RequestID = requestID
	req.ReviewerID = reviewerID

	advance, err := h.advanceService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance reviewed", advance)
}

// EditAdvance implements CashFlowHandler.
func (h *cashFlowHandlerImpl) EditAdvance(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req cashflow.EditAdvanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EditAdvance decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrCashAdvanceNotFound)
		return
	}
	req.RequestID = requestID
	req.EmployeeID = employeeID

	advance, err := h.advanceService.Edit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance updated", advance)
}

// DeleteAdvance implements CashFlowHandler.
func (h *cashFlowHandlerImpl) DeleteAdvance(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrCashAdvanceNotFound)
		return
	}

	if err := h.advanceService.Delete(r.Context(), requestID, employeeID); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance deleted", nil)
}

// ReopenAdvance implements CashFlowHandler.
func (h *cashFlowHandlerImpl) ReopenAdvance(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if caller == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrCashAdvanceNotFound)
		return
	}

	advance, err := h.advanceService.Reopen(r.Context(), cashflow.ReopenRequest{
		RequestID: requestID,
		CallerID:  caller,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Cash advance reopened", advance)
}

// ListAdvances implements CashFlowHandler.
func (h *cashFlowHandlerImpl) ListAdvances(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if caller == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := listFilter(r)
	advances, total, err := h.advanceService.List(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, advances, &response.Meta{
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		TotalItems: total,
	})
}

// SubmitLiquidation implements CashFlowHandler.
func (h *cashFlowHandlerImpl) SubmitLiquidation(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req cashflow.SubmitLiquidationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("SubmitLiquidation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = employeeID

	liquidation, err := h.liquidationService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Liquidation submitted", liquidation)
}

// ReviewLiquidation implements CashFlowHandler.
func (h *cashFlowHandlerImpl) ReviewLiquidation(w http.ResponseWriter, r *http.Request) {
	reviewerID := callerID(r)
	if reviewerID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req cashflow.ReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("ReviewLiquidation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrLiquidationNotFound)
		return
	}
	req.RequestID = requestID
	req.ReviewerID = reviewerID

	liquidation, err := h.liquidationService.Review(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Liquidation reviewed", liquidation)
}

// EditLiquidation implements CashFlowHandler.
func (h *cashFlowHandlerImpl) EditLiquidation(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req cashflow.EditItemsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("EditLiquidation decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	liquidationID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrLiquidationNotFound)
		return
	}
	req.LiquidationID = liquidationID
	req.EmployeeID = employeeID

	liquidation, err := h.liquidationService.EditItems(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Liquidation updated", liquidation)
}

// ReopenLiquidation implements CashFlowHandler.
func (h *cashFlowHandlerImpl) ReopenLiquidation(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if caller == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	requestID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrLiquidationNotFound)
		return
	}

	liquidation, err := h.liquidationService.Reopen(r.Context(), cashflow.ReopenRequest{
		RequestID: requestID,
		CallerID:  caller,
	})
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Liquidation reopened", liquidation)
}

// ListLiquidations implements CashFlowHandler.
func (h *cashFlowHandlerImpl) ListLiquidations(w http.ResponseWriter, r *http.Request) {
	caller := callerID(r)
	if caller == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	filter := listFilter(r)
	liquidations, total, err := h.liquidationService.List(r.Context(), caller, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, liquidations, &response.Meta{
		Limit:      filter.Limit,
		Offset:     filter.Offset,
		TotalItems: total,
	})
}

// AttachReceipt implements CashFlowHandler. Expects a multipart form with a
// single "file" part.
func (h *cashFlowHandlerImpl) AttachReceipt(w http.ResponseWriter, r *http.Request) {
	employeeID := callerID(r)
	if employeeID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	liquidationID, ok := pathID(r)
	if !ok {
		response.HandleError(w, cashflow.ErrLiquidationNotFound)
		return
	}

	if err := r.ParseMultipartForm(maxReceiptSize); err != nil {
		response.BadRequest(w, "Invalid multipart form", nil)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		response.BadRequest(w, "Receipt file is required", nil)
		return
	}
	defer file.Close()

	upload := cashflow.ReceiptUpload{
		Key:         uuid.NewString() + filepath.Ext(header.Filename),
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}

	attachment, err := h.liquidationService.AttachReceipt(r.Context(), liquidationID, employeeID, upload)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Receipt attached", attachment)
}

// listFilter reads the shared cash-flow list query params.
func listFilter(r *http.Request) cashflow.ListFilter {
	filter := cashflow.ListFilter{}
	if employeeID := r.URL.Query().Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	filter.Limit, filter.Offset = pagination(r)
	return filter
}
