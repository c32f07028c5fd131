package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/api/middleware"
	"github.com/pricebook/pricebook/internal/api/response"
	"github.com/pricebook/pricebook/internal/api/validation"
	"github.com/pricebook/pricebook/internal/pricing"
)

// editRequest is the request body for PATCH /editors/{sessionId}.
type editRequest struct {
	Op        string  `json:"op"`
	ServiceID *string `json:"serviceId"`
	Text      *string `json:"text"`
	Minutes   *int    `json:"minutes"`
	Enabled   *bool   `json:"enabled"`
}

// EditorHandler handles open editor sessions.
type EditorHandler struct {
	svc PricingService
}

// NewEditorHandler creates a new EditorHandler.
func NewEditorHandler(svc PricingService) *EditorHandler {
	return &EditorHandler{svc: svc}
}

// Get handles GET /editors/{sessionId}.
func (h *EditorHandler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sessionID, ok := uuidParam(w, r, "sessionId", requestID)
	if !ok {
		return
	}
	filter, ok := filterParam(w, r, requestID)
	if !ok {
		return
	}

	view, err := h.svc.Editor(r.Context(), sessionID, filter)
	if err != nil {
		writeServiceError(w, err, "get editor", requestID)
		return
	}

	response.Success(w, http.StatusOK, toEditorResponse(view), requestID)
}

// Edit handles PATCH /editors/{sessionId}. Field validation problems in the
// draft are reported inside the editor, not as request errors.
func (h *EditorHandler) Edit(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sessionID, ok := uuidParam(w, r, "sessionId", requestID)
	if !ok {
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	var req editRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_JSON", "Request body must be valid JSON", requestID)
		return
	}

	fieldErrors := validation.ValidateEditRequest(validation.EditRequest{
		Op:        req.Op,
		ServiceID: req.ServiceID,
		Text:      req.Text,
		Minutes:   req.Minutes,
		Enabled:   req.Enabled,
	})
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return
	}

	e := pricing.Edit{Op: pricing.Op(req.Op)}
	if req.ServiceID != nil {
		e.ServiceID = uuid.MustParse(*req.ServiceID)
	}
	if req.Text != nil {
		e.Text = *req.Text
	}
	if req.Minutes != nil {
		e.Minutes = *req.Minutes
	}
	if req.Enabled != nil {
		e.Enabled = *req.Enabled
	}

	res, err := h.svc.Edit(r.Context(), sessionID, e)
	if err != nil {
		writeServiceError(w, err, "edit draft", requestID)
		return
	}

	resp := toEditorResponse(res.View)
	resp.Rejected = res.Rejected
	response.Success(w, http.StatusOK, resp, requestID)
}

// Reset handles POST /editors/{sessionId}/reset.
func (h *EditorHandler) Reset(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sessionID, ok := uuidParam(w, r, "sessionId", requestID)
	if !ok {
		return
	}

	view, err := h.svc.Reset(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err, "reset draft", requestID)
		return
	}

	response.Success(w, http.StatusOK, toEditorResponse(view), requestID)
}

// Save handles POST /editors/{sessionId}/save.
func (h *EditorHandler) Save(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sessionID, ok := uuidParam(w, r, "sessionId", requestID)
	if !ok {
		return
	}

	res, err := h.svc.Save(r.Context(), sessionID)
	if err != nil {
		writeServiceError(w, err, "save draft", requestID)
		return
	}

	response.Success(w, http.StatusOK, toSaveResponse(res), requestID)
}

// Cancel handles DELETE /editors/{sessionId}.
func (h *EditorHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	sessionID, ok := uuidParam(w, r, "sessionId", requestID)
	if !ok {
		return
	}

	if err := h.svc.Cancel(r.Context(), sessionID); err != nil {
		writeServiceError(w, err, "cancel editor", requestID)
		return
	}

	response.NoContent(w)
}
