package handler

import (
	"net/http"

	"github.com/pricebook/pricebook/internal/api/middleware"
	"github.com/pricebook/pricebook/internal/api/response"
)

// StaffHandler handles the staff-level pricing endpoints.
type StaffHandler struct {
	svc PricingService
}

// NewStaffHandler creates a new StaffHandler.
func NewStaffHandler(svc PricingService) *StaffHandler {
	return &StaffHandler{svc: svc}
}

// ListServices handles GET /locations/{locationId}/staff/{staffId}/services.
func (h *StaffHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	locationID, ok := uuidParam(w, r, "locationId", requestID)
	if !ok {
		return
	}
	staffID, ok := uuidParam(w, r, "staffId", requestID)
	if !ok {
		return
	}
	filter, ok := filterParam(w, r, requestID)
	if !ok {
		return
	}

	listing, err := h.svc.StaffServices(r.Context(), locationID, staffID, filter)
	if err != nil {
		writeServiceError(w, err, "list staff services", requestID)
		return
	}

	response.Success(w, http.StatusOK, toStaffServicesResponse(listing), requestID)
}

// Resolution handles GET /locations/{locationId}/staff/{staffId}/services/{serviceId}/resolution.
func (h *StaffHandler) Resolution(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	locationID, ok := uuidParam(w, r, "locationId", requestID)
	if !ok {
		return
	}
	staffID, ok := uuidParam(w, r, "staffId", requestID)
	if !ok {
		return
	}
	serviceID, ok := uuidParam(w, r, "serviceId", requestID)
	if !ok {
		return
	}

	res, err := h.svc.Resolve(r.Context(), locationID, staffID, serviceID)
	if err != nil {
		writeServiceError(w, err, "resolve service", requestID)
		return
	}

	response.Success(w, http.StatusOK, toResolutionResponse(res), requestID)
}

// OpenServiceEditor handles POST /locations/{locationId}/staff/{staffId}/services/{serviceId}/editor.
func (h *StaffHandler) OpenServiceEditor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	locationID, ok := uuidParam(w, r, "locationId", requestID)
	if !ok {
		return
	}
	staffID, ok := uuidParam(w, r, "staffId", requestID)
	if !ok {
		return
	}
	serviceID, ok := uuidParam(w, r, "serviceId", requestID)
	if !ok {
		return
	}

	view, err := h.svc.OpenStaffServiceEditor(r.Context(), locationID, staffID, serviceID)
	if err != nil {
		writeServiceError(w, err, "open editor", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toEditorResponse(view), requestID)
}

// OpenDrawer handles POST /locations/{locationId}/staff/{staffId}/drawer.
func (h *StaffHandler) OpenDrawer(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	locationID, ok := uuidParam(w, r, "locationId", requestID)
	if !ok {
		return
	}
	staffID, ok := uuidParam(w, r, "staffId", requestID)
	if !ok {
		return
	}

	view, err := h.svc.OpenStaffDrawer(r.Context(), locationID, staffID)
	if err != nil {
		writeServiceError(w, err, "open staff drawer", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toEditorResponse(view), requestID)
}
