package handler

import (
	"net/http"

	"github.com/pricebook/pricebook/internal/api/middleware"
	"github.com/pricebook/pricebook/internal/api/response"
)

// LocationHandler handles the location-level pricing endpoints.
type LocationHandler struct {
	svc PricingService
}

// NewLocationHandler creates a new LocationHandler.
func NewLocationHandler(svc PricingService) *LocationHandler {
	return &LocationHandler{svc: svc}
}

// ListServices handles GET /locations/{locationId}/services.
func (h *LocationHandler) ListServices(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	locationID, ok := uuidParam(w, r, "locationId", requestID)
	if !ok {
		return
	}

	listing, err := h.svc.LocationServices(r.Context(), locationID)
	if err != nil {
		writeServiceError(w, err, "list location services", requestID)
		return
	}

	response.Success(w, http.StatusOK, toLocationServicesResponse(listing), requestID)
}

// OpenEditor handles POST /locations/{locationId}/services/{serviceId}/editor.
func (h *LocationHandler) OpenEditor(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	locationID, ok := uuidParam(w, r, "locationId", requestID)
	if !ok {
		return
	}
	serviceID, ok := uuidParam(w, r, "serviceId", requestID)
	if !ok {
		return
	}

	view, err := h.svc.OpenLocationEditor(r.Context(), locationID, serviceID)
	if err != nil {
		writeServiceError(w, err, "open editor", requestID)
		return
	}

	response.Success(w, http.StatusCreated, toEditorResponse(view), requestID)
}
