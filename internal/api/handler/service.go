package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/api/response"
	"github.com/pricebook/pricebook/internal/api/validation"
	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/draft"
	"github.com/pricebook/pricebook/internal/editor"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/pricing"
	"github.com/pricebook/pricebook/internal/reconciler"
)

// PricingService is the part of pricing.Service the handlers use.
type PricingService interface {
	LocationServices(ctx context.Context, locationID uuid.UUID) (*pricing.LocationListing, error)
	StaffServices(ctx context.Context, locationID, staffID uuid.UUID, f reconciler.Filter) (*pricing.StaffListing, error)
	Resolve(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*pricing.ResolutionResult, error)

	OpenLocationEditor(ctx context.Context, locationID, serviceID uuid.UUID) (*pricing.EditorView, error)
	OpenStaffServiceEditor(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*pricing.EditorView, error)
	OpenStaffDrawer(ctx context.Context, locationID, staffID uuid.UUID) (*pricing.EditorView, error)

	Editor(ctx context.Context, sessionID uuid.UUID, f reconciler.Filter) (*pricing.EditorView, error)
	Edit(ctx context.Context, sessionID uuid.UUID, e pricing.Edit) (*pricing.EditResult, error)
	Reset(ctx context.Context, sessionID uuid.UUID) (*pricing.EditorView, error)
	Save(ctx context.Context, sessionID uuid.UUID) (*pricing.SaveResult, error)
	Cancel(ctx context.Context, sessionID uuid.UUID) error
}

// uuidParam parses a UUID URL parameter, writing a 400 when it is malformed.
func uuidParam(w http.ResponseWriter, r *http.Request, name, requestID string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		response.Err(w, http.StatusBadRequest, "INVALID_ID", fmt.Sprintf("%s must be a valid UUID", name), requestID)
		return uuid.Nil, false
	}
	return id, true
}

// filterParam parses the filter query parameter, writing a 400 when it is unknown.
func filterParam(w http.ResponseWriter, r *http.Request, requestID string) (reconciler.Filter, bool) {
	f, fieldErrors := validation.ValidateFilter(r.URL.Query().Get("filter"))
	if len(fieldErrors) > 0 {
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed", fieldErrors, requestID)
		return "", false
	}
	return f, true
}

// writeServiceError maps pricing errors to API errors. action completes
// "Failed to ..." in the 500 message.
func writeServiceError(w http.ResponseWriter, err error, action, requestID string) {
	switch {
	case errors.Is(err, location.ErrLocationNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Location not found", requestID)
	case errors.Is(err, catalog.ErrServiceNotFound):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Service not found", requestID)
	case errors.Is(err, location.ErrNotAssigned):
		response.Err(w, http.StatusNotFound, "NOT_ASSIGNED", "Service is not assigned at this location", requestID)
	case errors.Is(err, editor.ErrSessionNotFound), errors.Is(err, draft.ErrSessionClosed):
		response.Err(w, http.StatusNotFound, "NOT_FOUND", "Editor session not found", requestID)
	case errors.Is(err, draft.ErrUnknownService):
		response.Err(w, http.StatusUnprocessableEntity, "UNKNOWN_SERVICE", "Service is not part of this editor", requestID)
	case errors.Is(err, draft.ErrNotStaffScope):
		response.Err(w, http.StatusUnprocessableEntity, "INVALID_OPERATION", "canPerform can only be changed in staff editors", requestID)
	case errors.Is(err, draft.ErrNotQuickPick):
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "minutes", Message: validation.QuickPickMessage}}, requestID)
	case errors.Is(err, pricing.ErrUnknownOp):
		response.ErrWithDetails(w, http.StatusBadRequest, "VALIDATION_ERROR", "Input validation failed",
			[]validation.FieldError{{Field: "op", Message: validation.OpMessage}}, requestID)
	case errors.Is(err, draft.ErrSaveInProgress):
		response.Err(w, http.StatusConflict, "SAVE_IN_PROGRESS", "A save is already in progress for this editor", requestID)
	case errors.Is(err, draft.ErrNothingToSave):
		response.Err(w, http.StatusConflict, "NOTHING_TO_SAVE", "The draft has no changes", requestID)
	case errors.Is(err, draft.ErrInvalidDraft):
		response.Err(w, http.StatusUnprocessableEntity, "INVALID_DRAFT", "The draft has validation errors", requestID)
	case errors.Is(err, pricing.ErrSaveFailed):
		slog.Error("failed to save overrides", "error", err)
		response.Err(w, http.StatusServiceUnavailable, "SAVE_FAILED", "Saving failed; the draft was kept and can be retried", requestID)
	default:
		slog.Error("failed to "+action, "error", err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to "+action, requestID)
	}
}
