package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pricebook/pricebook/internal/editor"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/pricing"
	"github.com/pricebook/pricebook/internal/reconciler"
)

// --- Mock Pricing Service ---

type mockPricing struct {
	locationServicesFn       func(ctx context.Context, locationID uuid.UUID) (*pricing.LocationListing, error)
	staffServicesFn          func(ctx context.Context, locationID, staffID uuid.UUID, f reconciler.Filter) (*pricing.StaffListing, error)
	resolveFn                func(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*pricing.ResolutionResult, error)
	openLocationEditorFn     func(ctx context.Context, locationID, serviceID uuid.UUID) (*pricing.EditorView, error)
	openStaffServiceEditorFn func(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*pricing.EditorView, error)
	openStaffDrawerFn        func(ctx context.Context, locationID, staffID uuid.UUID) (*pricing.EditorView, error)
	editorFn                 func(ctx context.Context, sessionID uuid.UUID, f reconciler.Filter) (*pricing.EditorView, error)
	editFn                   func(ctx context.Context, sessionID uuid.UUID, e pricing.Edit) (*pricing.EditResult, error)
	resetFn                  func(ctx context.Context, sessionID uuid.UUID) (*pricing.EditorView, error)
	saveFn                   func(ctx context.Context, sessionID uuid.UUID) (*pricing.SaveResult, error)
	cancelFn                 func(ctx context.Context, sessionID uuid.UUID) error
}

func (m *mockPricing) LocationServices(ctx context.Context, locationID uuid.UUID) (*pricing.LocationListing, error) {
	if m.locationServicesFn != nil {
		return m.locationServicesFn(ctx, locationID)
	}
	return nil, location.ErrLocationNotFound
}

func (m *mockPricing) StaffServices(ctx context.Context, locationID, staffID uuid.UUID, f reconciler.Filter) (*pricing.StaffListing, error) {
	if m.staffServicesFn != nil {
		return m.staffServicesFn(ctx, locationID, staffID, f)
	}
	return nil, location.ErrLocationNotFound
}

func (m *mockPricing) Resolve(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*pricing.ResolutionResult, error) {
	if m.resolveFn != nil {
		return m.resolveFn(ctx, locationID, staffID, serviceID)
	}
	return nil, location.ErrLocationNotFound
}

func (m *mockPricing) OpenLocationEditor(ctx context.Context, locationID, serviceID uuid.UUID) (*pricing.EditorView, error) {
	if m.openLocationEditorFn != nil {
		return m.openLocationEditorFn(ctx, locationID, serviceID)
	}
	return nil, location.ErrNotAssigned
}

func (m *mockPricing) OpenStaffServiceEditor(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*pricing.EditorView, error) {
	if m.openStaffServiceEditorFn != nil {
		return m.openStaffServiceEditorFn(ctx, locationID, staffID, serviceID)
	}
	return nil, location.ErrNotAssigned
}

func (m *mockPricing) OpenStaffDrawer(ctx context.Context, locationID, staffID uuid.UUID) (*pricing.EditorView, error) {
	if m.openStaffDrawerFn != nil {
		return m.openStaffDrawerFn(ctx, locationID, staffID)
	}
	return nil, location.ErrLocationNotFound
}

func (m *mockPricing) Editor(ctx context.Context, sessionID uuid.UUID, f reconciler.Filter) (*pricing.EditorView, error) {
	if m.editorFn != nil {
		return m.editorFn(ctx, sessionID, f)
	}
	return nil, editor.ErrSessionNotFound
}

func (m *mockPricing) Edit(ctx context.Context, sessionID uuid.UUID, e pricing.Edit) (*pricing.EditResult, error) {
	if m.editFn != nil {
		return m.editFn(ctx, sessionID, e)
	}
	return nil, editor.ErrSessionNotFound
}

func (m *mockPricing) Reset(ctx context.Context, sessionID uuid.UUID) (*pricing.EditorView, error) {
	if m.resetFn != nil {
		return m.resetFn(ctx, sessionID)
	}
	return nil, editor.ErrSessionNotFound
}

func (m *mockPricing) Save(ctx context.Context, sessionID uuid.UUID) (*pricing.SaveResult, error) {
	if m.saveFn != nil {
		return m.saveFn(ctx, sessionID)
	}
	return nil, editor.ErrSessionNotFound
}

func (m *mockPricing) Cancel(ctx context.Context, sessionID uuid.UUID) error {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, sessionID)
	}
	return editor.ErrSessionNotFound
}

// --- Helpers ---

func makeChiRequest(method, path string, body []byte, params map[string]string) (*http.Request, *httptest.ResponseRecorder) {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	return req, w
}

func parseEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &env)
	require.NoError(t, err, "failed to parse response body")
	return env
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	env := parseEnvelope(t, w)
	errObj, ok := env["error"].(map[string]interface{})
	require.True(t, ok, "response should carry an error object")
	return errObj["code"].(string)
}

func ptr[T any](v T) *T { return &v }
