package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricebook/pricebook/internal/api/handler"
	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/draft"
	"github.com/pricebook/pricebook/internal/override"
	"github.com/pricebook/pricebook/internal/pricing"
	"github.com/pricebook/pricebook/internal/reconciler"
)

// ===== GET /locations/{locationId}/staff/{staffId}/services =====

func TestStaffListServices_Filter(t *testing.T) {
	t.Parallel()

	var gotFilter reconciler.Filter
	svc := &mockPricing{
		staffServicesFn: func(_ context.Context, l, s uuid.UUID, f reconciler.Filter) (*pricing.StaffListing, error) {
			gotFilter = f
			return &pricing.StaffListing{
				LocationID: l,
				StaffID:    s,
				Currency:   usd,
				Filter:     f,
				Rows: []reconciler.StaffService{{
					ServiceID:                uuid.New(),
					Name:                     "Haircut",
					CanPerform:               true,
					CustomDurationMinutes:    ptr(45),
					InheritedPriceMinor:      1200,
					InheritedDurationMinutes: 30,
				}},
				Counts: reconciler.Counts{Total: 3, Enabled: 1, Custom: 1},
			}, nil
		},
	}
	h := handler.NewStaffHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/?filter=custom", nil, map[string]string{
		"locationId": uuid.New().String(),
		"staffId":    uuid.New().String(),
	})
	h.ListServices(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reconciler.FilterCustom, gotFilter)

	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "custom", data["filter"])
	assert.Equal(t, map[string]interface{}{"total": float64(3), "enabled": float64(1), "custom": float64(1)}, data["counts"])

	row := data["services"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, true, row["isCustom"])
	assert.Equal(t, "12.00", row["effective"].(map[string]interface{})["price"])
	assert.Equal(t, float64(45), row["effective"].(map[string]interface{})["durationMinutes"])
	assert.Equal(t, float64(30), row["inherited"].(map[string]interface{})["durationMinutes"])
}

func TestStaffListServices_InvalidFilter(t *testing.T) {
	t.Parallel()

	h := handler.NewStaffHandler(&mockPricing{})
	req, w := makeChiRequest(http.MethodGet, "/?filter=disabled", nil, map[string]string{
		"locationId": uuid.New().String(),
		"staffId":    uuid.New().String(),
	})
	h.ListServices(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestStaffListServices_InvalidStaffID(t *testing.T) {
	t.Parallel()

	h := handler.NewStaffHandler(&mockPricing{})
	req, w := makeChiRequest(http.MethodGet, "/", nil, map[string]string{
		"locationId": uuid.New().String(),
		"staffId":    "x",
	})
	h.ListServices(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", errorCode(t, w))
}

// ===== GET .../services/{serviceId}/resolution =====

func TestStaffResolution_Success(t *testing.T) {
	t.Parallel()

	svc := &mockPricing{
		resolveFn: func(_ context.Context, l, s, srv uuid.UUID) (*pricing.ResolutionResult, error) {
			return &pricing.ResolutionResult{
				ServiceID: srv, LocationID: l, StaffID: s, Currency: usd,
				Resolution: override.Resolution{
					Location:         override.EffectiveValue{PriceMinor: 1200, DurationMinutes: 30, IsCustom: true},
					Staff:            override.EffectiveValue{PriceMinor: 1200, DurationMinutes: 45, IsCustom: true},
					LocationIsCustom: true,
					StaffIsCustom:    true,
					StaffEnabled:     true,
				},
			}, nil
		},
	}
	h := handler.NewStaffHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/", nil, map[string]string{
		"locationId": uuid.New().String(),
		"staffId":    uuid.New().String(),
		"serviceId":  uuid.New().String(),
	})
	h.Resolution(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	data := parseEnvelope(t, w)["data"].(map[string]interface{})
	assert.Equal(t, true, data["staffEnabled"])
	assert.Equal(t, true, data["staffIsCustom"])
	assert.Equal(t, "12.00", data["staff"].(map[string]interface{})["price"])
	assert.Equal(t, float64(45), data["staff"].(map[string]interface{})["durationMinutes"])
}

func TestStaffResolution_ServiceNotFound(t *testing.T) {
	t.Parallel()

	svc := &mockPricing{
		resolveFn: func(context.Context, uuid.UUID, uuid.UUID, uuid.UUID) (*pricing.ResolutionResult, error) {
			return nil, catalog.ErrServiceNotFound
		},
	}
	h := handler.NewStaffHandler(svc)

	req, w := makeChiRequest(http.MethodGet, "/", nil, map[string]string{
		"locationId": uuid.New().String(),
		"staffId":    uuid.New().String(),
		"serviceId":  uuid.New().String(),
	})
	h.Resolution(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// ===== POST editors =====

func TestStaffOpenEditors(t *testing.T) {
	t.Parallel()

	staffID := uuid.New()
	svc := &mockPricing{
		openStaffServiceEditorFn: func(_ context.Context, l, s, srv uuid.UUID) (*pricing.EditorView, error) {
			return sampleEditorView(draft.Scope{Kind: draft.KindStaffService, LocationID: l, StaffID: s, ServiceID: srv}), nil
		},
		openStaffDrawerFn: func(_ context.Context, l, s uuid.UUID) (*pricing.EditorView, error) {
			return sampleEditorView(draft.Scope{Kind: draft.KindStaffDrawer, LocationID: l, StaffID: s}), nil
		},
	}
	h := handler.NewStaffHandler(svc)

	t.Run("single service", func(t *testing.T) {
		t.Parallel()
		req, w := makeChiRequest(http.MethodPost, "/", nil, map[string]string{
			"locationId": uuid.New().String(),
			"staffId":    staffID.String(),
			"serviceId":  uuid.New().String(),
		})
		h.OpenServiceEditor(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		data := parseEnvelope(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "staff_service", data["kind"])
		assert.Equal(t, staffID.String(), data["staffId"])
	})

	t.Run("drawer", func(t *testing.T) {
		t.Parallel()
		req, w := makeChiRequest(http.MethodPost, "/", nil, map[string]string{
			"locationId": uuid.New().String(),
			"staffId":    staffID.String(),
		})
		h.OpenDrawer(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		data := parseEnvelope(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "staff_drawer", data["kind"])
		assert.NotContains(t, data, "serviceId")
	})
}
