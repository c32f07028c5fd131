package api

import (
	_ "embed"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/pricebook/pricebook/internal/api/handler"
	"github.com/pricebook/pricebook/internal/api/middleware"
)

// OpenAPISpec is the API description served at /openapi.json.
//
//go:embed openapi.yaml
var OpenAPISpec []byte

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Pricing      handler.PricingService
	HealthChecks []handler.HealthCheck
	Version      string
	APIKeyHash   string
	OpenAPI      *handler.OpenAPIHandler
}

// NewRouter creates and configures a Chi router with all middleware and routes.
// Health and the API description stay unauthenticated.
func NewRouter(deps RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Logger)

	healthHandler := handler.NewHealthHandler(deps.Version, deps.HealthChecks...)
	r.Get("/health", healthHandler.ServeHTTP)

	if deps.OpenAPI != nil {
		r.Get("/openapi.json", deps.OpenAPI.ServeHTTP)
	}

	if deps.Pricing == nil {
		return r
	}

	locations := handler.NewLocationHandler(deps.Pricing)
	staff := handler.NewStaffHandler(deps.Pricing)
	editors := handler.NewEditorHandler(deps.Pricing)

	r.Group(func(r chi.Router) {
		r.Use(middleware.APIKey(deps.APIKeyHash))

		r.Route("/locations/{locationId}", func(r chi.Router) {
			r.Get("/services", locations.ListServices)
			r.Post("/services/{serviceId}/editor", locations.OpenEditor)

			r.Route("/staff/{staffId}", func(r chi.Router) {
				r.Get("/services", staff.ListServices)
				r.Get("/services/{serviceId}/resolution", staff.Resolution)
				r.Post("/services/{serviceId}/editor", staff.OpenServiceEditor)
				r.Post("/drawer", staff.OpenDrawer)
			})
		})

		r.Route("/editors/{sessionId}", func(r chi.Router) {
			r.Get("/", editors.Get)
			r.Patch("/", editors.Edit)
			r.Delete("/", editors.Cancel)
			r.Post("/reset", editors.Reset)
			r.Post("/save", editors.Save)
		})
	})

	return r
}
