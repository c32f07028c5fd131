// Package pricing serves resolved prices and durations and drives the editor
// sessions that change them.
package pricing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/cache"
	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/currency"
	"github.com/pricebook/pricebook/internal/editor"
	"github.com/pricebook/pricebook/internal/events"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/override"
	"github.com/pricebook/pricebook/internal/reconciler"
	"github.com/pricebook/pricebook/internal/staff"
)

// Deps holds everything a Service needs. Cache and Publisher default to no-ops.
type Deps struct {
	Catalog         catalog.Repository
	Locations       location.Repository
	Staff           staff.Repository
	Currencies      *currency.Registry
	DefaultCurrency string
	Sessions        *editor.Store
	Cache           cache.Cache
	Publisher       events.Publisher
}

// Service resolves effective values and orchestrates editor sessions.
type Service struct {
	catalog         catalog.Repository
	locations       location.Repository
	staff           staff.Repository
	currencies      *currency.Registry
	defaultCurrency string
	sessions        *editor.Store
	cache           cache.Cache
	publisher       events.Publisher
}

// NewService creates a new Service.
func NewService(d Deps) *Service {
	s := &Service{
		catalog:         d.Catalog,
		locations:       d.Locations,
		staff:           d.Staff,
		currencies:      d.Currencies,
		defaultCurrency: d.DefaultCurrency,
		sessions:        d.Sessions,
		cache:           d.Cache,
		publisher:       d.Publisher,
	}
	if s.currencies == nil {
		s.currencies = currency.NewDefaultRegistry()
	}
	if s.sessions == nil {
		s.sessions = editor.NewStore()
	}
	if s.cache == nil {
		s.cache = cache.Nop{}
	}
	if s.publisher == nil {
		s.publisher = events.Nop{}
	}
	return s
}

// LocationRow is one service at a location with its resolved location tier.
type LocationRow struct {
	Service   location.AssignedService
	Effective override.EffectiveValue
}

// LocationListing is the resolved service list of a location.
type LocationListing struct {
	LocationID uuid.UUID
	Currency   currency.Currency
	Rows       []LocationRow
}

// StaffListing is the resolved, filtered service list of one staff member.
type StaffListing struct {
	LocationID uuid.UUID
	StaffID    uuid.UUID
	Currency   currency.Currency
	Filter     reconciler.Filter
	Rows       []reconciler.StaffService
	Counts     reconciler.Counts
}

// ResolutionResult is the resolved override chain of one service for one staff member.
type ResolutionResult struct {
	ServiceID  uuid.UUID
	LocationID uuid.UUID
	StaffID    uuid.UUID
	Currency   currency.Currency
	Resolution override.Resolution
}

// LocationServices lists the services assigned at a location with their
// location-tier effective values.
func (s *Service) LocationServices(ctx context.Context, locationID uuid.UUID) (*LocationListing, error) {
	loc, err := s.location(ctx, locationID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.assigned(ctx, locationID)
	if err != nil {
		return nil, err
	}

	rows := make([]LocationRow, 0, len(assigned))
	for _, a := range assigned {
		rows = append(rows, LocationRow{Service: a, Effective: reconciler.LocationTier(a)})
	}
	return &LocationListing{
		LocationID: locationID,
		Currency:   s.currencyOf(loc),
		Rows:       rows,
	}, nil
}

// StaffServices lists the merged staff rows for every service assigned at the
// location, filtered by f. Counts cover the unfiltered list.
func (s *Service) StaffServices(ctx context.Context, locationID, staffID uuid.UUID, f reconciler.Filter) (*StaffListing, error) {
	loc, err := s.location(ctx, locationID)
	if err != nil {
		return nil, err
	}
	assigned, err := s.assigned(ctx, locationID)
	if err != nil {
		return nil, err
	}
	existing, err := s.staffOverrides(ctx, locationID, staffID)
	if err != nil {
		return nil, err
	}

	merged := reconciler.Merge(assigned, existing)
	return &StaffListing{
		LocationID: locationID,
		StaffID:    staffID,
		Currency:   s.currencyOf(loc),
		Filter:     f,
		Rows:       f.Apply(merged),
		Counts:     reconciler.Count(merged),
	}, nil
}

// Resolve resolves one (service, location, staff) triple. A staff member without
// settings for the service resolves as disabled and fully inherited.
func (s *Service) Resolve(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*ResolutionResult, error) {
	loc, err := s.location(ctx, locationID)
	if err != nil {
		return nil, err
	}
	svc, err := s.catalog.GetByID(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc.BusinessID != loc.BusinessID {
		return nil, catalog.ErrServiceNotFound
	}
	a, err := s.locations.GetAssigned(ctx, locationID, serviceID)
	if err != nil {
		return nil, err
	}

	so, err := s.staff.Get(ctx, locationID, staffID, serviceID)
	if err != nil && !errors.Is(err, staff.ErrOverrideNotFound) {
		return nil, err
	}

	lo := a.Override
	return &ResolutionResult{
		ServiceID:  serviceID,
		LocationID: locationID,
		StaffID:    staffID,
		Currency:   s.currencyOf(loc),
		Resolution: override.Resolve(*svc, &lo, so),
	}, nil
}

func (s *Service) currencyOf(loc *location.Location) currency.Currency {
	code := loc.CurrencyCode
	if code == "" {
		code = s.defaultCurrency
	}
	return s.currencies.Lookup(code)
}

func (s *Service) location(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	return readThrough(ctx, s.cache, id, "location", func() (*location.Location, error) {
		return s.locations.Get(ctx, id)
	})
}

func (s *Service) assigned(ctx context.Context, locationID uuid.UUID) ([]location.AssignedService, error) {
	return readThrough(ctx, s.cache, locationID, "assigned", func() ([]location.AssignedService, error) {
		return s.locations.ListAssigned(ctx, locationID)
	})
}

func (s *Service) staffOverrides(ctx context.Context, locationID, staffID uuid.UUID) ([]staff.Override, error) {
	return readThrough(ctx, s.cache, locationID, "staff:"+staffID.String(), func() ([]staff.Override, error) {
		return s.staff.List(ctx, locationID, staffID)
	})
}

// readThrough serves key from the cache, loading and storing it on a miss.
// The generation is read before loading so a commit landing mid-load leaves the
// loaded value unreachable. Cache failures are logged and fall back to the loader.
func readThrough[T any](ctx context.Context, c cache.Cache, locationID uuid.UUID, key string, load func() (T, error)) (T, error) {
	gen, err := c.Generation(ctx, locationID)
	if err != nil {
		slog.Warn("cache generation read failed", "locationId", locationID, "error", err)
		return load()
	}

	var v T
	hit, err := c.Get(ctx, locationID, gen, key, &v)
	if err != nil {
		slog.Warn("cache read failed", "locationId", locationID, "key", key, "error", err)
	} else if hit {
		return v, nil
	}

	v, err = load()
	if err != nil {
		return v, err
	}
	if err := c.Set(ctx, locationID, gen, key, v); err != nil {
		slog.Warn("cache write failed", "locationId", locationID, "key", key, "error", err)
	}
	return v, nil
}

