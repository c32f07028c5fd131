// Package reconciler merges the services assigned at a location with a staff
// member's stored settings into the rows the staff drawer edits.
package reconciler

import (
	"github.com/google/uuid"

	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/draft"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/override"
	"github.com/pricebook/pricebook/internal/staff"
)

// StaffService is one row of the staff drawer: a service assigned at the
// location, the staff member's setting for it, and the location-tier values it
// inherits from.
type StaffService struct {
	ServiceID                uuid.UUID
	Name                     string
	CategoryID               *uuid.UUID
	CanPerform               bool
	CustomPriceMinor         *int64
	CustomDurationMinutes    *int
	InheritedPriceMinor      int64
	InheritedDurationMinutes int
}

// Inherited returns the location-tier values the row falls back to.
func (s StaffService) Inherited() draft.Inherited {
	return draft.Inherited{PriceMinor: s.InheritedPriceMinor, DurationMinutes: s.InheritedDurationMinutes}
}

// Effective resolves the row's staff-tier values.
func (s StaffService) Effective() override.EffectiveValue {
	loc := override.EffectiveValue{PriceMinor: s.InheritedPriceMinor, DurationMinutes: s.InheritedDurationMinutes}
	return override.Layer(loc, s.CustomPriceMinor, s.CustomDurationMinutes)
}

// IsCustom reports the badge state: a disabled row is never custom even when it
// still stores custom values.
func (s StaffService) IsCustom() bool {
	return s.CanPerform && s.Effective().IsCustom
}

// Row returns the draft row for this service.
func (s StaffService) Row() draft.Row {
	return draft.Row{
		ServiceID:             s.ServiceID,
		CanPerform:            s.CanPerform,
		CustomPriceMinor:      s.CustomPriceMinor,
		CustomDurationMinutes: s.CustomDurationMinutes,
	}
}

// LocationTier resolves an assigned service's location-tier values.
func LocationTier(a location.AssignedService) override.EffectiveValue {
	svc := catalog.Service{
		ID:                     a.ServiceID,
		Name:                   a.Name,
		DefaultPriceMinor:      a.DefaultPriceMinor,
		DefaultDurationMinutes: a.DefaultDurationMinutes,
	}
	lo := a.Override
	return override.ResolveLocation(svc, &lo)
}

// Merge left-joins the location's assigned services against existing staff
// settings, in assignment order. Services without a stored setting appear as
// disabled, uncustomized rows. Settings for services no longer assigned at the
// location are dropped.
func Merge(assigned []location.AssignedService, existing []staff.Override) []StaffService {
	byService := make(map[uuid.UUID]staff.Override, len(existing))
	for _, o := range existing {
		byService[o.ServiceID] = o
	}

	out := make([]StaffService, 0, len(assigned))
	for _, a := range assigned {
		loc := LocationTier(a)
		row := StaffService{
			ServiceID:                a.ServiceID,
			Name:                     a.Name,
			CategoryID:               a.CategoryID,
			InheritedPriceMinor:      loc.PriceMinor,
			InheritedDurationMinutes: loc.DurationMinutes,
		}
		if o, ok := byService[a.ServiceID]; ok {
			row.CanPerform = o.CanPerform
			row.CustomPriceMinor = o.CustomPriceMinor
			row.CustomDurationMinutes = o.CustomDurationMinutes
		}
		out = append(out, row)
	}
	return out
}

// Rows returns the draft rows of merged staff services.
func Rows(merged []StaffService) []draft.Row {
	rows := make([]draft.Row, len(merged))
	for i, m := range merged {
		rows[i] = m.Row()
	}
	return rows
}

// ApplyDraft overlays in-progress draft values on merged rows so filtering and
// counts reflect unsaved edits. Draft rows for unknown services are ignored.
func ApplyDraft(merged []StaffService, rows []draft.Row) []StaffService {
	byService := make(map[uuid.UUID]draft.Row, len(rows))
	for _, r := range rows {
		byService[r.ServiceID] = r
	}

	out := make([]StaffService, len(merged))
	for i, m := range merged {
		if r, ok := byService[m.ServiceID]; ok {
			m.CanPerform = r.CanPerform
			m.CustomPriceMinor = r.CustomPriceMinor
			m.CustomDurationMinutes = r.CustomDurationMinutes
		}
		out[i] = m
	}
	return out
}
