// Package override resolves the Service -> Location -> Staff price and duration
// chain. Every function is pure; callers never re-derive inheritance themselves.
package override

import (
	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/currency"
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/staff"
)

// EffectiveValue is the price and duration that apply at one tier.
type EffectiveValue struct {
	PriceMinor      int64
	DurationMinutes int
	IsCustom        bool
}

// Price returns the effective price in display units.
func (v EffectiveValue) Price(c currency.Currency) float64 {
	return currency.FromStorage(v.PriceMinor, c.MinorUnits)
}

// Resolution is the outcome of resolving one (service, location, staff) triple.
type Resolution struct {
	Location         EffectiveValue
	Staff            EffectiveValue
	LocationIsCustom bool
	StaffIsCustom    bool
	StaffEnabled     bool
}

// Base returns the service defaults as an inherited, non-custom value.
func Base(s catalog.Service) EffectiveValue {
	return EffectiveValue{
		PriceMinor:      max(s.DefaultPriceMinor, 0),
		DurationMinutes: s.DefaultDurationMinutes,
	}
}

// Layer applies one tier of nullable custom values on top of the inherited value.
// Values that could never have been stored legitimately (negative prices,
// durations below one minute) are treated as absent.
func Layer(inherited EffectiveValue, customPrice *int64, customDuration *int) EffectiveValue {
	v := EffectiveValue{
		PriceMinor:      inherited.PriceMinor,
		DurationMinutes: inherited.DurationMinutes,
	}
	if p := validPrice(customPrice); p != nil {
		v.PriceMinor = *p
		v.IsCustom = true
	}
	if d := validDuration(customDuration); d != nil {
		v.DurationMinutes = *d
		v.IsCustom = true
	}
	return v
}

// ResolveLocation computes the location tier. A nil row inherits fully.
func ResolveLocation(s catalog.Service, lo *location.Override) EffectiveValue {
	if lo == nil {
		return Base(s)
	}
	return Layer(Base(s), lo.CustomPriceMinor, lo.CustomDurationMinutes)
}

// ResolveStaff computes the staff tier on top of the location tier. A nil row
// is a service not yet configured for the staff member: disabled, inheriting.
func ResolveStaff(loc EffectiveValue, so *staff.Override) EffectiveValue {
	inherited := EffectiveValue{PriceMinor: loc.PriceMinor, DurationMinutes: loc.DurationMinutes}
	if so == nil {
		return inherited
	}
	return Layer(inherited, so.CustomPriceMinor, so.CustomDurationMinutes)
}

// Resolve computes both tiers and the badge flags.
func Resolve(s catalog.Service, lo *location.Override, so *staff.Override) Resolution {
	loc := ResolveLocation(s, lo)
	st := ResolveStaff(loc, so)
	enabled := so != nil && so.CanPerform
	return Resolution{
		Location:         loc,
		Staff:            st,
		LocationIsCustom: loc.IsCustom,
		StaffIsCustom:    enabled && st.IsCustom,
		StaffEnabled:     enabled,
	}
}

func validPrice(p *int64) *int64 {
	if p == nil || *p < 0 {
		return nil
	}
	return p
}

func validDuration(d *int) *int {
	if d == nil || *d < 1 {
		return nil
	}
	return d
}
