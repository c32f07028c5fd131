package override

import (
	"github.com/pricebook/pricebook/internal/location"
	"github.com/pricebook/pricebook/internal/staff"
)

// Collapse returns nil when custom equals the inherited value, otherwise a copy
// of custom.
func Collapse[T int | int64](custom *T, inherited T) *T {
	if custom == nil || *custom == inherited {
		return nil
	}
	v := *custom
	return &v
}

// CollapseLocation collapses each field of a location row independently against
// the service defaults in base.
func CollapseLocation(base EffectiveValue, lo location.Override) location.Override {
	lo.CustomPriceMinor = Collapse(lo.CustomPriceMinor, base.PriceMinor)
	lo.CustomDurationMinutes = Collapse(lo.CustomDurationMinutes, base.DurationMinutes)
	return lo
}

// CollapseStaff collapses each field of a staff row independently against the
// location tier's effective values. CanPerform is untouched.
func CollapseStaff(loc EffectiveValue, so staff.Override) staff.Override {
	so.CustomPriceMinor = Collapse(so.CustomPriceMinor, loc.PriceMinor)
	so.CustomDurationMinutes = Collapse(so.CustomDurationMinutes, loc.DurationMinutes)
	return so
}
