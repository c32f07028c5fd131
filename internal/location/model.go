package location

import "github.com/google/uuid"

// Override is the per-location price/duration override of a service. A nil field
// inherits the service default for that field.
type Override struct {
	LocationID            uuid.UUID
	ServiceID             uuid.UUID
	CustomPriceMinor      *int64
	CustomDurationMinutes *int
}

// AssignedService is a service assigned at a location, joined to the service
// defaults. The assignment list is the source of truth for which services exist
// at a location.
type AssignedService struct {
	ServiceID              uuid.UUID
	Name                   string
	CategoryID             *uuid.UUID
	DefaultPriceMinor      int64
	DefaultDurationMinutes int
	Override               Override
}

// Location holds the location attributes the pricing engine needs.
type Location struct {
	ID           uuid.UUID
	BusinessID   uuid.UUID
	CurrencyCode string
}
