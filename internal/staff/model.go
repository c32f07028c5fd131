package staff

import (
	"time"

	"github.com/google/uuid"
)

// Override is the per-staff setting of a service at a location. Custom values
// inherit from the location's effective values when nil, and are kept while
// CanPerform is false.
type Override struct {
	LocationID            uuid.UUID
	StaffID               uuid.UUID
	ServiceID             uuid.UUID
	CanPerform            bool
	CustomPriceMinor      *int64
	CustomDurationMinutes *int
	UpdatedAt             time.Time
}
