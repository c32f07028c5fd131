package catalog

import "github.com/google/uuid"

// Service represents a row in the services table. Services are owned by the
// business and are read-only from the pricing engine's point of view.
type Service struct {
	ID                     uuid.UUID
	BusinessID             uuid.UUID
	Name                   string
	CategoryID             *uuid.UUID
	DefaultPriceMinor      int64
	DefaultDurationMinutes int
}
