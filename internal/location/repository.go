package location

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrLocationNotFound is returned when a location record is not found.
var ErrLocationNotFound = errors.New("location not found")

// ErrNotAssigned is returned when a service is not assigned at the location.
var ErrNotAssigned = errors.New("service not assigned at location")

// Repository provides access to locations and their assigned services.
type Repository interface {
	Get(ctx context.Context, id uuid.UUID) (*Location, error)
	ListAssigned(ctx context.Context, locationID uuid.UUID) ([]AssignedService, error)
	GetAssigned(ctx context.Context, locationID, serviceID uuid.UUID) (*AssignedService, error)
	SaveOverride(ctx context.Context, o Override) error
}
