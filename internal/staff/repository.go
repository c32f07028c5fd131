package staff

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrOverrideNotFound is returned when a staff member has no settings for a service.
var ErrOverrideNotFound = errors.New("staff override not found")

// Repository provides access to the staff_services table.
type Repository interface {
	List(ctx context.Context, locationID, staffID uuid.UUID) ([]Override, error)
	Get(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*Override, error)
	Save(ctx context.Context, o Override) error
	ReplaceAll(ctx context.Context, locationID, staffID uuid.UUID, rows []Override) error
}
