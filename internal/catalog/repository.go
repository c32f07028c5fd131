package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrServiceNotFound is returned when a service record is not found.
var ErrServiceNotFound = errors.New("service not found")

// Repository provides read access to the services table.
type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
}
