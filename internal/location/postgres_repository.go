package location

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresRepository implements Repository using pgxpool.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Repository backed by the given connection pool.
func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &PostgresRepository{pool: pool}
}

// assignedColumns is the ordered list of columns scanned for an AssignedService.
const assignedColumns = `ls.location_id, s.id, s.name, s.category_id,
	s.default_price_minor, s.default_duration_minutes,
	ls.custom_price_minor, ls.custom_duration_minutes`

// assignedFrom joins location assignments to the service defaults.
const assignedFrom = `FROM location_services ls JOIN services s ON s.id = ls.service_id`

func scanAssigned(row pgx.Row) (*AssignedService, error) {
	var a AssignedService
	err := row.Scan(
		&a.Override.LocationID, &a.ServiceID, &a.Name, &a.CategoryID,
		&a.DefaultPriceMinor, &a.DefaultDurationMinutes,
		&a.Override.CustomPriceMinor, &a.Override.CustomDurationMinutes,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotAssigned
		}
		return nil, fmt.Errorf("scanning assigned service row: %w", err)
	}
	a.Override.ServiceID = a.ServiceID
	return &a, nil
}

// Get retrieves a location by its UUID.
func (r *PostgresRepository) Get(ctx context.Context, id uuid.UUID) (*Location, error) {
	var l Location
	err := r.pool.QueryRow(ctx,
		`SELECT id, business_id, currency_code FROM locations WHERE id = $1`, id,
	).Scan(&l.ID, &l.BusinessID, &l.CurrencyCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLocationNotFound
		}
		return nil, fmt.Errorf("querying location: %w", err)
	}
	return &l, nil
}

// ListAssigned retrieves the services assigned at a location in display order.
func (r *PostgresRepository) ListAssigned(ctx context.Context, locationID uuid.UUID) ([]AssignedService, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE ls.location_id = $1 ORDER BY ls.position ASC, s.name ASC`,
		assignedColumns, assignedFrom)

	rows, err := r.pool.Query(ctx, query, locationID)
	if err != nil {
		return nil, fmt.Errorf("listing assigned services: %w", err)
	}
	defer rows.Close()

	assigned := []AssignedService{}
	for rows.Next() {
		a, err := scanAssigned(rows)
		if err != nil {
			return nil, err
		}
		assigned = append(assigned, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assigned service rows: %w", err)
	}

	return assigned, nil
}

// GetAssigned retrieves one assigned service.
func (r *PostgresRepository) GetAssigned(ctx context.Context, locationID, serviceID uuid.UUID) (*AssignedService, error) {
	query := fmt.Sprintf(`SELECT %s %s WHERE ls.location_id = $1 AND ls.service_id = $2`,
		assignedColumns, assignedFrom)
	return scanAssigned(r.pool.QueryRow(ctx, query, locationID, serviceID))
}

// SaveOverride replaces the override fields of an assigned service. Nil fields
// are stored as NULL.
func (r *PostgresRepository) SaveOverride(ctx context.Context, o Override) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE location_services
		SET custom_price_minor = $3, custom_duration_minutes = $4
		WHERE location_id = $1 AND service_id = $2`,
		o.LocationID, o.ServiceID, o.CustomPriceMinor, o.CustomDurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("saving location override: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotAssigned
	}

	return nil
}
