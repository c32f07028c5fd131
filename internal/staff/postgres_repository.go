package staff

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

const allColumns = `location_id, staff_id, service_id, can_perform,
	custom_price_minor, custom_duration_minutes, updated_at`

const upsertQuery = `
	INSERT INTO staff_services (location_id, staff_id, service_id, can_perform, custom_price_minor, custom_duration_minutes)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (location_id, staff_id, service_id) DO UPDATE
	SET can_perform = EXCLUDED.can_perform,
	    custom_price_minor = EXCLUDED.custom_price_minor,
	    custom_duration_minutes = EXCLUDED.custom_duration_minutes,
	    updated_at = NOW()`

func scanOverride(row pgx.Row) (*Override, error) {
	var o Override
	err := row.Scan(
		&o.LocationID, &o.StaffID, &o.ServiceID, &o.CanPerform,
		&o.CustomPriceMinor, &o.CustomDurationMinutes, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOverrideNotFound
		}
		return nil, fmt.Errorf("scanning staff override row: %w", err)
	}
	return &o, nil
}

// List retrieves every stored setting of a staff member at a location. Rows for
// services no longer assigned at the location are returned as-is.
func (r *PostgresRepository) List(ctx context.Context, locationID, staffID uuid.UUID) ([]Override, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_services WHERE location_id = $1 AND staff_id = $2`, allColumns)

	rows, err := r.pool.Query(ctx, query, locationID, staffID)
	if err != nil {
		return nil, fmt.Errorf("listing staff overrides: %w", err)
	}
	defer rows.Close()

	overrides := []Override{}
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating staff override rows: %w", err)
	}

	return overrides, nil
}

// Get retrieves one staff setting.
func (r *PostgresRepository) Get(ctx context.Context, locationID, staffID, serviceID uuid.UUID) (*Override, error) {
	query := fmt.Sprintf(`SELECT %s FROM staff_services WHERE location_id = $1 AND staff_id = $2 AND service_id = $3`, allColumns)
	return scanOverride(r.pool.QueryRow(ctx, query, locationID, staffID, serviceID))
}

// Save inserts or replaces one staff setting.
func (r *PostgresRepository) Save(ctx context.Context, o Override) error {
	_, err := r.pool.Exec(ctx, upsertQuery,
		o.LocationID, o.StaffID, o.ServiceID, o.CanPerform, o.CustomPriceMinor, o.CustomDurationMinutes,
	)
	if err != nil {
		return fmt.Errorf("saving staff override: %w", err)
	}
	return nil
}

// ReplaceAll upserts the given rows for a staff member in one transaction.
// Stored rows for services absent from rows are left untouched.
func (r *PostgresRepository) ReplaceAll(ctx context.Context, locationID, staffID uuid.UUID, rows []Override) error {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, o := range rows {
			batch.Queue(upsertQuery,
				locationID, staffID, o.ServiceID, o.CanPerform, o.CustomPriceMinor, o.CustomDurationMinutes,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return fmt.Errorf("replacing staff overrides: %w", err)
	}
	return nil
}
