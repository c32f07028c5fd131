package catalog

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

const allColumns = `id, business_id, name, category_id, default_price_minor, default_duration_minutes`

func scanService(row pgx.Row) (*Service, error) {
	var s Service
	err := row.Scan(&s.ID, &s.BusinessID, &s.Name, &s.CategoryID, &s.DefaultPriceMinor, &s.DefaultDurationMinutes)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrServiceNotFound
		}
		return nil, fmt.Errorf("scanning service row: %w", err)
	}
	return &s, nil
}

// GetByID retrieves a single service by its UUID.
func (r *PostgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*Service, error) {
	query := fmt.Sprintf(`SELECT %s FROM services WHERE id = $1`, allColumns)
	return scanService(r.pool.QueryRow(ctx, query, id))
}

