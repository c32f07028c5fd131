package database

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS locations (
		id            UUID PRIMARY KEY,
		business_id   UUID NOT NULL,
		currency_code TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS services (
		id                       UUID PRIMARY KEY,
		business_id              UUID NOT NULL,
		name                     TEXT NOT NULL,
		category_id              UUID,
		default_price_minor      BIGINT NOT NULL CHECK (default_price_minor >= 0),
		default_duration_minutes INTEGER NOT NULL CHECK (default_duration_minutes >= 1)
	)`,
	`CREATE TABLE IF NOT EXISTS location_services (
		location_id             UUID NOT NULL REFERENCES locations (id) ON DELETE CASCADE,
		service_id              UUID NOT NULL REFERENCES services (id) ON DELETE CASCADE,
		custom_price_minor      BIGINT CHECK (custom_price_minor >= 0),
		custom_duration_minutes INTEGER CHECK (custom_duration_minutes >= 1),
		position                INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (location_id, service_id)
	)`,
	`CREATE TABLE IF NOT EXISTS staff_services (
		location_id             UUID NOT NULL REFERENCES locations (id) ON DELETE CASCADE,
		staff_id                UUID NOT NULL,
		service_id              UUID NOT NULL REFERENCES services (id) ON DELETE CASCADE,
		can_perform             BOOLEAN NOT NULL DEFAULT FALSE,
		custom_price_minor      BIGINT CHECK (custom_price_minor >= 0),
		custom_duration_minutes INTEGER CHECK (custom_duration_minutes >= 1),
		updated_at              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (location_id, staff_id, service_id)
	)`,
	`CREATE INDEX IF NOT EXISTS staff_services_staff_idx ON staff_services (location_id, staff_id)`,
}

// EnsureSchema creates the pricing tables when they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}
