package catalog_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricebook/pricebook/internal/catalog"
	"github.com/pricebook/pricebook/internal/database/dbtest"
)

func TestGetByID(t *testing.T) {
	pool := dbtest.Open(t)
	repo := catalog.NewPostgresRepository(pool)
	ctx := context.Background()

	id := dbtest.SeedService(t, pool, "Haircut", 2500, 30)

	svc, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, svc.ID)
	assert.Equal(t, "Haircut", svc.Name)
	assert.Equal(t, int64(2500), svc.DefaultPriceMinor)
	assert.Equal(t, 30, svc.DefaultDurationMinutes)
	assert.Nil(t, svc.CategoryID)
}

func TestGetByID_NotFound(t *testing.T) {
	pool := dbtest.Open(t)
	repo := catalog.NewPostgresRepository(pool)

	_, err := repo.GetByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}
