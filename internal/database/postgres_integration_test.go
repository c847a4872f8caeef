//go:build integration

package database_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"catalog/internal/config"
	"catalog/internal/database"
	"catalog/internal/models"
	"catalog/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestPostgresProductLifecycle(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("catalog"),
		postgres.WithUsername("catalog"),
		postgres.WithPassword("catalog"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.Open(config.DatabaseConfig{Driver: config.DriverPostgres, URL: dsn})
	require.NoError(t, err)
	defer database.Close(db)

	require.NoError(t, database.Ping(ctx, db, 5*time.Second))
	require.NoError(t, database.Migrate(db))

	repo := repositories.NewGORMProductRepository(db)

	first := &models.Product{Name: "Monitor", Price: 300, Availability: true}
	second := &models.Product{Name: "Teclado", Price: 50, Availability: true}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	products, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, second.ID, products[0].ID)

	second.Availability = false
	require.NoError(t, repo.Update(ctx, second))
	reloaded, err := repo.GetByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Availability)

	require.NoError(t, repo.Delete(ctx, second.ID))
	_, err = repo.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	long := &models.Product{Name: strings.Repeat("a", 150), Price: 10, Availability: true}
	require.NoError(t, repo.Create(ctx, long))
	reloaded, err = repo.GetByID(ctx, long.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Name, 150)

	third := &models.Product{Name: "Mouse", Price: 25, Availability: true}
	require.NoError(t, repo.Create(ctx, third))
	assert.Greater(t, third.ID, second.ID)
}
