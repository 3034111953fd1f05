//go:build integration
// +build integration

package services

import (
	"context"
	"testing"
	"time"

	"github.com/franciscosanchezn/pizza-store/internal/database"
	"github.com/franciscosanchezn/pizza-store/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

// setupPostgresDB starts a PostgreSQL container and returns a migrated, seeded database
func setupPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase("pizzastore"),
		postgres.WithUsername("pizza"),
		postgres.WithPassword("pizza"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("Failed to start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("Failed to terminate container: %v", err)
		}
	})

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.InitDatabase(database.DatabaseConfig{Driver: "postgres", URL: connStr, MaxAttempts: 3}, quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	require.NoError(t, database.Setup(db, quietLogger()))
	return db
}

func TestPostgresPizzaService(t *testing.T) {
	ctx := context.Background()
	db := setupPostgresDB(t)
	svc := NewPizzaService(db, quietLogger())

	t.Run("seed is visible and the next id is 2", func(t *testing.T) {
		pizzas, err := svc.ListPizzas(ctx)
		require.NoError(t, err)
		require.Len(t, pizzas, 1)
		assert.Equal(t, "Pepperoni", pizzas[0].Name)

		created, err := svc.CreatePizza(ctx, models.Pizza{Name: "Margherita"})
		require.NoError(t, err)
		assert.Equal(t, 2, created.ID)
	})

	t.Run("seeding twice keeps a single record", func(t *testing.T) {
		require.NoError(t, database.Seed(db, quietLogger()))

		_, err := svc.GetPizza(ctx, 1)
		require.NoError(t, err)
		var count int64
		require.NoError(t, db.Model(&models.Pizza{}).Where("name = ?", "Pepperoni").Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("update detects a concurrent writer", func(t *testing.T) {
		onNextUpdate(t, db, "UPDATE pizzas SET version = version + 1 WHERE id = $1", 1)

		err := svc.UpdatePizza(ctx, 1, models.Pizza{ID: 1, Name: "Mine"})

		assert.ErrorIs(t, err, ErrConcurrentUpdate)
	})

	t.Run("delete returns the last value", func(t *testing.T) {
		deleted, err := svc.DeletePizza(ctx, 2)
		require.NoError(t, err)
		assert.Equal(t, "Margherita", deleted.Name)

		_, err = svc.GetPizza(ctx, 2)
		assert.ErrorIs(t, err, ErrPizzaNotFound)
	})
}
