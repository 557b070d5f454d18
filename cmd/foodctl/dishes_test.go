package main

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-eats/internal/client"
	"campus-eats/internal/database"
	"campus-eats/internal/handlers"
	"campus-eats/internal/models"
	"campus-eats/internal/repositories"
	"campus-eats/internal/services"
)

// newTestApp runs foodctl against a devserver over an in-memory database
// holding one merchant with one available dish.
func newTestApp(t *testing.T) (*app, *models.Dish) {
	t.Helper()
	db, err := database.NewConnection(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())

	ctx := context.Background()
	m, err := repositories.NewMerchantRepository(db.DB).Create(ctx, &models.MerchantCreateRequest{
		UserID: 9, StoreName: "Y", OwnerName: "Ada", Phone: "+1 5550100",
	})
	require.NoError(t, err)
	d, err := repositories.NewDishRepository(db.DB).Create(ctx, &models.DishCreateRequest{
		MerchantID: m.ID, Name: "Ramen", Price: decimal.NewFromInt(10), Available: true,
	})
	require.NoError(t, err)

	server := httptest.NewServer(handlers.NewRouter(db.DB, handlers.RouterConfig{}))
	t.Cleanup(server.Close)

	out, err := os.Create(filepath.Join(t.TempDir(), "out.txt"))
	require.NoError(t, err)
	t.Cleanup(func() { out.Close() })

	api := client.New(client.Config{BaseURL: server.URL + "/api"})
	return &app{session: services.NewSession(1, api), out: out}, d
}

func output(t *testing.T, a *app) string {
	t.Helper()
	raw, err := os.ReadFile(a.out.Name())
	require.NoError(t, err)
	return string(raw)
}

func TestDishesCommands(t *testing.T) {
	a, d := newTestApp(t)
	ctx := context.Background()
	merchant := fmt.Sprint(d.MerchantID)

	require.NoError(t, a.run(ctx, "dishes", "toggle", []string{fmt.Sprint(d.ID)}))
	assert.Contains(t, output(t, a), fmt.Sprintf("Dish %d (Ramen) is now unavailable", d.ID))

	require.NoError(t, a.run(ctx, "dishes", "add", []string{merchant, "Gyoza", "6.50", "5"}))
	require.NoError(t, a.run(ctx, "dishes", "list", []string{merchant, "unavailable"}))

	assert.Len(t, a.session.Dishes.Unavailable(), 1)
	assert.Equal(t, d.ID, a.session.Dishes.Unavailable()[0].ID)
	require.Len(t, a.session.Dishes.Available(), 1)
	assert.Equal(t, "Gyoza", a.session.Dishes.Available()[0].Name)
	assert.Equal(t, 5, a.session.Dishes.Available()[0].EstimatedWaitTime)

	gyoza := a.session.Dishes.Available()[0]
	require.NoError(t, a.run(ctx, "dishes", "price", []string{fmt.Sprint(gyoza.ID), "7.25"}))
	got, err := a.session.Dishes.Get(ctx, gyoza.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("7.25").Equal(got.Price))
	assert.Equal(t, 5, got.EstimatedWaitTime)

	require.NoError(t, a.run(ctx, "dishes", "rm", []string{fmt.Sprint(gyoza.ID)}))
	assert.Contains(t, output(t, a), fmt.Sprintf("Dish %d removed", gyoza.ID))
	assert.Empty(t, a.session.Dishes.Available())

	assert.Error(t, a.run(ctx, "dishes", "list", []string{merchant, "cold"}))
	assert.Error(t, a.run(ctx, "dishes", "add", []string{merchant, "Tea", "free"}))
	assert.ErrorIs(t, a.run(ctx, "dishes", "toggle", []string{fmt.Sprint(d.ID + 99)}), models.ErrNotFound)
}
