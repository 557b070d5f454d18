package repositories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"campus-eats/internal/database"
	"campus-eats/internal/models"
)

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.NewConnection(database.Config{Driver: database.DriverSQLite, Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.RunMigrations())
	return db
}

func createMerchant(t *testing.T, db *database.DB, storeName string) *models.Merchant {
	t.Helper()
	m, err := NewMerchantRepository(db.DB).Create(context.Background(), &models.MerchantCreateRequest{
		UserID:    1,
		StoreName: storeName,
		OwnerName: "Ada",
		Phone:     "+1 5550100",
		Address:   "Block C",
	})
	require.NoError(t, err)
	return m
}

func createDish(t *testing.T, db *database.DB, merchantID int64, name, price string) *models.Dish {
	t.Helper()
	d, err := NewDishRepository(db.DB).Create(context.Background(), &models.DishCreateRequest{
		MerchantID: merchantID,
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Available:  true,
	})
	require.NoError(t, err)
	return d
}
