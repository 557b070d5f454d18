package repositories

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-eats/internal/models"
)

func TestDishRepository(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewDishRepository(db.DB)
	noodles := createMerchant(t, db, "Noodle Bar")
	tacos := createMerchant(t, db, "Taco Stand")

	ramen := createDish(t, db, noodles.ID, "Ramen", "12.50")
	createDish(t, db, tacos.ID, "Taco", "3")

	assert.True(t, ramen.Price.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, ramen.Available)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := repo.ListByMerchant(ctx, noodles.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, "Ramen", own[0].Name)

	toggled, err := repo.ToggleAvailability(ctx, ramen.ID)
	require.NoError(t, err)
	assert.False(t, toggled.Available)

	_, err = repo.ToggleAvailability(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.Create(ctx, &models.DishCreateRequest{MerchantID: 999, Name: "Ghost", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.Create(ctx, &models.DishCreateRequest{MerchantID: noodles.ID, Name: " ", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestDishRepository_UpdateAndDelete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewDishRepository(db.DB)
	carts := NewCartRepository(db.DB)
	noodles := createMerchant(t, db, "Noodle Bar")
	tacos := createMerchant(t, db, "Taco Stand")
	ramen := createDish(t, db, noodles.ID, "Ramen", "12.50")
	item, err := carts.AddItem(ctx, 1, ramen.ID, 2)
	require.NoError(t, err)

	updated, err := repo.Update(ctx, ramen.ID, &models.DishCreateRequest{
		MerchantID: noodles.ID, Name: "Spicy Ramen", Price: decimal.NewFromInt(14), EstimatedWaitTime: 15,
	})
	require.NoError(t, err)
	assert.Equal(t, "Spicy Ramen", updated.Name)
	assert.True(t, updated.Price.Equal(decimal.NewFromInt(14)))
	assert.False(t, updated.Available)

	_, err = repo.Update(ctx, ramen.ID, &models.DishCreateRequest{MerchantID: tacos.ID, Name: "Taco", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	_, err = repo.Update(ctx, 999, &models.DishCreateRequest{MerchantID: noodles.ID, Name: "Ghost", Price: decimal.NewFromInt(1)})
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, ramen.ID))
	_, err = repo.GetByID(ctx, ramen.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	items, err := carts.Items(ctx, item.CartID)
	require.NoError(t, err)
	assert.Empty(t, items)

	assert.ErrorIs(t, repo.Delete(ctx, ramen.ID), models.ErrNotFound)
}
