package repositories

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-eats/internal/models"
)

func TestMerchantRepository_CreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMerchantRepository(db.DB)
	m := createMerchant(t, db, "Noodle Bar")

	assert.Equal(t, models.MerchantPending, m.Status)
	assert.False(t, m.CreatedAt.IsZero())

	_, err := repo.Create(ctx, &models.MerchantCreateRequest{UserID: 2, StoreName: "Noodle Bar", OwnerName: "Bo", Phone: "+1 5550199"})
	assert.ErrorIs(t, err, models.ErrFailedPrecondition)

	taken, err := repo.StoreNameExists(ctx, "Noodle Bar")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.StoreNameExists(ctx, "Taco Stand")
	require.NoError(t, err)
	assert.False(t, taken)

	byUser, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, m.ID, byUser.ID)
	_, err = repo.GetByUserID(ctx, 42)
	assert.ErrorIs(t, err, models.ErrNotFound)

	found, err := repo.SearchByName(ctx, "noodle")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	_, err = repo.SearchByName(ctx, "  ")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestMerchantRepository_UpdateAndStatus(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMerchantRepository(db.DB)
	m := createMerchant(t, db, "Noodle Bar")
	createMerchant(t, db, "Taco Stand")

	updated, err := repo.Update(ctx, m.ID, models.ProfileData{models.FieldAddress: "Block D"})
	require.NoError(t, err)
	assert.Equal(t, "Block D", updated.Address)
	assert.Equal(t, "Noodle Bar", updated.StoreName)

	_, err = repo.Update(ctx, m.ID, models.ProfileData{models.FieldStoreName: "Taco Stand"})
	assert.ErrorIs(t, err, models.ErrFailedPrecondition)
	_, err = repo.Update(ctx, m.ID, models.ProfileData{models.FieldPhone: "call me"})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)

	approved, err := repo.UpdateStatus(ctx, m.ID, "ACTIVE")
	require.NoError(t, err)
	assert.Equal(t, models.MerchantApproved, approved.Status)

	list, err := repo.ListByStatus(ctx, models.MerchantApproved)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = repo.UpdateStatus(ctx, 999, models.MerchantRejected)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMerchantRepository_UpdateLockedByPendingChange(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMerchantRepository(db.DB)
	changes := NewMerchantChangeRepository(db.DB)
	m := createMerchant(t, db, "Noodle Bar")

	change, err := changes.Create(ctx, m.ID, &models.ChangeSubmission{
		NewData: models.ProfileData{models.FieldStoreName: "Ramen Bar"},
	})
	require.NoError(t, err)

	_, err = repo.Update(ctx, m.ID, models.ProfileData{models.FieldStoreName: "Soba Bar"})
	assert.ErrorIs(t, err, models.ErrFailedPrecondition)
	current, err := repo.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Noodle Bar", current.StoreName)

	// other fields stay editable
	updated, err := repo.Update(ctx, m.ID, models.ProfileData{models.FieldAddress: "Block D"})
	require.NoError(t, err)
	assert.Equal(t, "Block D", updated.Address)

	_, err = changes.Review(ctx, change.ID, false)
	require.NoError(t, err)
	updated, err = repo.Update(ctx, m.ID, models.ProfileData{models.FieldStoreName: "Soba Bar"})
	require.NoError(t, err)
	assert.Equal(t, "Soba Bar", updated.StoreName)
}

func TestMerchantRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewMerchantRepository(db.DB)
	m := createMerchant(t, db, "Noodle Bar")
	busy := createMerchant(t, db, "Taco Stand")
	d := createDish(t, db, busy.ID, "Taco", "3")
	_, err := NewCartRepository(db.DB).AddItem(ctx, 7, d.ID, 1)
	require.NoError(t, err)
	_, err = NewOrderRepository(db.DB).CreateFromCart(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, m.ID))
	_, err = repo.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, busy.ID), models.ErrFailedPrecondition)
	assert.ErrorIs(t, repo.Delete(ctx, m.ID), models.ErrNotFound)
}
