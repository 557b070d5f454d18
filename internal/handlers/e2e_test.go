package handlers

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campus-eats/internal/client"
	"campus-eats/internal/models"
	"campus-eats/internal/services"
)

func newSession(t *testing.T, f *fixture, userID int64, token string) *services.Session {
	t.Helper()
	api := client.New(client.Config{BaseURL: f.server.URL + "/api", Token: token})
	return services.NewSession(userID, api)
}

func TestSession_CartAndCheckout(t *testing.T) {
	f := setupServer(t, RouterConfig{})
	s := newSession(t, f, 1, "")
	ctx := context.Background()

	_, err := s.Checkout(ctx)
	require.ErrorIs(t, err, models.ErrFailedPrecondition)

	_, err = s.AddToCart(ctx, f.dish.ID, 2)
	require.NoError(t, err)
	item, err := s.AddToCart(ctx, f.dish.ID, 1)
	require.NoError(t, err)

	assert.Equal(t, 3, item.Quantity)
	require.Len(t, s.Cart.Items(), 1)
	assert.Equal(t, 3, s.Cart.TotalItems())
	assert.True(t, decimal.NewFromInt(30).Equal(s.Cart.TotalAmount()))

	order, err := s.Checkout(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPending, order.Status)
	assert.True(t, decimal.NewFromInt(30).Equal(order.TotalPrice))
	assert.True(t, s.Cart.IsEmpty())

	require.NoError(t, s.LoadOrders(ctx))
	require.Len(t, s.Orders.Orders(), 1)
}

func TestSession_OrderTransitions(t *testing.T) {
	f := setupServer(t, RouterConfig{})
	s := newSession(t, f, 1, "")
	ctx := context.Background()

	_, err := s.AddToCart(ctx, f.dish.ID, 1)
	require.NoError(t, err)
	order, err := s.Checkout(ctx)
	require.NoError(t, err)

	_, err = s.Orders.UpdateStatus(ctx, order.ID, models.OrderConfirmed)
	require.NoError(t, err)
	_, err = s.Orders.UpdateStatus(ctx, order.ID, models.OrderPreparing)
	require.NoError(t, err)

	_, err = s.Orders.UpdateStatus(ctx, order.ID, models.OrderCompleted)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
	assert.Equal(t, models.OrderPreparing, s.Orders.Current().Status)

	_, err = s.Orders.UpdateStatus(ctx, order.ID, models.OrderReady)
	require.NoError(t, err)
	done, err := s.Orders.UpdateStatus(ctx, order.ID, models.OrderCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCompleted, done.Status)

	_, err = s.Orders.Cancel(ctx, order.ID)
	require.ErrorIs(t, err, models.ErrInvalidTransition)
}

func TestSession_OrderMovedByOtherSession(t *testing.T) {
	f := setupServer(t, RouterConfig{})
	ctx := context.Background()

	customer := newSession(t, f, 1, "")
	_, err := customer.AddToCart(ctx, f.dish.ID, 1)
	require.NoError(t, err)
	order, err := customer.Checkout(ctx)
	require.NoError(t, err)

	staff := newSession(t, f, 2, "")
	require.NoError(t, staff.Orders.LoadByMerchant(ctx, f.merchant.ID))
	require.Len(t, staff.Orders.Pending(), 1)

	other := newSession(t, f, 3, "")
	_, err = other.Orders.UpdateStatus(ctx, order.ID, models.OrderConfirmed)
	require.NoError(t, err)

	moved, err := staff.Orders.UpdateStatus(ctx, order.ID, models.OrderPreparing)
	require.NoError(t, err)
	assert.Equal(t, models.OrderPreparing, moved.Status)
	assert.Empty(t, staff.Orders.Pending())
}

func TestSession_ChangeReview(t *testing.T) {
	f := setupServer(t, RouterConfig{})
	s := newSession(t, f, 2, "")
	ctx := context.Background()
	proposed := models.ProfileData{models.FieldStoreName: "X"}

	first, err := s.Changes.Submit(ctx, f.merchant.ID, proposed)
	require.NoError(t, err)
	second, err := s.Changes.Submit(ctx, f.merchant.ID, proposed)
	require.NoError(t, err)
	assert.Equal(t, "Y", first.OldData[models.FieldStoreName])
	assert.Len(t, s.Changes.Pending(), 2)

	rejected, err := s.Changes.Review(ctx, first.ID, false)
	require.NoError(t, err)
	assert.Equal(t, models.ChangeRejected, rejected.Status)
	m, err := s.Changes.LoadCanonical(ctx, f.merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Y", m.StoreName)

	approved, err := s.Changes.Review(ctx, second.ID, true)
	require.NoError(t, err)
	assert.Equal(t, models.ChangeApproved, approved.Status)
	canonical, ok := s.Changes.Canonical(f.merchant.ID)
	require.True(t, ok)
	assert.Equal(t, "X", canonical.StoreName)

	_, err = s.Changes.Review(ctx, second.ID, false)
	require.ErrorIs(t, err, models.ErrInvalidState)

	// a fresh session only knows what the server says
	other := newSession(t, f, 3, "")
	_, err = other.Changes.Review(ctx, first.ID, true)
	require.ErrorIs(t, err, models.ErrInvalidState)
}

func TestSession_ProfileEditLockedByOtherSessionsChange(t *testing.T) {
	f := setupServer(t, RouterConfig{})
	ctx := context.Background()

	submitter := newSession(t, f, 2, "")
	_, err := submitter.Changes.Submit(ctx, f.merchant.ID, models.ProfileData{models.FieldStoreName: "X"})
	require.NoError(t, err)

	editor := newSession(t, f, 3, "")
	_, err = editor.Merchants.UpdateProfile(ctx, f.merchant.ID, models.ProfileData{models.FieldStoreName: "Z"})
	require.ErrorIs(t, err, models.ErrFailedPrecondition)

	m, err := editor.Merchants.Load(ctx, f.merchant.ID)
	require.NoError(t, err)
	assert.Equal(t, "Y", m.StoreName)

	// fields outside the request stay editable
	m, err = editor.Merchants.UpdateProfile(ctx, f.merchant.ID, models.ProfileData{models.FieldAddress: "Block E"})
	require.NoError(t, err)
	assert.Equal(t, "Block E", m.Address)
}

func TestSession_DishAvailability(t *testing.T) {
	f := setupServer(t, RouterConfig{})
	s := newSession(t, f, 9, "")
	ctx := context.Background()

	gyoza, err := s.Dishes.Create(ctx, &models.DishCreateRequest{
		MerchantID: f.merchant.ID, Name: "Gyoza", Price: decimal.RequireFromString("6.5"), Available: true,
	})
	require.NoError(t, err)

	off, err := s.Dishes.ToggleAvailability(ctx, f.dish.ID)
	require.NoError(t, err)
	assert.False(t, off.Available)

	require.NoError(t, s.Dishes.Load(ctx, f.merchant.ID))
	require.Len(t, s.Dishes.Available(), 1)
	assert.Equal(t, gyoza.ID, s.Dishes.Available()[0].ID)
	require.Len(t, s.Dishes.Unavailable(), 1)
	assert.Equal(t, f.dish.ID, s.Dishes.Unavailable()[0].ID)

	_, err = s.Dishes.Get(ctx, gyoza.ID+100)
	require.ErrorIs(t, err, models.ErrNotFound)

	repriced, err := s.Dishes.Update(ctx, gyoza.ID, &models.DishCreateRequest{
		MerchantID: f.merchant.ID, Name: "Gyoza", Price: decimal.NewFromInt(7), Available: true,
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(7).Equal(repriced.Price))

	require.NoError(t, s.Dishes.Delete(ctx, gyoza.ID))
	assert.Empty(t, s.Dishes.Available())
	_, err = s.Dishes.Get(ctx, gyoza.ID)
	require.ErrorIs(t, err, models.ErrNotFound)
}

func TestSession_Token(t *testing.T) {
	f := setupServer(t, RouterConfig{Token: "s3cret"})
	ctx := context.Background()

	_, err := newSession(t, f, 1, "").Menu(ctx, f.merchant.ID)
	require.Error(t, err)

	dishes, err := newSession(t, f, 1, "s3cret").Menu(ctx, f.merchant.ID)
	require.NoError(t, err)
	require.Len(t, dishes, 1)
	assert.Equal(t, f.dish.ID, dishes[0].ID)
}
