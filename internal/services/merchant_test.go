package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campus-eats/internal/models"
)

func TestMerchantService_UpdateProfileBlockedByPendingChange(t *testing.T) {
	// nothing loaded locally; the guard must still see the server's request
	api := new(MockAPI)
	changes := NewMerchantChangeService(api)
	svc := NewMerchantService(api, changes)
	api.On("ListMerchantChangesByMerchant", mock.Anything, int64(3)).
		Return([]models.MerchantChangeRequest{changeRequest(1, models.ChangePending, "Y", "X")}, nil)

	_, err := svc.UpdateProfile(context.Background(), 3, models.ProfileData{models.FieldStoreName: "Z"})
	assert.ErrorIs(t, err, models.ErrFailedPrecondition)
	api.AssertNotCalled(t, "UpdateMerchant", mock.Anything, mock.Anything, mock.Anything)

	updated := merchant("Y")
	updated.Address = "Block E"
	data := models.ProfileData{models.FieldAddress: "Block E"}
	api.On("UpdateMerchant", mock.Anything, int64(3), data).Return(updated, nil)

	got, err := svc.UpdateProfile(context.Background(), 3, data)
	require.NoError(t, err)
	assert.Equal(t, "Block E", got.Address)
	assert.Equal(t, "Block E", svc.Current().Address)
}

func TestMerchantService_UpdateProfileRefreshFails(t *testing.T) {
	api := new(MockAPI)
	svc := NewMerchantService(api, NewMerchantChangeService(api))
	api.On("ListMerchantChangesByMerchant", mock.Anything, int64(3)).Return(nil, models.ErrNetwork)

	_, err := svc.UpdateProfile(context.Background(), 3, models.ProfileData{models.FieldAddress: "Block E"})
	assert.ErrorIs(t, err, models.ErrNetwork)
	assert.ErrorIs(t, svc.Err(), models.ErrNetwork)
	api.AssertNotCalled(t, "UpdateMerchant", mock.Anything, mock.Anything, mock.Anything)
}

func TestMerchantService_Create(t *testing.T) {
	api := new(MockAPI)
	svc := NewMerchantService(api, nil)
	req := &models.MerchantCreateRequest{UserID: 1, StoreName: "Noodle Bar", OwnerName: "Ada", Phone: "+1 5550100", Address: "Block C"}

	api.On("StoreNameExists", mock.Anything, "Noodle Bar").Return(true, nil).Once()
	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, models.ErrFailedPrecondition)

	created := merchant("Noodle Bar")
	created.Status = models.MerchantPending
	api.On("StoreNameExists", mock.Anything, "Noodle Bar").Return(false, nil).Once()
	api.On("CreateMerchant", mock.Anything, req).Return(created, nil)

	got, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, models.MerchantPending, got.Status)
	assert.Len(t, svc.Merchants(), 1)
}

func TestMerchantService_StatusAliases(t *testing.T) {
	api := new(MockAPI)
	svc := NewMerchantService(api, nil)
	api.On("ListMerchantsByStatus", mock.Anything, models.MerchantRejected).Return([]models.Merchant{*merchant("A")}, nil)
	api.On("UpdateMerchantStatus", mock.Anything, int64(3), models.MerchantApproved).Return(merchant("A"), nil)

	require.NoError(t, svc.LoadByStatus(context.Background(), "DISABLED"))
	assert.Len(t, svc.Merchants(), 1)

	_, err := svc.UpdateStatus(context.Background(), 3, "active")
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), 3, "closed")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
}

func TestMerchantService_SearchAndDelete(t *testing.T) {
	api := new(MockAPI)
	svc := NewMerchantService(api, nil)
	api.On("SearchMerchants", mock.Anything, "Noodle").Return([]models.Merchant{*merchant("Noodle Bar")}, nil)
	api.On("DeleteMerchant", mock.Anything, int64(3)).Return(nil)

	found, err := svc.Search(context.Background(), " Noodle ")
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, svc.Delete(context.Background(), 3))
	assert.Empty(t, svc.Merchants())

	_, err = svc.Search(context.Background(), "")
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.ErrorIs(t, svc.Err(), models.ErrInvalidArgument)
}

func TestSession_SharesCartWithOrders(t *testing.T) {
	api := new(MockAPI)
	session := NewSession(1, api)
	api.On("GetCart", mock.Anything, int64(1)).Return(nil, notFound())

	require.NoError(t, session.LoadCart(context.Background()))

	_, err := session.Checkout(context.Background())
	assert.ErrorIs(t, err, models.ErrFailedPrecondition)
	assert.Same(t, session.Cart, session.Orders.cart)
	assert.Same(t, session.Changes, session.Merchants.changes)

	other := NewSession(2, api)
	assert.NotSame(t, session.Cart, other.Cart)
}

func TestSession_Menu(t *testing.T) {
	api := new(MockAPI)
	session := NewSession(1, api)
	api.On("ListDishes", mock.Anything).Return([]models.Dish{dish(1, "3")}, nil)
	api.On("ListMerchantDishes", mock.Anything, int64(3)).Return([]models.Dish{dish(2, "4")}, nil)

	all, err := session.Menu(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	own, err := session.Menu(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), own[0].ID)
}

func TestAggregateStatus_LastWriteWins(t *testing.T) {
	var s AggregateStatus

	s.begin()
	s.begin()
	assert.True(t, s.Loading())

	s.finish(models.ErrNetwork)
	assert.False(t, s.Loading())
	assert.Equal(t, models.ErrNetwork.Error(), s.ErrMessage())

	s.finish(nil)
	assert.NoError(t, s.Err())
	assert.Empty(t, s.ErrMessage())
}
