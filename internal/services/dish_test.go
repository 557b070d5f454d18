package services

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"campus-eats/internal/models"
)

func loadedMenu(t *testing.T, dishes ...models.Dish) (*DishService, *MockAPI) {
	t.Helper()
	api := new(MockAPI)
	svc := NewDishService(api)
	api.On("ListMerchantDishes", mock.Anything, int64(1)).Return(dishes, nil).Once()
	require.NoError(t, svc.Load(context.Background(), 1))
	return svc, api
}

func TestDishService_Views(t *testing.T) {
	off := dish(2, "4")
	off.Available = false
	svc, _ := loadedMenu(t, dish(1, "3"), off, dish(3, "5"))

	assert.Len(t, svc.Dishes(), 3)
	assert.Len(t, svc.Available(), 2)
	require.Len(t, svc.Unavailable(), 1)
	assert.Equal(t, int64(2), svc.Unavailable()[0].ID)
}

func TestDishService_ToggleAvailability(t *testing.T) {
	svc, api := loadedMenu(t, dish(1, "3"))
	off := dish(1, "3")
	off.Available = false
	api.On("ToggleDishAvailability", mock.Anything, int64(1)).Return(nil)
	api.On("GetDish", mock.Anything, int64(1)).Return(&off, nil)

	got, err := svc.ToggleAvailability(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Empty(t, svc.Available())
	assert.Len(t, svc.Unavailable(), 1)
}

func TestDishService_ToggleAvailabilityRefreshFails(t *testing.T) {
	svc, api := loadedMenu(t, dish(1, "3"))
	api.On("ToggleDishAvailability", mock.Anything, int64(1)).Return(nil)
	api.On("GetDish", mock.Anything, int64(1)).Return(nil, models.ErrNetwork)

	got, err := svc.ToggleAvailability(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, got.Available)
	assert.Len(t, svc.Unavailable(), 1)

	// nothing loaded to flip
	api.On("ToggleDishAvailability", mock.Anything, int64(9)).Return(nil)
	api.On("GetDish", mock.Anything, int64(9)).Return(nil, models.ErrNetwork)
	_, err = svc.ToggleAvailability(context.Background(), 9)
	assert.ErrorIs(t, err, models.ErrNetwork)
}

func TestDishService_ToggleRejected(t *testing.T) {
	svc, api := loadedMenu(t, dish(1, "3"))
	api.On("ToggleDishAvailability", mock.Anything, int64(1)).Return(notFound())

	_, err := svc.ToggleAvailability(context.Background(), 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.ErrorIs(t, svc.Err(), models.ErrNotFound)
	assert.False(t, svc.Loading())
	assert.Len(t, svc.Available(), 1)
	api.AssertNotCalled(t, "GetDish", mock.Anything, mock.Anything)
}

func TestDishService_Create(t *testing.T) {
	svc, api := loadedMenu(t, dish(1, "3"))

	_, err := svc.Create(context.Background(), &models.DishCreateRequest{MerchantID: 1, Price: decimal.NewFromInt(2)})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	assert.ErrorIs(t, svc.Err(), models.ErrInvalidArgument)
	api.AssertNotCalled(t, "CreateDish", mock.Anything, mock.Anything)

	req := &models.DishCreateRequest{MerchantID: 1, Name: "Gyoza", Price: decimal.NewFromInt(6), Available: true}
	created := dish(4, "6")
	api.On("CreateDish", mock.Anything, req).Return(&created, nil)

	got, err := svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(4), got.ID)
	assert.Len(t, svc.Dishes(), 2)
	assert.NoError(t, svc.Err())
}

func TestDishService_GetKeepsMenuScoped(t *testing.T) {
	svc, api := loadedMenu(t, dish(1, "3"))
	other := dish(7, "8")
	other.MerchantID = 2
	api.On("GetDish", mock.Anything, int64(7)).Return(&other, nil)

	got, err := svc.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.MerchantID)
	assert.Len(t, svc.Dishes(), 1)
}

func TestDishService_UpdateAndDelete(t *testing.T) {
	svc, api := loadedMenu(t, dish(1, "3"), dish(2, "4"))

	_, err := svc.Update(context.Background(), 1, &models.DishCreateRequest{MerchantID: 1, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, models.ErrInvalidArgument)
	api.AssertNotCalled(t, "UpdateDish", mock.Anything, mock.Anything, mock.Anything)

	req := &models.DishCreateRequest{MerchantID: 1, Name: "Ramen", Price: decimal.NewFromInt(5), Available: true}
	renamed := dish(1, "5")
	renamed.Name = "Ramen"
	api.On("UpdateDish", mock.Anything, int64(1), req).Return(&renamed, nil)

	got, err := svc.Update(context.Background(), 1, req)
	require.NoError(t, err)
	assert.Equal(t, "Ramen", got.Name)
	assert.Equal(t, "Ramen", svc.Dishes()[0].Name)

	api.On("DeleteDish", mock.Anything, int64(2)).Return(notFound())
	require.NoError(t, svc.Delete(context.Background(), 2))
	require.Len(t, svc.Dishes(), 1)

	api.On("DeleteDish", mock.Anything, int64(1)).Return(models.ErrNetwork)
	assert.ErrorIs(t, svc.Delete(context.Background(), 1), models.ErrNetwork)
	assert.Len(t, svc.Dishes(), 1)
}
