package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"campus-eats/internal/models"
)

// MockAPI for testing
type MockAPI struct {
	mock.Mock
}

var _ API = (*MockAPI)(nil)

func ptr[T any](args mock.Arguments, i int) *T {
	if v := args.Get(i); v != nil {
		return v.(*T)
	}
	return nil
}

func slice[T any](args mock.Arguments, i int) []T {
	if v := args.Get(i); v != nil {
		return v.([]T)
	}
	return nil
}

func (m *MockAPI) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	args := m.Called(ctx, userID)
	return ptr[models.Cart](args, 0), args.Error(1)
}

func (m *MockAPI) GetCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	args := m.Called(ctx, cartID)
	return slice[models.CartItem](args, 0), args.Error(1)
}

func (m *MockAPI) AddCartItem(ctx context.Context, userID, dishID int64, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, userID, dishID, quantity)
	return ptr[models.CartItem](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error) {
	args := m.Called(ctx, itemID, quantity)
	return ptr[models.CartItem](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteCartItem(ctx context.Context, itemID int64) error {
	args := m.Called(ctx, itemID)
	return args.Error(0)
}

func (m *MockAPI) ClearCart(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockAPI) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	return ptr[models.Order](args, 0), args.Error(1)
}

func (m *MockAPI) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	args := m.Called(ctx, status)
	return slice[models.Order](args, 0), args.Error(1)
}

func (m *MockAPI) ListOrdersByMerchant(ctx context.Context, merchantID int64) ([]models.Order, error) {
	args := m.Called(ctx, merchantID)
	return slice[models.Order](args, 0), args.Error(1)
}

func (m *MockAPI) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	args := m.Called(ctx, userID)
	return slice[models.Order](args, 0), args.Error(1)
}

func (m *MockAPI) CreateOrder(ctx context.Context, userID int64) (*models.Order, error) {
	args := m.Called(ctx, userID)
	return ptr[models.Order](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	args := m.Called(ctx, orderID, status)
	return ptr[models.Order](args, 0), args.Error(1)
}

func (m *MockAPI) CancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	args := m.Called(ctx, orderID)
	return ptr[models.Order](args, 0), args.Error(1)
}

func (m *MockAPI) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	args := m.Called(ctx, orderID)
	return slice[models.OrderItem](args, 0), args.Error(1)
}

func (m *MockAPI) AddOrderItem(ctx context.Context, orderID, dishID int64, quantity int) (*models.OrderItem, error) {
	args := m.Called(ctx, orderID, dishID, quantity)
	return ptr[models.OrderItem](args, 0), args.Error(1)
}

func (m *MockAPI) GetMerchant(ctx context.Context, merchantID int64) (*models.Merchant, error) {
	args := m.Called(ctx, merchantID)
	return ptr[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) GetMerchantByUser(ctx context.Context, userID int64) (*models.Merchant, error) {
	args := m.Called(ctx, userID)
	return ptr[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) ListMerchants(ctx context.Context) ([]models.Merchant, error) {
	args := m.Called(ctx)
	return slice[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) ListMerchantsByStatus(ctx context.Context, status models.MerchantStatus) ([]models.Merchant, error) {
	args := m.Called(ctx, status)
	return slice[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) SearchMerchants(ctx context.Context, name string) ([]models.Merchant, error) {
	args := m.Called(ctx, name)
	return slice[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) StoreNameExists(ctx context.Context, storeName string) (bool, error) {
	args := m.Called(ctx, storeName)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPI) CreateMerchant(ctx context.Context, req *models.MerchantCreateRequest) (*models.Merchant, error) {
	args := m.Called(ctx, req)
	return ptr[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateMerchant(ctx context.Context, merchantID int64, data models.ProfileData) (*models.Merchant, error) {
	args := m.Called(ctx, merchantID, data)
	return ptr[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateMerchantStatus(ctx context.Context, merchantID int64, status models.MerchantStatus) (*models.Merchant, error) {
	args := m.Called(ctx, merchantID, status)
	return ptr[models.Merchant](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteMerchant(ctx context.Context, merchantID int64) error {
	args := m.Called(ctx, merchantID)
	return args.Error(0)
}

func (m *MockAPI) ListMerchantChanges(ctx context.Context) ([]models.MerchantChangeRequest, error) {
	args := m.Called(ctx)
	return slice[models.MerchantChangeRequest](args, 0), args.Error(1)
}

func (m *MockAPI) ListMerchantChangesByMerchant(ctx context.Context, merchantID int64) ([]models.MerchantChangeRequest, error) {
	args := m.Called(ctx, merchantID)
	return slice[models.MerchantChangeRequest](args, 0), args.Error(1)
}

func (m *MockAPI) SubmitMerchantChange(ctx context.Context, merchantID int64, submission *models.ChangeSubmission) (*models.MerchantChangeRequest, error) {
	args := m.Called(ctx, merchantID, submission)
	return ptr[models.MerchantChangeRequest](args, 0), args.Error(1)
}

func (m *MockAPI) ReviewMerchantChange(ctx context.Context, changeID int64, approved bool) (*models.MerchantChangeRequest, error) {
	args := m.Called(ctx, changeID, approved)
	return ptr[models.MerchantChangeRequest](args, 0), args.Error(1)
}

func (m *MockAPI) ListDishes(ctx context.Context) ([]models.Dish, error) {
	args := m.Called(ctx)
	return slice[models.Dish](args, 0), args.Error(1)
}

func (m *MockAPI) ListMerchantDishes(ctx context.Context, merchantID int64) ([]models.Dish, error) {
	args := m.Called(ctx, merchantID)
	return slice[models.Dish](args, 0), args.Error(1)
}

func (m *MockAPI) GetDish(ctx context.Context, dishID int64) (*models.Dish, error) {
	args := m.Called(ctx, dishID)
	return ptr[models.Dish](args, 0), args.Error(1)
}

func (m *MockAPI) CreateDish(ctx context.Context, req *models.DishCreateRequest) (*models.Dish, error) {
	args := m.Called(ctx, req)
	return ptr[models.Dish](args, 0), args.Error(1)
}

func (m *MockAPI) UpdateDish(ctx context.Context, dishID int64, req *models.DishCreateRequest) (*models.Dish, error) {
	args := m.Called(ctx, dishID, req)
	return ptr[models.Dish](args, 0), args.Error(1)
}

func (m *MockAPI) DeleteDish(ctx context.Context, dishID int64) error {
	args := m.Called(ctx, dishID)
	return args.Error(0)
}

func (m *MockAPI) ToggleDishAvailability(ctx context.Context, dishID int64) error {
	args := m.Called(ctx, dishID)
	return args.Error(0)
}
