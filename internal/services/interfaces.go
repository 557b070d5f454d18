package services

import (
	"context"

	"campus-eats/internal/client"
	"campus-eats/internal/models"
)

// CartAPI defines the cart endpoints the cart manager consumes
type CartAPI interface {
	GetCart(ctx context.Context, userID int64) (*models.Cart, error)
	GetCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, userID, dishID int64, quantity int) (*models.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error)
	DeleteCartItem(ctx context.Context, itemID int64) error
	ClearCart(ctx context.Context, userID int64) error
}

// OrderAPI defines the order and order-item endpoints
type OrderAPI interface {
	GetOrder(ctx context.Context, orderID int64) (*models.Order, error)
	ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error)
	ListOrdersByMerchant(ctx context.Context, merchantID int64) ([]models.Order, error)
	ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error)
	CreateOrder(ctx context.Context, userID int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error)
	CancelOrder(ctx context.Context, orderID int64) (*models.Order, error)
	ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error)
	AddOrderItem(ctx context.Context, orderID, dishID int64, quantity int) (*models.OrderItem, error)
}

// MerchantChangeAPI defines the change-request endpoints plus the canonical
// merchant read the review manager needs
type MerchantChangeAPI interface {
	GetMerchant(ctx context.Context, merchantID int64) (*models.Merchant, error)
	ListMerchantChanges(ctx context.Context) ([]models.MerchantChangeRequest, error)
	ListMerchantChangesByMerchant(ctx context.Context, merchantID int64) ([]models.MerchantChangeRequest, error)
	SubmitMerchantChange(ctx context.Context, merchantID int64, submission *models.ChangeSubmission) (*models.MerchantChangeRequest, error)
	ReviewMerchantChange(ctx context.Context, changeID int64, approved bool) (*models.MerchantChangeRequest, error)
}

// MerchantAPI defines the merchant endpoints
type MerchantAPI interface {
	GetMerchant(ctx context.Context, merchantID int64) (*models.Merchant, error)
	GetMerchantByUser(ctx context.Context, userID int64) (*models.Merchant, error)
	ListMerchants(ctx context.Context) ([]models.Merchant, error)
	ListMerchantsByStatus(ctx context.Context, status models.MerchantStatus) ([]models.Merchant, error)
	SearchMerchants(ctx context.Context, name string) ([]models.Merchant, error)
	StoreNameExists(ctx context.Context, storeName string) (bool, error)
	CreateMerchant(ctx context.Context, req *models.MerchantCreateRequest) (*models.Merchant, error)
	UpdateMerchant(ctx context.Context, merchantID int64, data models.ProfileData) (*models.Merchant, error)
	UpdateMerchantStatus(ctx context.Context, merchantID int64, status models.MerchantStatus) (*models.Merchant, error)
	DeleteMerchant(ctx context.Context, merchantID int64) error
}

// DishAPI defines the menu endpoints
type DishAPI interface {
	ListDishes(ctx context.Context) ([]models.Dish, error)
	ListMerchantDishes(ctx context.Context, merchantID int64) ([]models.Dish, error)
	GetDish(ctx context.Context, dishID int64) (*models.Dish, error)
	CreateDish(ctx context.Context, req *models.DishCreateRequest) (*models.Dish, error)
	UpdateDish(ctx context.Context, dishID int64, req *models.DishCreateRequest) (*models.Dish, error)
	DeleteDish(ctx context.Context, dishID int64) error
	ToggleDishAvailability(ctx context.Context, dishID int64) error
}

// API is everything a Session needs from the backend
type API interface {
	CartAPI
	OrderAPI
	MerchantAPI
	MerchantChangeAPI
	DishAPI
}

var _ API = (*client.Client)(nil)
