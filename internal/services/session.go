package services

import (
	"context"

	"campus-eats/internal/models"
)

// Session holds the managers of one user. Every piece of mirrored state lives
// here; nothing is shared between sessions.
type Session struct {
	UserID    int64
	Cart      *CartService
	Orders    *OrderService
	Changes   *MerchantChangeService
	Merchants *MerchantService
	Dishes    *DishService
}

// NewSession wires the managers of one user against api.
func NewSession(userID int64, api API) *Session {
	cart := NewCartService(api)
	changes := NewMerchantChangeService(api)
	return &Session{
		UserID:    userID,
		Cart:      cart,
		Orders:    NewOrderService(api, cart),
		Changes:   changes,
		Merchants: NewMerchantService(api, changes),
		Dishes:    NewDishService(api),
	}
}

// AddToCart adds a dish to the session user's cart.
func (s *Session) AddToCart(ctx context.Context, dishID int64, quantity int) (*models.CartItem, error) {
	return s.Cart.AddItem(ctx, s.UserID, dishID, quantity)
}

// LoadCart loads the session user's cart. A user without a cart is not an
// error here.
func (s *Session) LoadCart(ctx context.Context) error {
	if err := s.Cart.Load(ctx, s.UserID); err != nil && !IsNotFound(err) {
		return err
	}
	return nil
}

// Checkout turns the session user's cart into an order.
func (s *Session) Checkout(ctx context.Context) (*models.Order, error) {
	return s.Orders.Create(ctx, s.UserID)
}

// LoadOrders loads the session user's orders.
func (s *Session) LoadOrders(ctx context.Context) error {
	return s.Orders.LoadByUser(ctx, s.UserID)
}

// Menu loads and returns the dishes of a merchant, or every dish when
// merchantID is 0.
func (s *Session) Menu(ctx context.Context, merchantID int64) ([]models.Dish, error) {
	if err := s.Dishes.Load(ctx, merchantID); err != nil {
		return nil, err
	}
	return s.Dishes.Dishes(), nil
}
