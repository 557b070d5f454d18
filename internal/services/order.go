package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"campus-eats/internal/models"
)

// OrderService creates orders from the cart and drives the order state
// machine over a loaded set of orders.
type OrderService struct {
	api    OrderAPI
	cart   *CartService
	status AggregateStatus
	loc    *time.Location

	mu      sync.RWMutex
	orders  []models.Order
	current *models.Order
}

// NewOrderService creates a new order service. cart is refreshed before and
// after every order creation.
func NewOrderService(api OrderAPI, cart *CartService) *OrderService {
	return &OrderService{
		api:  api,
		cart: cart,
		loc:  time.Local,
	}
}

// SetLocation sets the zone statistics date bounds are resolved in.
func (s *OrderService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Create turns the user's cart into a PENDING order. The cart is refreshed
// first; an empty cart fails with ErrFailedPrecondition and nothing is
// created. The backend clears the cart, so it is reloaded afterwards.
func (s *OrderService) Create(ctx context.Context, userID int64) (*models.Order, error) {
	if err := s.cart.Load(ctx, userID); err != nil && !IsNotFound(err) {
		return nil, s.status.fail(fmt.Errorf("failed to refresh cart before ordering: %w", err))
	}
	if s.cart.IsEmpty() {
		return nil, s.status.fail(fmt.Errorf("%w: cart for user %d is empty", models.ErrFailedPrecondition, userID))
	}

	s.status.begin()
	order, err := s.api.CreateOrder(ctx, userID)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to create order for user %d: %w", userID, err))
	}

	s.mu.Lock()
	s.orders = append(s.orders, *order)
	s.setCurrent(*order)
	s.mu.Unlock()
	s.status.finish(nil)

	if err := s.cart.Load(ctx, userID); err != nil && !IsNotFound(err) {
		log.Printf("orders: failed to reload cart after order %d: %v", order.ID, err)
		s.cart.Reset()
	}

	return order, nil
}

// Get fetches one order and makes it current.
func (s *OrderService) Get(ctx context.Context, orderID int64) (*models.Order, error) {
	s.status.begin()
	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to get order %d: %w", orderID, err))
	}

	s.mu.Lock()
	s.upsert(*order)
	s.setCurrent(*order)
	s.mu.Unlock()
	s.status.finish(nil)
	return order, nil
}

// LoadByUser replaces the loaded set with the user's orders.
func (s *OrderService) LoadByUser(ctx context.Context, userID int64) error {
	return s.load(ctx, func(ctx context.Context) ([]models.Order, error) {
		return s.api.ListOrdersByUser(ctx, userID)
	}, "user", userID)
}

// LoadByMerchant replaces the loaded set with the merchant's orders.
func (s *OrderService) LoadByMerchant(ctx context.Context, merchantID int64) error {
	return s.load(ctx, func(ctx context.Context) ([]models.Order, error) {
		return s.api.ListOrdersByMerchant(ctx, merchantID)
	}, "merchant", merchantID)
}

// LoadByStatus replaces the loaded set with every order in status.
func (s *OrderService) LoadByStatus(ctx context.Context, status models.OrderStatus) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: unknown order status %q", models.ErrInvalidArgument, status)
	}
	return s.load(ctx, func(ctx context.Context) ([]models.Order, error) {
		return s.api.ListOrdersByStatus(ctx, status)
	}, string(status), 0)
}

// Items fetches the item snapshots of an order and attaches them to the
// loaded copy.
func (s *OrderService) Items(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	s.status.begin()
	items, err := s.api.ListOrderItems(ctx, orderID)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to list items of order %d: %w", orderID, err))
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Items = items
		}
	}
	if s.current != nil && s.current.ID == orderID {
		s.current.Items = items
	}
	s.mu.Unlock()

	s.status.finish(nil)
	return items, nil
}

// AddItem appends a dish to an order that is still PENDING.
func (s *OrderService) AddItem(ctx context.Context, orderID, dishID int64, quantity int) (*models.OrderItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, s.status.fail(err)
	}

	err := s.checkStatus(ctx, orderID, func(current models.OrderStatus) error {
		if current != models.OrderPending {
			return fmt.Errorf("%w: order %d is %s, items can only be added while PENDING", models.ErrFailedPrecondition, orderID, current)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.status.begin()
	item, err := s.api.AddOrderItem(ctx, orderID, dishID, quantity)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to add dish %d to order %d: %w", dishID, orderID, err))
	}
	s.status.finish(nil)

	// the total changed server side
	if order, err := s.api.GetOrder(ctx, orderID); err == nil {
		s.mu.Lock()
		s.upsert(*order)
		s.mu.Unlock()
	} else {
		log.Printf("orders: failed to refresh order %d after adding an item: %v", orderID, err)
	}

	return item, nil
}

// UpdateStatus moves an order along the state machine. Edges outside the
// transition table fail with ErrInvalidTransition without a call and leave the
// order unchanged.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	if status == models.OrderCanceled {
		return s.Cancel(ctx, orderID)
	}

	if err := s.checkStatus(ctx, orderID, transitionTo(orderID, status)); err != nil {
		return nil, err
	}

	s.status.begin()
	order, err := s.api.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to move order %d to %s: %w", orderID, status, err))
	}

	s.mu.Lock()
	s.upsert(*order)
	s.mu.Unlock()
	s.status.finish(nil)
	return order, nil
}

// Cancel cancels a non-terminal order.
func (s *OrderService) Cancel(ctx context.Context, orderID int64) (*models.Order, error) {
	if err := s.checkStatus(ctx, orderID, transitionTo(orderID, models.OrderCanceled)); err != nil {
		return nil, err
	}

	s.status.begin()
	order, err := s.api.CancelOrder(ctx, orderID)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to cancel order %d: %w", orderID, err))
	}

	s.mu.Lock()
	if order == nil {
		local, _ := s.find(orderID)
		local.Status = models.OrderCanceled
		local.UpdatedAt = time.Now()
		order = &local
	}
	s.upsert(*order)
	s.mu.Unlock()

	s.status.finish(nil)
	return order, nil
}

// ComputeStats loads the merchant's orders and aggregates them per status
// within rng. A nil or empty range includes every order.
func (s *OrderService) ComputeStats(ctx context.Context, merchantID int64, rng *models.DateRange) (models.OrderStats, error) {
	if _, _, err := rng.Bounds(s.loc); err != nil {
		return models.OrderStats{}, err
	}
	if err := s.LoadByMerchant(ctx, merchantID); err != nil {
		return models.OrderStats{}, err
	}
	return models.ComputeOrderStats(s.Orders(), rng, s.loc)
}

// Orders returns a copy of the loaded set.
func (s *OrderService) Orders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Order(nil), s.orders...)
}

// Current returns the order last created or fetched.
func (s *OrderService) Current() *models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	o := *s.current
	return &o
}

func (s *OrderService) Pending() []models.Order {
	return s.filter(models.OrderPending)
}

// Processing returns orders that are CONFIRMED, PREPARING or READY.
func (s *OrderService) Processing() []models.Order {
	return s.filter(models.ProcessingStatuses...)
}

func (s *OrderService) Completed() []models.Order {
	return s.filter(models.OrderCompleted)
}

func (s *OrderService) Cancelled() []models.Order {
	return s.filter(models.OrderCanceled)
}

func (s *OrderService) Loading() bool { return s.status.Loading() }

func (s *OrderService) Err() error { return s.status.Err() }

func (s *OrderService) filter(statuses ...models.OrderStatus) []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.FilterOrders(s.orders, statuses...)
}

func (s *OrderService) load(ctx context.Context, fetch func(context.Context) ([]models.Order, error), scope string, id int64) error {
	s.status.begin()
	orders, err := fetch(ctx)
	if err != nil {
		return s.status.finish(fmt.Errorf("failed to load orders for %s %d: %w", scope, id, err))
	}

	s.mu.Lock()
	s.orders = orders
	if s.current != nil {
		if o, ok := s.find(s.current.ID); ok {
			s.current = &o
		}
	}
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// checkStatus runs check against the order's status, fetching the order when
// it is not loaded. A loaded status that check rejects is re-read from the
// server and checked again before the rejection is recorded.
func (s *OrderService) checkStatus(ctx context.Context, orderID int64, check func(models.OrderStatus) error) error {
	s.mu.RLock()
	o, ok := s.find(orderID)
	s.mu.RUnlock()
	if !ok {
		order, err := s.Get(ctx, orderID)
		if err != nil {
			return err
		}
		if err := check(order.Status); err != nil {
			return s.status.fail(err)
		}
		return nil
	}
	if check(o.Status) == nil {
		return nil
	}

	fresh, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		return s.status.fail(fmt.Errorf("failed to refresh order %d: %w", orderID, err))
	}
	s.mu.Lock()
	s.upsert(*fresh)
	s.mu.Unlock()
	if err := check(fresh.Status); err != nil {
		return s.status.fail(err)
	}
	return nil
}

func transitionTo(orderID int64, next models.OrderStatus) func(models.OrderStatus) error {
	return func(current models.OrderStatus) error {
		if err := models.ValidateTransition(current, next); err != nil {
			return fmt.Errorf("order %d: %w", orderID, err)
		}
		return nil
	}
}

// find must be called with mu held.
func (s *OrderService) find(orderID int64) (models.Order, bool) {
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	if s.current != nil && s.current.ID == orderID {
		return *s.current, true
	}
	return models.Order{}, false
}

// upsert must be called with mu held. Items fetched earlier are kept when the
// incoming copy carries none.
func (s *OrderService) upsert(order models.Order) {
	for i := range s.orders {
		if s.orders[i].ID == order.ID {
			if len(order.Items) == 0 {
				order.Items = s.orders[i].Items
			}
			s.orders[i] = order
			if s.current != nil && s.current.ID == order.ID {
				s.setCurrent(order)
			}
			return
		}
	}
	s.orders = append(s.orders, order)
	if s.current != nil && s.current.ID == order.ID {
		s.setCurrent(order)
	}
}

// setCurrent must be called with mu held.
func (s *OrderService) setCurrent(order models.Order) {
	o := order
	s.current = &o
}
