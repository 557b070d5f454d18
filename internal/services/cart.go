package services

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/shopspring/decimal"

	"campus-eats/internal/models"
)

// CartService mirrors one user's cart and mediates every cart mutation.
type CartService struct {
	api    CartAPI
	status AggregateStatus

	mu     sync.RWMutex
	loaded bool
	userID int64
	cart   *models.Cart
	items  []models.CartItem
}

// NewCartService creates a new cart service
func NewCartService(api CartAPI) *CartService {
	return &CartService{api: api}
}

// Load fetches the user's cart and its items. When the user has no cart yet
// the mirror becomes an empty cart and the NotFound error is still returned;
// it is not recorded as an error state.
func (s *CartService) Load(ctx context.Context, userID int64) error {
	s.status.begin()

	cart, err := s.api.GetCart(ctx, userID)
	if err != nil {
		if IsNotFound(err) {
			s.setMirror(userID, nil, nil)
			s.status.finish(nil)
			return fmt.Errorf("cart for user %d: %w", userID, err)
		}
		return s.status.finish(fmt.Errorf("failed to load cart for user %d: %w", userID, err))
	}

	items, err := s.api.GetCartItems(ctx, cart.ID)
	if err != nil {
		return s.status.finish(fmt.Errorf("failed to load items of cart %d: %w", cart.ID, err))
	}

	items, err = s.dedupe(ctx, items)
	if err != nil {
		return s.status.finish(fmt.Errorf("cart %d holds duplicate rows: %w", cart.ID, err))
	}

	s.setMirror(userID, cart, items)
	s.status.finish(nil)
	return nil
}

// AddItem adds quantity of a dish. A dish already in the cart has its row
// raised to the summed quantity instead of gaining a second row.
func (s *CartService) AddItem(ctx context.Context, userID, dishID int64, quantity int) (*models.CartItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, s.status.fail(err)
	}

	if !s.isLoadedFor(userID) {
		if err := s.Load(ctx, userID); err != nil && !IsNotFound(err) {
			return nil, err
		}
	}

	s.status.begin()

	var (
		item *models.CartItem
		err  error
	)
	if existing, ok := s.itemForDish(dishID); ok {
		item, err = s.api.UpdateCartItem(ctx, existing.ID, existing.Quantity+quantity)
	} else {
		item, err = s.api.AddCartItem(ctx, userID, dishID, quantity)
	}
	if err != nil {
		log.Printf("cart: failed to add dish %d for user %d: %v", dishID, userID, err)
		return nil, s.status.finish(fmt.Errorf("failed to add dish %d to cart: %w", dishID, err))
	}
	if existing, ok := s.itemForDish(item.Dish.ID); ok && existing.ID != item.ID {
		folded, err := s.fold(ctx, existing, []models.CartItem{*item})
		if err != nil {
			return nil, s.status.finish(fmt.Errorf("failed to merge rows of dish %d: %w", item.Dish.ID, err))
		}
		item = folded
	}

	s.upsert(userID, *item)
	s.status.finish(nil)
	return item, nil
}

// UpdateQuantity sets the absolute quantity of a cart item. Quantities below
// one are rejected without a call; use RemoveItem instead.
func (s *CartService) UpdateQuantity(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, s.status.fail(err)
	}

	s.status.begin()
	item, err := s.api.UpdateCartItem(ctx, itemID, quantity)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to update cart item %d: %w", itemID, err))
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = *item
			break
		}
	}
	s.mu.Unlock()

	s.status.finish(nil)
	return item, nil
}

// RemoveItem deletes one cart item. An item the backend no longer has counts
// as removed.
func (s *CartService) RemoveItem(ctx context.Context, itemID int64) error {
	s.status.begin()
	if err := s.api.DeleteCartItem(ctx, itemID); err != nil && !IsNotFound(err) {
		return s.status.finish(fmt.Errorf("failed to remove cart item %d: %w", itemID, err))
	}

	s.mu.Lock()
	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i:i], s.items[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// Clear removes every item from the user's cart. The cart itself stays.
func (s *CartService) Clear(ctx context.Context, userID int64) error {
	s.status.begin()
	if err := s.api.ClearCart(ctx, userID); err != nil && !IsNotFound(err) {
		return s.status.finish(fmt.Errorf("failed to clear cart for user %d: %w", userID, err))
	}

	s.mu.Lock()
	if s.userID == userID {
		s.items = nil
	}
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// Reset forgets the mirrored cart.
func (s *CartService) Reset() {
	s.mu.Lock()
	s.loaded = false
	s.userID = 0
	s.cart = nil
	s.items = nil
	s.mu.Unlock()
	s.status.reset()
}

// Cart returns a copy of the mirrored cart entity, or nil if the user has none.
func (s *CartService) Cart() *models.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cart == nil {
		return nil
	}
	c := *s.cart
	return &c
}

// Items returns a copy of the mirrored items.
func (s *CartService) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CartItem(nil), s.items...)
}

// Item returns the mirrored item with id.
func (s *CartService) Item(id int64) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == id {
			return item, true
		}
	}
	return models.CartItem{}, false
}

// IsEmpty reports whether the mirror holds no items.
func (s *CartService) IsEmpty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items) == 0
}

// TotalItems is the sum of quantities, computed from the current items.
func (s *CartService) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.TotalItems(s.items)
}

// TotalAmount is Σ price × quantity, computed from the current items.
func (s *CartService) TotalAmount() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return models.TotalAmount(s.items)
}

func (s *CartService) Loading() bool { return s.status.Loading() }

func (s *CartService) Err() error { return s.status.Err() }

func (s *CartService) isLoadedFor(userID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded && s.userID == userID
}

func (s *CartService) itemForDish(dishID int64) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Dish.ID == dishID {
			return item, true
		}
	}
	return models.CartItem{}, false
}

func (s *CartService) setMirror(userID int64, cart *models.Cart, items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loaded = true
	s.userID = userID
	s.cart = cart
	s.items = items
}

// upsert writes item into the mirror, replacing the row with the same id.
func (s *CartService) upsert(userID int64, item models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cart == nil && item.CartID != 0 {
		s.cart = &models.Cart{ID: item.CartID, UserID: userID}
	}
	s.loaded = true
	s.userID = userID

	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			return
		}
	}
	s.items = append(s.items, item)
}

// dedupe collapses backend rows that reference the same dish into the first
// of them, on the backend as well as in the returned slice.
func (s *CartService) dedupe(ctx context.Context, items []models.CartItem) ([]models.CartItem, error) {
	var order []int64
	byDish := make(map[int64][]models.CartItem, len(items))
	for _, item := range items {
		if _, ok := byDish[item.Dish.ID]; !ok {
			order = append(order, item.Dish.ID)
		}
		byDish[item.Dish.ID] = append(byDish[item.Dish.ID], item)
	}
	if len(order) == len(items) {
		return items, nil
	}

	out := make([]models.CartItem, 0, len(order))
	for _, dishID := range order {
		rows := byDish[dishID]
		if len(rows) == 1 {
			out = append(out, rows[0])
			continue
		}
		log.Printf("cart: dish %d has %d rows in cart %d, merging", dishID, len(rows), rows[0].CartID)
		kept, err := s.fold(ctx, rows[0], rows[1:])
		if err != nil {
			return nil, err
		}
		out = append(out, *kept)
	}
	return out, nil
}

// fold raises keep to the summed quantity of keep and extras, then deletes the
// extra rows.
func (s *CartService) fold(ctx context.Context, keep models.CartItem, extras []models.CartItem) (*models.CartItem, error) {
	total := keep.Quantity
	for _, extra := range extras {
		total += extra.Quantity
	}
	kept, err := s.api.UpdateCartItem(ctx, keep.ID, total)
	if err != nil {
		return nil, fmt.Errorf("failed to raise cart item %d to %d: %w", keep.ID, total, err)
	}
	for _, extra := range extras {
		if err := s.api.DeleteCartItem(ctx, extra.ID); err != nil && !IsNotFound(err) {
			return nil, fmt.Errorf("failed to delete duplicate cart item %d: %w", extra.ID, err)
		}
	}
	return kept, nil
}
