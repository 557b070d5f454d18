package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the per-user staging collection. The backend creates it lazily on
// the first add; a user has at most one.
type Cart struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CartItem references a dish. Its price is the dish price at read time and is
// not stored on the row.
type CartItem struct {
	ID        int64     `json:"id"`
	CartID    int64     `json:"cartId"`
	Dish      Dish      `json:"dish"`
	Quantity  int       `json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Validate checks a cart payload received from the backend.
func (c *Cart) Validate() error {
	if c.ID <= 0 {
		return fmt.Errorf("%w: cart id missing", ErrInvalidResponse)
	}
	return nil
}

// Validate checks a cart item payload received from the backend.
func (i *CartItem) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("%w: cart item id missing", ErrInvalidResponse)
	}
	if i.Quantity < 1 {
		return fmt.Errorf("%w: cart item %d has quantity %d", ErrInvalidResponse, i.ID, i.Quantity)
	}
	if err := i.Dish.Validate(); err != nil {
		return fmt.Errorf("cart item %d: %w", i.ID, err)
	}
	return nil
}

// Subtotal returns price × quantity for the item
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Dish.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalItems sums the quantities of items.
func TotalItems(items []CartItem) int {
	total := 0
	for _, item := range items {
		total += item.Quantity
	}
	return total
}

// TotalAmount sums price × quantity over items.
func TotalAmount(items []CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ValidateQuantity rejects anything below one. Removal is a separate
// operation, so zero is not a valid quantity.
func ValidateQuantity(quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be a positive integer, got %d", ErrInvalidArgument, quantity)
	}
	return nil
}
