package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of an order
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderConfirmed OrderStatus = "CONFIRMED"
	OrderPreparing OrderStatus = "PREPARING"
	OrderReady     OrderStatus = "READY"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCanceled  OrderStatus = "CANCELED"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderPending,
	OrderConfirmed,
	OrderPreparing,
	OrderReady,
	OrderCompleted,
	OrderCanceled,
}

// ProcessingStatuses are the statuses shown as "in progress".
var ProcessingStatuses = []OrderStatus{OrderConfirmed, OrderPreparing, OrderReady}

// forward edges; CANCELED is reachable from every non-terminal status.
var nextStatus = map[OrderStatus]OrderStatus{
	OrderPending:   OrderConfirmed,
	OrderConfirmed: OrderPreparing,
	OrderPreparing: OrderReady,
	OrderReady:     OrderCompleted,
}

// Order is a committed, priced snapshot of a cart
type Order struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"userId"`
	MerchantID int64           `json:"merchantId"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     OrderStatus     `json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
	Items      []OrderItem     `json:"orderItems,omitempty"`
}

// OrderItem captures dish, quantity and price at order creation. It is never
// recomputed from the live dish.
type OrderItem struct {
	ID        int64           `json:"id"`
	OrderID   int64           `json:"orderId"`
	DishID    int64           `json:"dishId"`
	DishName  string          `json:"dishName"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"createdAt"`
}

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is permitted from s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCompleted || s == OrderCanceled
}

// IsProcessing reports whether s is CONFIRMED, PREPARING or READY.
func (s OrderStatus) IsProcessing() bool {
	for _, p := range ProcessingStatuses {
		if s == p {
			return true
		}
	}
	return false
}

// Next returns the single forward status after s, if any.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := nextStatus[s]
	return next, ok
}

// ParseOrderStatus accepts any casing of a known status.
func ParseOrderStatus(raw string) (OrderStatus, error) {
	s := OrderStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !s.IsValid() {
		return "", fmt.Errorf("%w: unknown order status %q", ErrInvalidArgument, raw)
	}
	return s, nil
}

// CanTransition reports whether from → to is an edge of the order state
// machine.
func CanTransition(from, to OrderStatus) bool {
	if !from.IsValid() || !to.IsValid() || from.IsTerminal() {
		return false
	}
	if to == OrderCanceled {
		return true
	}
	next, ok := nextStatus[from]
	return ok && next == to
}

// ValidateTransition returns ErrInvalidTransition for any edge CanTransition
// rejects.
func ValidateTransition(from, to OrderStatus) error {
	if CanTransition(from, to) {
		return nil
	}
	if from.IsTerminal() {
		return fmt.Errorf("%w: order is %s and cannot change", ErrInvalidTransition, from)
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

// Validate checks an order payload received from the backend.
func (o *Order) Validate() error {
	if o.ID <= 0 {
		return fmt.Errorf("%w: order id missing", ErrInvalidResponse)
	}
	if !o.Status.IsValid() {
		return fmt.Errorf("%w: order %d has unknown status %q", ErrInvalidResponse, o.ID, o.Status)
	}
	if o.TotalPrice.IsNegative() {
		return fmt.Errorf("%w: order %d has negative total", ErrInvalidResponse, o.ID)
	}
	for i := range o.Items {
		if err := o.Items[i].Validate(); err != nil {
			return fmt.Errorf("order %d: %w", o.ID, err)
		}
	}
	return nil
}

// Validate checks an order item payload received from the backend.
func (i *OrderItem) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("%w: order item id missing", ErrInvalidResponse)
	}
	if i.Quantity < 1 {
		return fmt.Errorf("%w: order item %d has quantity %d", ErrInvalidResponse, i.ID, i.Quantity)
	}
	if i.Price.IsNegative() {
		return fmt.Errorf("%w: order item %d has negative price", ErrInvalidResponse, i.ID)
	}
	return nil
}

// Subtotal returns the snapshot price × quantity
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsPending returns true if the order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderPending
}

// IsCompleted returns true if the order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderCompleted
}

// IsCanceled returns true if the order is canceled
func (o *Order) IsCanceled() bool {
	return o.Status == OrderCanceled
}

// CanBeCanceled returns true if the order can still be canceled
func (o *Order) CanBeCanceled() bool {
	return CanTransition(o.Status, OrderCanceled)
}

// GetStatusDisplayName returns a human-readable status name
func (o *Order) GetStatusDisplayName() string {
	return o.Status.DisplayName()
}

// DisplayName returns a human-readable status name
func (s OrderStatus) DisplayName() string {
	switch s {
	case OrderPending:
		return "Pending"
	case OrderConfirmed:
		return "Confirmed"
	case OrderPreparing:
		return "Preparing"
	case OrderReady:
		return "Ready for pickup"
	case OrderCompleted:
		return "Completed"
	case OrderCanceled:
		return "Canceled"
	default:
		return string(s)
	}
}

// FilterOrders returns the orders whose status is one of statuses, in the
// original order.
func FilterOrders(orders []Order, statuses ...OrderStatus) []Order {
	var out []Order
	for _, o := range orders {
		for _, s := range statuses {
			if o.Status == s {
				out = append(out, o)
				break
			}
		}
	}
	return out
}
