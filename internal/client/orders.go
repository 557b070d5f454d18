package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"campus-eats/internal/models"
)

// GetOrder fetches one order.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", orderID))
}

// ListOrdersByStatus lists every order in status.
func (c *Client) ListOrdersByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	return c.listOrders(ctx, "/orders/status/"+url.PathEscape(string(status)))
}

// ListOrdersByMerchant lists a merchant's orders.
func (c *Client) ListOrdersByMerchant(ctx context.Context, merchantID int64) ([]models.Order, error) {
	return c.listOrders(ctx, fmt.Sprintf("/orders/merchant/%d", merchantID))
}

// ListOrdersByUser lists a user's orders.
func (c *Client) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return c.listOrders(ctx, fmt.Sprintf("/orders/user/%d", userID))
}

// CreateOrder materializes the user's cart into a PENDING order. The backend
// clears the cart.
func (c *Client) CreateOrder(ctx context.Context, userID int64) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodPost, fmt.Sprintf("/orders/user/%d", userID))
}

// UpdateOrderStatus moves an order to status.
func (c *Client) UpdateOrderStatus(ctx context.Context, orderID int64, status models.OrderStatus) (*models.Order, error) {
	return c.orderCall(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/status/%s", orderID, url.PathEscape(string(status))))
}

// CancelOrder cancels an order. Backends that answer with an empty body
// yield a nil order and no error.
func (c *Client) CancelOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/cancel", orderID), nil, nil, &order); err != nil {
		return nil, err
	}
	if order.ID == 0 {
		return nil, nil
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrderItems lists the item snapshots of an order.
func (c *Client) ListOrderItems(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/order-items/by-order/%d", orderID), nil, nil, &items); err != nil {
		return nil, err
	}
	if err := validateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddOrderItem appends a dish to an existing order.
func (c *Client) AddOrderItem(ctx context.Context, orderID, dishID int64, quantity int) (*models.OrderItem, error) {
	query := url.Values{}
	query.Set("orderId", strconv.FormatInt(orderID, 10))
	query.Set("dishId", strconv.FormatInt(dishID, 10))
	query.Set("quantity", strconv.Itoa(quantity))

	var item models.OrderItem
	if err := c.do(ctx, http.MethodPost, "/order-items/add", query, nil, &item); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *Client) orderCall(ctx context.Context, method, path string) (*models.Order, error) {
	var order models.Order
	if err := c.do(ctx, method, path, nil, nil, &order); err != nil {
		return nil, err
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return &order, nil
}

func (c *Client) listOrders(ctx context.Context, path string) ([]models.Order, error) {
	var orders []models.Order
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &orders); err != nil {
		return nil, err
	}
	if err := validateAll(orders); err != nil {
		return nil, err
	}
	return orders, nil
}
