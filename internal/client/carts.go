package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"campus-eats/internal/models"
)

// GetCart fetches the user's cart. A user without a cart, whether reported as
// 404 or as a success carrying no data, yields an error wrapping
// models.ErrNotFound.
func (c *Client) GetCart(ctx context.Context, userID int64) (*models.Cart, error) {
	var cart *models.Cart
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carts/user/%d", userID), nil, nil, &cart); err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, fmt.Errorf("%w: user %d has no cart", models.ErrNotFound, userID)
	}
	if err := cart.Validate(); err != nil {
		return nil, err
	}
	return cart, nil
}

// GetCartItems lists the items of a cart.
func (c *Client) GetCartItems(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/carts/%d/items", cartID), nil, nil, &items); err != nil {
		return nil, err
	}
	if err := validateAll(items); err != nil {
		return nil, err
	}
	return items, nil
}

// AddCartItem adds quantity of a dish to the user's cart.
func (c *Client) AddCartItem(ctx context.Context, userID, dishID int64, quantity int) (*models.CartItem, error) {
	query := url.Values{}
	query.Set("dishId", strconv.FormatInt(dishID, 10))
	query.Set("quantity", strconv.Itoa(quantity))

	var item models.CartItem
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/carts/%d/items", userID), query, nil, &item); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCartItem sets the absolute quantity of a cart item.
func (c *Client) UpdateCartItem(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error) {
	query := url.Values{}
	query.Set("quantity", strconv.Itoa(quantity))

	var item models.CartItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/carts/items/%d", itemID), query, nil, &item); err != nil {
		return nil, err
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return &item, nil
}

// DeleteCartItem removes one cart item.
func (c *Client) DeleteCartItem(ctx context.Context, itemID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/carts/items/%d", itemID), nil, nil, nil)
}

// ClearCart removes every item from the user's cart.
func (c *Client) ClearCart(ctx context.Context, userID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/carts/user/%d/clear", userID), nil, nil, nil)
}
