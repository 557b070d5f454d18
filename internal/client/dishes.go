package client

import (
	"context"
	"fmt"
	"net/http"

	"campus-eats/internal/models"
)

// ListDishes lists every dish.
func (c *Client) ListDishes(ctx context.Context) ([]models.Dish, error) {
	return c.listDishes(ctx, "/dishes")
}

// ListMerchantDishes lists the dishes of one merchant.
func (c *Client) ListMerchantDishes(ctx context.Context, merchantID int64) ([]models.Dish, error) {
	return c.listDishes(ctx, fmt.Sprintf("/dishes/merchant/%d", merchantID))
}

// GetDish fetches one dish.
func (c *Client) GetDish(ctx context.Context, dishID int64) (*models.Dish, error) {
	var dish models.Dish
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/dishes/%d", dishID), nil, nil, &dish); err != nil {
		return nil, err
	}
	if err := dish.Validate(); err != nil {
		return nil, err
	}
	return &dish, nil
}

// CreateDish creates a dish on a merchant's menu.
func (c *Client) CreateDish(ctx context.Context, req *models.DishCreateRequest) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var dish models.Dish
	if err := c.do(ctx, http.MethodPost, "/dishes", nil, req, &dish); err != nil {
		return nil, err
	}
	if err := dish.Validate(); err != nil {
		return nil, err
	}
	return &dish, nil
}

// UpdateDish replaces the editable fields of a dish.
func (c *Client) UpdateDish(ctx context.Context, dishID int64, req *models.DishCreateRequest) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	var dish models.Dish
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/dishes/%d", dishID), nil, req, &dish); err != nil {
		return nil, err
	}
	if err := dish.Validate(); err != nil {
		return nil, err
	}
	return &dish, nil
}

// DeleteDish removes a dish from its merchant's menu.
func (c *Client) DeleteDish(ctx context.Context, dishID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/dishes/%d", dishID), nil, nil, nil)
}

// ToggleDishAvailability flips whether a dish can be ordered.
func (c *Client) ToggleDishAvailability(ctx context.Context, dishID int64) error {
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/dishes/%d/toggle-availability", dishID), nil, nil, nil)
}

func (c *Client) listDishes(ctx context.Context, path string) ([]models.Dish, error) {
	var dishes []models.Dish
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &dishes); err != nil {
		return nil, err
	}
	if err := validateAll(dishes); err != nil {
		return nil, err
	}
	return dishes, nil
}
