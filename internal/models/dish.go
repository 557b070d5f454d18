package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Dish is a menu entry offered by a merchant.
type Dish struct {
	ID                int64           `json:"id"`
	MerchantID        int64           `json:"merchantId"`
	Name              string          `json:"name"`
	Description       string          `json:"description,omitempty"`
	Price             decimal.Decimal `json:"price"`
	EstimatedWaitTime int             `json:"estimatedWaitTime,omitempty"` // minutes
	Available         bool            `json:"available"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// DishCreateRequest represents the data needed to create a dish
type DishCreateRequest struct {
	MerchantID        int64           `json:"merchantId"`
	Name              string          `json:"name"`
	Description       string          `json:"description"`
	Price             decimal.Decimal `json:"price"`
	EstimatedWaitTime int             `json:"estimatedWaitTime"`
	Available         bool            `json:"available"`
}

// Validate checks a dish payload received from the backend.
func (d *Dish) Validate() error {
	if d.ID <= 0 {
		return fmt.Errorf("%w: dish id missing", ErrInvalidResponse)
	}
	if d.Price.IsNegative() {
		return fmt.Errorf("%w: dish %d has negative price", ErrInvalidResponse, d.ID)
	}
	return nil
}

// Validate validates dish creation data
func (req *DishCreateRequest) Validate() error {
	if req.MerchantID <= 0 {
		return fmt.Errorf("%w: merchant id is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(req.Name) == "" {
		return fmt.Errorf("%w: dish name is required", ErrInvalidArgument)
	}
	if req.Price.IsNegative() {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidArgument)
	}
	if req.EstimatedWaitTime < 0 {
		return fmt.Errorf("%w: estimated wait time cannot be negative", ErrInvalidArgument)
	}
	return nil
}
