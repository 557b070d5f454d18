package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campus-eats/internal/models"
)

const cartItemSelect = `
	SELECT ci.id, ci.cart_id, ci.quantity, ci.created_at, ci.updated_at, ` + dishColumns + `
	FROM cart_items ci
	JOIN dishes d ON d.id = ci.dish_id`

// CartRepository handles cart data operations
type CartRepository struct {
	db *sql.DB
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db: db}
}

func scanCartItem(row rowScanner, item *models.CartItem) error {
	return row.Scan(
		&item.ID,
		&item.CartID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
		&item.Dish.ID,
		&item.Dish.MerchantID,
		&item.Dish.Name,
		&item.Dish.Description,
		&item.Dish.Price,
		&item.Dish.EstimatedWaitTime,
		&item.Dish.Available,
		&item.Dish.CreatedAt,
		&item.Dish.UpdatedAt,
	)
}

// GetByUserID retrieves the cart of a user
func (r *CartRepository) GetByUserID(ctx context.Context, userID int64) (*models.Cart, error) {
	return cartByUser(ctx, r.db, userID)
}

func cartByUser(ctx context.Context, q querier, userID int64) (*models.Cart, error) {
	cart := &models.Cart{}
	err := q.QueryRowContext(ctx, `SELECT id, user_id, created_at, updated_at FROM carts WHERE user_id = $1`, userID).
		Scan(&cart.ID, &cart.UserID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no cart for user %d", models.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return cart, nil
}

// Items returns the items of a cart with their current dish data
func (r *CartRepository) Items(ctx context.Context, cartID int64) ([]models.CartItem, error) {
	found, err := exists(ctx, r.db, `SELECT 1 FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to check cart: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: cart %d", models.ErrNotFound, cartID)
	}
	return cartItems(ctx, r.db, cartID)
}

func cartItems(ctx context.Context, q querier, cartID int64) ([]models.CartItem, error) {
	rows, err := q.QueryContext(ctx, cartItemSelect+` WHERE ci.cart_id = $1 ORDER BY ci.id`, cartID)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		if err := scanCartItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func getCartItem(ctx context.Context, q querier, id int64) (*models.CartItem, error) {
	item := &models.CartItem{}
	if err := scanCartItem(q.QueryRowContext(ctx, cartItemSelect+` WHERE ci.id = $1`, id), item); err != nil {
		return nil, notFound(err, "cart item", id)
	}
	return item, nil
}

// AddItem adds quantity of a dish to the user's cart, creating the cart on
// first use. Adding a dish already in the cart increases its quantity.
func (r *CartRepository) AddItem(ctx context.Context, userID, dishID int64, quantity int) (*models.CartItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}
	if userID <= 0 {
		return nil, fmt.Errorf("%w: user id is required", models.ErrInvalidArgument)
	}

	var added *models.CartItem
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		dish, err := getDish(ctx, tx, dishID)
		if err != nil {
			return err
		}
		if !dish.Available {
			return fmt.Errorf("%w: dish %d is not available", models.ErrFailedPrecondition, dishID)
		}

		if _, err := tx.ExecContext(ctx, `INSERT INTO carts (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`, userID); err != nil {
			return fmt.Errorf("failed to create cart: %w", err)
		}
		cart, err := cartByUser(ctx, tx, userID)
		if err != nil {
			return err
		}

		var itemID int64
		err = tx.QueryRowContext(ctx, `SELECT id FROM cart_items WHERE cart_id = $1 AND dish_id = $2`, cart.ID, dishID).Scan(&itemID)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			err = tx.QueryRowContext(ctx, `
				INSERT INTO cart_items (cart_id, dish_id, quantity)
				VALUES ($1, $2, $3)
				RETURNING id`, cart.ID, dishID, quantity).Scan(&itemID)
			if err != nil {
				return fmt.Errorf("failed to add cart item: %w", err)
			}
		case err != nil:
			return fmt.Errorf("failed to look up cart item: %w", err)
		default:
			_, err = tx.ExecContext(ctx, `
				UPDATE cart_items
				SET quantity = quantity + $1, updated_at = CURRENT_TIMESTAMP
				WHERE id = $2`, quantity, itemID)
			if err != nil {
				return fmt.Errorf("failed to update cart item: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `UPDATE carts SET updated_at = CURRENT_TIMESTAMP WHERE id = $1`, cart.ID); err != nil {
			return fmt.Errorf("failed to touch cart: %w", err)
		}

		added, err = getCartItem(ctx, tx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return added, nil
}

// UpdateItem sets the quantity of a cart item
func (r *CartRepository) UpdateItem(ctx context.Context, itemID int64, quantity int) (*models.CartItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE cart_items
		SET quantity = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2`, quantity, itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to update cart item: %w", err)
	}
	if err := checkAffected(res, "cart item", itemID); err != nil {
		return nil, err
	}
	return getCartItem(ctx, r.db, itemID)
}

// DeleteItem removes one item from its cart
func (r *CartRepository) DeleteItem(ctx context.Context, itemID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("failed to delete cart item: %w", err)
	}
	return checkAffected(res, "cart item", itemID)
}

// Clear removes every item from the user's cart
func (r *CartRepository) Clear(ctx context.Context, userID int64) error {
	cart, err := r.GetByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
