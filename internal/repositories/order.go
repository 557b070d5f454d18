package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"campus-eats/internal/models"
)

const orderColumns = `id, user_id, merchant_id, total_price, status, created_at, updated_at`

// OrderRepository handles order data operations
type OrderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// OrderSearchFilters represents filters for order search. Zero values are
// ignored.
type OrderSearchFilters struct {
	UserID     int64
	MerchantID int64
	Status     models.OrderStatus
	Limit      int
}

func scanOrder(row rowScanner, order *models.Order) error {
	return row.Scan(
		&order.ID,
		&order.UserID,
		&order.MerchantID,
		&order.TotalPrice,
		&order.Status,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
}

func scanOrderItem(row rowScanner, item *models.OrderItem) error {
	return row.Scan(
		&item.ID,
		&item.OrderID,
		&item.DishID,
		&item.DishName,
		&item.Quantity,
		&item.Price,
		&item.CreatedAt,
	)
}

// CreateFromCart turns the user's cart into a PENDING order. Item prices are
// snapshotted from the current dishes and the cart is emptied in the same
// transaction.
func (r *OrderRepository) CreateFromCart(ctx context.Context, userID int64) (*models.Order, error) {
	var orderID int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		cart, err := cartByUser(ctx, tx, userID)
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%w: cart is empty", models.ErrFailedPrecondition)
		}
		if err != nil {
			return err
		}

		items, err := cartItems(ctx, tx, cart.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return fmt.Errorf("%w: cart is empty", models.ErrFailedPrecondition)
		}

		merchantID := items[0].Dish.MerchantID
		for _, item := range items {
			if item.Dish.MerchantID != merchantID {
				return fmt.Errorf("%w: cart holds dishes from more than one merchant", models.ErrFailedPrecondition)
			}
			if !item.Dish.Available {
				return fmt.Errorf("%w: dish %q is not available", models.ErrFailedPrecondition, item.Dish.Name)
			}
		}
		total := models.TotalAmount(items)

		err = tx.QueryRowContext(ctx, `
			INSERT INTO orders (user_id, merchant_id, total_price, status)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, userID, merchantID, total, models.OrderPending).Scan(&orderID)
		if err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		for _, item := range items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO order_items (order_id, dish_id, dish_name, quantity, price)
				VALUES ($1, $2, $3, $4, $5)`,
				orderID, item.Dish.ID, item.Dish.Name, item.Quantity, item.Dish.Price)
			if err != nil {
				return fmt.Errorf("failed to create order item: %w", err)
			}
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cart.ID); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, orderID)
}

// GetByID retrieves an order with its items
func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	order, err := getOrder(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	if order.Items, err = orderItems(ctx, r.db, id); err != nil {
		return nil, err
	}
	return order, nil
}

func getOrder(ctx context.Context, q querier, id int64) (*models.Order, error) {
	order := &models.Order{}
	if err := scanOrder(q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), order); err != nil {
		return nil, notFound(err, "order", id)
	}
	return order, nil
}

// Search returns orders matching filters, newest first
func (r *OrderRepository) Search(ctx context.Context, filters OrderSearchFilters) ([]models.Order, error) {
	var (
		conditions []string
		args       []any
	)
	if filters.UserID > 0 {
		args = append(args, filters.UserID)
		conditions = append(conditions, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if filters.MerchantID > 0 {
		args = append(args, filters.MerchantID)
		conditions = append(conditions, fmt.Sprintf("merchant_id = $%d", len(args)))
	}
	if filters.Status != "" {
		args = append(args, filters.Status)
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)))
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if filters.Limit > 0 {
		args = append(args, filters.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		var order models.Order
		if err := scanOrder(rows, &order); err != nil {
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

// ListByUser returns a user's orders
func (r *OrderRepository) ListByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return r.Search(ctx, OrderSearchFilters{UserID: userID})
}

// ListByMerchant returns the orders placed with a merchant
func (r *OrderRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]models.Order, error) {
	return r.Search(ctx, OrderSearchFilters{MerchantID: merchantID})
}

// ListByStatus returns the orders in one status
func (r *OrderRepository) ListByStatus(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	status, err := models.ParseOrderStatus(string(status))
	if err != nil {
		return nil, err
	}
	return r.Search(ctx, OrderSearchFilters{Status: status})
}

// UpdateStatus moves an order along the status machine
func (r *OrderRepository) UpdateStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error) {
	status, err := models.ParseOrderStatus(string(status))
	if err != nil {
		return nil, err
	}

	err = withTx(ctx, r.db, func(tx *sql.Tx) error {
		order, err := getOrder(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := models.ValidateTransition(order.Status, status); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE orders
			SET status = $1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $2 AND status = $3`, status, id, order.Status)
		if err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: order %d changed concurrently", models.ErrInvalidTransition, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Cancel cancels an order that has not reached a terminal status
func (r *OrderRepository) Cancel(ctx context.Context, id int64) (*models.Order, error) {
	return r.UpdateStatus(ctx, id, models.OrderCanceled)
}

// Items returns the items of an order
func (r *OrderRepository) Items(ctx context.Context, orderID int64) ([]models.OrderItem, error) {
	if _, err := getOrder(ctx, r.db, orderID); err != nil {
		return nil, err
	}
	return orderItems(ctx, r.db, orderID)
}

func orderItems(ctx context.Context, q querier, orderID int64) ([]models.OrderItem, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, dish_id, dish_name, quantity, price, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := scanOrderItem(rows, &item); err != nil {
			return nil, fmt.Errorf("failed to scan order item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// AddItem appends a dish to a PENDING order and raises its total
func (r *OrderRepository) AddItem(ctx context.Context, orderID, dishID int64, quantity int) (*models.OrderItem, error) {
	if err := models.ValidateQuantity(quantity); err != nil {
		return nil, err
	}

	var itemID int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		order, err := getOrder(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !order.IsPending() {
			return fmt.Errorf("%w: order %d is %s", models.ErrFailedPrecondition, orderID, order.Status)
		}

		dish, err := getDish(ctx, tx, dishID)
		if err != nil {
			return err
		}
		if dish.MerchantID != order.MerchantID {
			return fmt.Errorf("%w: dish %d belongs to another merchant", models.ErrFailedPrecondition, dishID)
		}
		if !dish.Available {
			return fmt.Errorf("%w: dish %d is not available", models.ErrFailedPrecondition, dishID)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO order_items (order_id, dish_id, dish_name, quantity, price)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id`, orderID, dish.ID, dish.Name, quantity, dish.Price).Scan(&itemID)
		if err != nil {
			return fmt.Errorf("failed to add order item: %w", err)
		}

		total := order.TotalPrice.Add(dish.Price.Mul(decimal.NewFromInt(int64(quantity))))
		_, err = tx.ExecContext(ctx, `
			UPDATE orders
			SET total_price = $1, updated_at = CURRENT_TIMESTAMP
			WHERE id = $2`, total, orderID)
		if err != nil {
			return fmt.Errorf("failed to update order total: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	item := &models.OrderItem{}
	row := r.db.QueryRowContext(ctx, `
		SELECT id, order_id, dish_id, dish_name, quantity, price, created_at
		FROM order_items
		WHERE id = $1`, itemID)
	if err := scanOrderItem(row, item); err != nil {
		return nil, notFound(err, "order item", itemID)
	}
	return item, nil
}
