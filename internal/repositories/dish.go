package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"campus-eats/internal/models"
)

const dishColumns = `d.id, d.merchant_id, d.name, d.description, d.price, d.estimated_wait_time, d.available, d.created_at, d.updated_at`

// DishRepository handles dish data operations
type DishRepository struct {
	db *sql.DB
}

// NewDishRepository creates a new dish repository
func NewDishRepository(db *sql.DB) *DishRepository {
	return &DishRepository{db: db}
}

func scanDish(row rowScanner, dish *models.Dish) error {
	return row.Scan(
		&dish.ID,
		&dish.MerchantID,
		&dish.Name,
		&dish.Description,
		&dish.Price,
		&dish.EstimatedWaitTime,
		&dish.Available,
		&dish.CreatedAt,
		&dish.UpdatedAt,
	)
}

// List returns every dish
func (r *DishRepository) List(ctx context.Context) ([]models.Dish, error) {
	return r.list(ctx, `SELECT `+dishColumns+` FROM dishes d ORDER BY d.id`)
}

// ListByMerchant returns the dishes offered by a merchant
func (r *DishRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]models.Dish, error) {
	return r.list(ctx, `SELECT `+dishColumns+` FROM dishes d WHERE d.merchant_id = $1 ORDER BY d.id`, merchantID)
}

func (r *DishRepository) list(ctx context.Context, query string, args ...any) ([]models.Dish, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list dishes: %w", err)
	}
	defer rows.Close()

	dishes := []models.Dish{}
	for rows.Next() {
		var dish models.Dish
		if err := scanDish(rows, &dish); err != nil {
			return nil, fmt.Errorf("failed to scan dish: %w", err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

// GetByID retrieves a dish by ID
func (r *DishRepository) GetByID(ctx context.Context, id int64) (*models.Dish, error) {
	return getDish(ctx, r.db, id)
}

func getDish(ctx context.Context, q querier, id int64) (*models.Dish, error) {
	dish := &models.Dish{}
	row := q.QueryRowContext(ctx, `SELECT `+dishColumns+` FROM dishes d WHERE d.id = $1`, id)
	if err := scanDish(row, dish); err != nil {
		return nil, notFound(err, "dish", id)
	}
	return dish, nil
}

// Create adds a dish to a merchant's menu
func (r *DishRepository) Create(ctx context.Context, req *models.DishCreateRequest) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	found, err := exists(ctx, r.db, `SELECT 1 FROM merchants WHERE id = $1`, req.MerchantID)
	if err != nil {
		return nil, fmt.Errorf("failed to check merchant: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("%w: merchant %d", models.ErrNotFound, req.MerchantID)
	}

	query := `
		INSERT INTO dishes (merchant_id, name, description, price, estimated_wait_time, available)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	var id int64
	err = r.db.QueryRowContext(ctx, query,
		req.MerchantID,
		req.Name,
		req.Description,
		req.Price,
		req.EstimatedWaitTime,
		req.Available,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("failed to create dish: %w", err)
	}

	return r.GetByID(ctx, id)
}

// ToggleAvailability flips the available flag of a dish
func (r *DishRepository) ToggleAvailability(ctx context.Context, id int64) (*models.Dish, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dishes
		SET available = NOT available, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle dish availability: %w", err)
	}
	if err := checkAffected(res, "dish", id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Update replaces the editable fields of a dish. The owning merchant cannot
// change.
func (r *DishRepository) Update(ctx context.Context, id int64, req *models.DishCreateRequest) (*models.Dish, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var dish *models.Dish
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		current, err := getDish(ctx, tx, id)
		if err != nil {
			return err
		}
		if current.MerchantID != req.MerchantID {
			return fmt.Errorf("%w: dish %d belongs to merchant %d", models.ErrInvalidArgument, id, current.MerchantID)
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE dishes
			SET name = $1, description = $2, price = $3, estimated_wait_time = $4, available = $5,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $6`,
			req.Name, req.Description, req.Price, req.EstimatedWaitTime, req.Available, id)
		if err != nil {
			return fmt.Errorf("failed to update dish: %w", err)
		}

		dish, err = getDish(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return dish, nil
}

// Delete removes a dish. Cart rows for it go with it; order items keep their
// snapshot.
func (r *DishRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dish: %w", err)
	}
	return checkAffected(res, "dish", id)
}
