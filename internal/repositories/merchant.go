package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"campus-eats/internal/models"
)

const merchantColumns = `id, user_id, store_name, owner_name, phone, address, store_description, status, created_at, updated_at`

// MerchantRepository handles merchant data operations
type MerchantRepository struct {
	db *sql.DB
}

// NewMerchantRepository creates a new merchant repository
func NewMerchantRepository(db *sql.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func scanMerchant(row rowScanner, m *models.Merchant) error {
	return row.Scan(
		&m.ID,
		&m.UserID,
		&m.StoreName,
		&m.OwnerName,
		&m.Phone,
		&m.Address,
		&m.StoreDescription,
		&m.Status,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
}

// List returns every merchant
func (r *MerchantRepository) List(ctx context.Context) ([]models.Merchant, error) {
	return r.list(ctx, `SELECT `+merchantColumns+` FROM merchants ORDER BY id`)
}

// ListByStatus returns the merchants in one review status
func (r *MerchantRepository) ListByStatus(ctx context.Context, status models.MerchantStatus) ([]models.Merchant, error) {
	return r.list(ctx, `SELECT `+merchantColumns+` FROM merchants WHERE status = $1 ORDER BY id`, status)
}

// SearchByName returns merchants whose store name contains name, ignoring case
func (r *MerchantRepository) SearchByName(ctx context.Context, name string) ([]models.Merchant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: search name is required", models.ErrInvalidArgument)
	}
	pattern := "%" + strings.ToLower(name) + "%"
	return r.list(ctx, `SELECT `+merchantColumns+` FROM merchants WHERE LOWER(store_name) LIKE $1 ORDER BY id`, pattern)
}

func (r *MerchantRepository) list(ctx context.Context, query string, args ...any) ([]models.Merchant, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list merchants: %w", err)
	}
	defer rows.Close()

	merchants := []models.Merchant{}
	for rows.Next() {
		var m models.Merchant
		if err := scanMerchant(rows, &m); err != nil {
			return nil, fmt.Errorf("failed to scan merchant: %w", err)
		}
		merchants = append(merchants, m)
	}
	return merchants, rows.Err()
}

// GetByID retrieves a merchant by ID
func (r *MerchantRepository) GetByID(ctx context.Context, id int64) (*models.Merchant, error) {
	return getMerchant(ctx, r.db, id)
}

func getMerchant(ctx context.Context, q querier, id int64) (*models.Merchant, error) {
	m := &models.Merchant{}
	row := q.QueryRowContext(ctx, `SELECT `+merchantColumns+` FROM merchants WHERE id = $1`, id)
	if err := scanMerchant(row, m); err != nil {
		return nil, notFound(err, "merchant", id)
	}
	return m, nil
}

// GetByUserID retrieves the merchant owned by a user
func (r *MerchantRepository) GetByUserID(ctx context.Context, userID int64) (*models.Merchant, error) {
	m := &models.Merchant{}
	row := r.db.QueryRowContext(ctx, `SELECT `+merchantColumns+` FROM merchants WHERE user_id = $1 ORDER BY id LIMIT 1`, userID)
	if err := scanMerchant(row, m); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no merchant for user %d", models.ErrNotFound, userID)
		}
		return nil, fmt.Errorf("failed to get merchant: %w", err)
	}
	return m, nil
}

// StoreNameExists reports whether a store name is already taken
func (r *MerchantRepository) StoreNameExists(ctx context.Context, storeName string) (bool, error) {
	found, err := exists(ctx, r.db, `SELECT 1 FROM merchants WHERE store_name = $1`, storeName)
	if err != nil {
		return false, fmt.Errorf("failed to check store name: %w", err)
	}
	return found, nil
}

// Create registers a merchant in PENDING status
func (r *MerchantRepository) Create(ctx context.Context, req *models.MerchantCreateRequest) (*models.Merchant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	query := `
		INSERT INTO merchants (user_id, store_name, owner_name, phone, address, store_description, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query,
		req.UserID,
		req.StoreName,
		req.OwnerName,
		req.Phone,
		req.Address,
		req.StoreDescription,
		models.MerchantPending,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: store name %q is taken", models.ErrFailedPrecondition, req.StoreName)
		}
		return nil, fmt.Errorf("failed to create merchant: %w", err)
	}

	return r.GetByID(ctx, id)
}

// Update writes the given profile fields of a merchant. Fields proposed by a
// PENDING change request are locked until the request is reviewed.
func (r *MerchantRepository) Update(ctx context.Context, id int64, data models.ProfileData) (*models.Merchant, error) {
	var updated *models.Merchant
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		m, err := getMerchant(ctx, tx, id)
		if err != nil {
			return err
		}
		pending, err := pendingOverlap(ctx, tx, id, data)
		if err != nil {
			return err
		}
		if pending != nil {
			return fmt.Errorf("%w: change request %d for merchant %d is pending review", models.ErrFailedPrecondition, pending.ID, id)
		}
		if err := m.Apply(data); err != nil {
			return err
		}
		if err := saveProfile(ctx, tx, m); err != nil {
			return err
		}
		updated, err = getMerchant(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func saveProfile(ctx context.Context, q querier, m *models.Merchant) error {
	query := `
		UPDATE merchants
		SET store_name = $1, owner_name = $2, phone = $3, address = $4, store_description = $5, updated_at = CURRENT_TIMESTAMP
		WHERE id = $6`

	res, err := q.ExecContext(ctx, query, m.StoreName, m.OwnerName, m.Phone, m.Address, m.StoreDescription, m.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: store name %q is taken", models.ErrFailedPrecondition, m.StoreName)
		}
		return fmt.Errorf("failed to update merchant: %w", err)
	}
	return checkAffected(res, "merchant", m.ID)
}

// UpdateStatus sets the review status of a merchant
func (r *MerchantRepository) UpdateStatus(ctx context.Context, id int64, status models.MerchantStatus) (*models.Merchant, error) {
	status, err := models.ParseMerchantStatus(string(status))
	if err != nil {
		return nil, err
	}

	res, err := r.db.ExecContext(ctx, `UPDATE merchants SET status = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, status, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update merchant status: %w", err)
	}
	if err := checkAffected(res, "merchant", id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a merchant that has never received an order
func (r *MerchantRepository) Delete(ctx context.Context, id int64) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		hasOrders, err := exists(ctx, tx, `SELECT 1 FROM orders WHERE merchant_id = $1 LIMIT 1`, id)
		if err != nil {
			return fmt.Errorf("failed to check merchant orders: %w", err)
		}
		if hasOrders {
			return fmt.Errorf("%w: merchant %d has orders", models.ErrFailedPrecondition, id)
		}

		res, err := tx.ExecContext(ctx, `DELETE FROM merchants WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("failed to delete merchant: %w", err)
		}
		return checkAffected(res, "merchant", id)
	})
}
