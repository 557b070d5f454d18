package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"campus-eats/internal/models"
)

const changeColumns = `id, merchant_id, status, old_data, new_data, created_at, reviewed_at`

// MerchantChangeRepository handles merchant change request operations
type MerchantChangeRepository struct {
	db *sql.DB
}

// NewMerchantChangeRepository creates a new merchant change repository
func NewMerchantChangeRepository(db *sql.DB) *MerchantChangeRepository {
	return &MerchantChangeRepository{db: db}
}

func scanChange(row rowScanner, change *models.MerchantChangeRequest) error {
	var (
		oldData, newData []byte
		reviewedAt       sql.NullTime
	)
	if err := row.Scan(
		&change.ID,
		&change.MerchantID,
		&change.Status,
		&oldData,
		&newData,
		&change.CreatedAt,
		&reviewedAt,
	); err != nil {
		return err
	}

	if err := json.Unmarshal(oldData, &change.OldData); err != nil {
		return fmt.Errorf("failed to decode old data of change %d: %w", change.ID, err)
	}
	if err := json.Unmarshal(newData, &change.NewData); err != nil {
		return fmt.Errorf("failed to decode new data of change %d: %w", change.ID, err)
	}
	if reviewedAt.Valid {
		change.ReviewedAt = &reviewedAt.Time
	}
	return nil
}

// List returns every change request, oldest first
func (r *MerchantChangeRepository) List(ctx context.Context) ([]models.MerchantChangeRequest, error) {
	return r.list(ctx, `SELECT `+changeColumns+` FROM merchant_change_requests ORDER BY id`)
}

// ListByMerchant returns the change requests of one merchant
func (r *MerchantChangeRepository) ListByMerchant(ctx context.Context, merchantID int64) ([]models.MerchantChangeRequest, error) {
	return r.list(ctx, `SELECT `+changeColumns+` FROM merchant_change_requests WHERE merchant_id = $1 ORDER BY id`, merchantID)
}

func (r *MerchantChangeRepository) list(ctx context.Context, query string, args ...any) ([]models.MerchantChangeRequest, error) {
	return listChanges(ctx, r.db, query, args...)
}

func listChanges(ctx context.Context, q querier, query string, args ...any) ([]models.MerchantChangeRequest, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list change requests: %w", err)
	}
	defer rows.Close()

	changes := []models.MerchantChangeRequest{}
	for rows.Next() {
		var change models.MerchantChangeRequest
		if err := scanChange(rows, &change); err != nil {
			return nil, fmt.Errorf("failed to scan change request: %w", err)
		}
		changes = append(changes, change)
	}
	return changes, rows.Err()
}

// GetByID retrieves a change request by ID
func (r *MerchantChangeRepository) GetByID(ctx context.Context, id int64) (*models.MerchantChangeRequest, error) {
	return getChange(ctx, r.db, id)
}

// pendingOverlap returns the first PENDING request of the merchant proposing
// any field in data.
func pendingOverlap(ctx context.Context, q querier, merchantID int64, data models.ProfileData) (*models.MerchantChangeRequest, error) {
	pending, err := listChanges(ctx, q,
		`SELECT `+changeColumns+` FROM merchant_change_requests WHERE merchant_id = $1 AND status = $2 ORDER BY id`,
		merchantID, models.ChangePending)
	if err != nil {
		return nil, err
	}
	for i := range pending {
		if pending[i].NewData.Overlaps(data) {
			return &pending[i], nil
		}
	}
	return nil, nil
}

func getChange(ctx context.Context, q querier, id int64) (*models.MerchantChangeRequest, error) {
	change := &models.MerchantChangeRequest{}
	row := q.QueryRowContext(ctx, `SELECT `+changeColumns+` FROM merchant_change_requests WHERE id = $1`, id)
	if err := scanChange(row, change); err != nil {
		return nil, notFound(err, "change request", id)
	}
	return change, nil
}

// Create records a PENDING change request. The old values are snapshotted from
// the canonical merchant record at the time of the call.
func (r *MerchantChangeRepository) Create(ctx context.Context, merchantID int64, submission *models.ChangeSubmission) (*models.MerchantChangeRequest, error) {
	if err := submission.NewData.Validate(); err != nil {
		return nil, err
	}

	var id int64
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		m, err := getMerchant(ctx, tx, merchantID)
		if err != nil {
			return err
		}
		oldData, err := m.Snapshot(submission.NewData.Fields())
		if err != nil {
			return err
		}

		oldJSON, err := json.Marshal(oldData)
		if err != nil {
			return fmt.Errorf("failed to encode old data: %w", err)
		}
		newJSON, err := json.Marshal(submission.NewData)
		if err != nil {
			return fmt.Errorf("failed to encode new data: %w", err)
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO merchant_change_requests (merchant_id, status, old_data, new_data)
			VALUES ($1, $2, $3, $4)
			RETURNING id`, merchantID, models.ChangePending, string(oldJSON), string(newJSON)).Scan(&id)
		if err != nil {
			return fmt.Errorf("failed to create change request: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}

// Review resolves a PENDING change request. Approval writes the proposed
// values into the merchant record in the same transaction.
func (r *MerchantChangeRepository) Review(ctx context.Context, id int64, approved bool) (*models.MerchantChangeRequest, error) {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		change, err := getChange(ctx, tx, id)
		if err != nil {
			return err
		}
		if change.IsResolved() {
			return fmt.Errorf("%w: change request %d is already %s", models.ErrInvalidState, id, change.Status)
		}

		status := models.ChangeRejected
		if approved {
			status = models.ChangeApproved
			m, err := getMerchant(ctx, tx, change.MerchantID)
			if err != nil {
				return err
			}
			if err := m.Apply(change.NewData); err != nil {
				return err
			}
			if err := saveProfile(ctx, tx, m); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE merchant_change_requests
			SET status = $1, reviewed_at = CURRENT_TIMESTAMP
			WHERE id = $2 AND status = $3`, status, id, models.ChangePending)
		if err != nil {
			return fmt.Errorf("failed to resolve change request: %w", err)
		}
		rowsAffected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rowsAffected == 0 {
			return fmt.Errorf("%w: change request %d was resolved concurrently", models.ErrInvalidState, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return r.GetByID(ctx, id)
}
