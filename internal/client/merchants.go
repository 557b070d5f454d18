package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"campus-eats/internal/models"
)

// ListMerchants lists every merchant.
func (c *Client) ListMerchants(ctx context.Context) ([]models.Merchant, error) {
	return c.listMerchants(ctx, "/merchants")
}

// ListMerchantsByStatus lists merchants in one review status.
func (c *Client) ListMerchantsByStatus(ctx context.Context, status models.MerchantStatus) ([]models.Merchant, error) {
	return c.listMerchants(ctx, "/merchants/status/"+url.PathEscape(string(status)))
}

// SearchMerchants lists merchants whose store name matches name.
func (c *Client) SearchMerchants(ctx context.Context, name string) ([]models.Merchant, error) {
	return c.listMerchants(ctx, "/merchants/name/"+url.PathEscape(name))
}

// GetMerchant fetches the canonical merchant record.
func (c *Client) GetMerchant(ctx context.Context, merchantID int64) (*models.Merchant, error) {
	return c.merchantCall(ctx, http.MethodGet, fmt.Sprintf("/merchants/%d", merchantID), nil)
}

// GetMerchantByUser fetches the merchant owned by a user.
func (c *Client) GetMerchantByUser(ctx context.Context, userID int64) (*models.Merchant, error) {
	return c.merchantCall(ctx, http.MethodGet, fmt.Sprintf("/merchants/user/%d", userID), nil)
}

// CreateMerchant registers a merchant. New merchants start PENDING.
func (c *Client) CreateMerchant(ctx context.Context, req *models.MerchantCreateRequest) (*models.Merchant, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return c.merchantCall(ctx, http.MethodPost, "/merchants", req)
}

// UpdateMerchant writes profile fields directly to the canonical record.
func (c *Client) UpdateMerchant(ctx context.Context, merchantID int64, data models.ProfileData) (*models.Merchant, error) {
	if err := data.Validate(); err != nil {
		return nil, err
	}
	return c.merchantCall(ctx, http.MethodPut, fmt.Sprintf("/merchants/%d", merchantID), data)
}

// UpdateMerchantStatus sets a merchant's review status.
func (c *Client) UpdateMerchantStatus(ctx context.Context, merchantID int64, status models.MerchantStatus) (*models.Merchant, error) {
	return c.merchantCall(ctx, http.MethodPatch, fmt.Sprintf("/merchants/%d/status/%s", merchantID, url.PathEscape(string(status))), nil)
}

// DeleteMerchant deletes a merchant.
func (c *Client) DeleteMerchant(ctx context.Context, merchantID int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/merchants/%d", merchantID), nil, nil, nil)
}

// StoreNameExists reports whether a store name is taken.
func (c *Client) StoreNameExists(ctx context.Context, storeName string) (bool, error) {
	var exists bool
	if err := c.do(ctx, http.MethodGet, "/merchants/exists/store-name/"+url.PathEscape(storeName), nil, nil, &exists); err != nil {
		return false, err
	}
	return exists, nil
}

// ListMerchantChanges lists every change request, resolved or not.
func (c *Client) ListMerchantChanges(ctx context.Context) ([]models.MerchantChangeRequest, error) {
	return c.listChanges(ctx, "/merchants/changes")
}

// ListMerchantChangesByMerchant lists the change requests of one merchant.
func (c *Client) ListMerchantChangesByMerchant(ctx context.Context, merchantID int64) ([]models.MerchantChangeRequest, error) {
	return c.listChanges(ctx, fmt.Sprintf("/merchants/%d/changes", merchantID))
}

func (c *Client) listChanges(ctx context.Context, path string) ([]models.MerchantChangeRequest, error) {
	var changes []models.MerchantChangeRequest
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &changes); err != nil {
		return nil, err
	}
	if err := validateAll(changes); err != nil {
		return nil, err
	}
	return changes, nil
}

// SubmitMerchantChange creates a PENDING change request.
func (c *Client) SubmitMerchantChange(ctx context.Context, merchantID int64, submission *models.ChangeSubmission) (*models.MerchantChangeRequest, error) {
	if err := submission.Validate(); err != nil {
		return nil, err
	}
	var change models.MerchantChangeRequest
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/merchants/%d/changes", merchantID), nil, submission, &change); err != nil {
		return nil, err
	}
	if err := change.Validate(); err != nil {
		return nil, err
	}
	return &change, nil
}

// ReviewMerchantChange approves or rejects a change request. Backends that
// answer with an empty body yield a nil request and no error.
func (c *Client) ReviewMerchantChange(ctx context.Context, changeID int64, approved bool) (*models.MerchantChangeRequest, error) {
	var change models.MerchantChangeRequest
	body := models.ReviewDecision{Approved: approved}
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/merchants/changes/%d/review", changeID), nil, body, &change); err != nil {
		return nil, err
	}
	if change.ID == 0 {
		return nil, nil
	}
	if err := change.Validate(); err != nil {
		return nil, err
	}
	return &change, nil
}

func (c *Client) merchantCall(ctx context.Context, method, path string, body any) (*models.Merchant, error) {
	var merchant models.Merchant
	if err := c.do(ctx, method, path, nil, body, &merchant); err != nil {
		return nil, err
	}
	if err := merchant.Validate(); err != nil {
		return nil, err
	}
	return &merchant, nil
}

func (c *Client) listMerchants(ctx context.Context, path string) ([]models.Merchant, error) {
	var merchants []models.Merchant
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &merchants); err != nil {
		return nil, err
	}
	if err := validateAll(merchants); err != nil {
		return nil, err
	}
	return merchants, nil
}
