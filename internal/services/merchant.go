package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"campus-eats/internal/models"
)

// MerchantService manages merchant records. Direct profile updates are refused
// while a PENDING change request covers the same fields.
type MerchantService struct {
	api     MerchantAPI
	changes *MerchantChangeService
	status  AggregateStatus

	mu        sync.RWMutex
	merchants []models.Merchant
	current   *models.Merchant
}

// NewMerchantService creates a new merchant service. changes may be nil, in
// which case no pending-change guard applies.
func NewMerchantService(api MerchantAPI, changes *MerchantChangeService) *MerchantService {
	return &MerchantService{api: api, changes: changes}
}

// Load fetches one merchant and makes it current.
func (s *MerchantService) Load(ctx context.Context, merchantID int64) (*models.Merchant, error) {
	return s.loadOne(ctx, fmt.Sprintf("merchant %d", merchantID), func(ctx context.Context) (*models.Merchant, error) {
		return s.api.GetMerchant(ctx, merchantID)
	})
}

// LoadByUser fetches the merchant owned by a user and makes it current.
func (s *MerchantService) LoadByUser(ctx context.Context, userID int64) (*models.Merchant, error) {
	return s.loadOne(ctx, fmt.Sprintf("merchant of user %d", userID), func(ctx context.Context) (*models.Merchant, error) {
		return s.api.GetMerchantByUser(ctx, userID)
	})
}

// LoadAll replaces the loaded list with every merchant.
func (s *MerchantService) LoadAll(ctx context.Context) error {
	return s.loadList(ctx, "all merchants", s.api.ListMerchants)
}

// LoadByStatus replaces the loaded list with merchants in one status.
func (s *MerchantService) LoadByStatus(ctx context.Context, status models.MerchantStatus) error {
	parsed, err := models.ParseMerchantStatus(string(status))
	if err != nil {
		return s.status.fail(err)
	}
	return s.loadList(ctx, "merchants "+string(parsed), func(ctx context.Context) ([]models.Merchant, error) {
		return s.api.ListMerchantsByStatus(ctx, parsed)
	})
}

// Search replaces the loaded list with merchants matching a store name.
func (s *MerchantService) Search(ctx context.Context, name string) ([]models.Merchant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, s.status.fail(fmt.Errorf("%w: search name is required", models.ErrInvalidArgument))
	}
	err := s.loadList(ctx, fmt.Sprintf("merchants named %q", name), func(ctx context.Context) ([]models.Merchant, error) {
		return s.api.SearchMerchants(ctx, name)
	})
	if err != nil {
		return nil, err
	}
	return s.Merchants(), nil
}

// StoreNameExists reports whether a store name is already taken.
func (s *MerchantService) StoreNameExists(ctx context.Context, storeName string) (bool, error) {
	s.status.begin()
	exists, err := s.api.StoreNameExists(ctx, storeName)
	if err != nil {
		return false, s.status.finish(fmt.Errorf("failed to check store name %q: %w", storeName, err))
	}
	s.status.finish(nil)
	return exists, nil
}

// Create registers a merchant. A taken store name fails with
// ErrFailedPrecondition.
func (s *MerchantService) Create(ctx context.Context, req *models.MerchantCreateRequest) (*models.Merchant, error) {
	if err := req.Validate(); err != nil {
		return nil, s.status.fail(err)
	}

	exists, err := s.StoreNameExists(ctx, req.StoreName)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, s.status.fail(fmt.Errorf("%w: store name %q is already taken", models.ErrFailedPrecondition, req.StoreName))
	}

	s.status.begin()
	merchant, err := s.api.CreateMerchant(ctx, req)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to create merchant: %w", err))
	}

	s.mu.Lock()
	s.upsert(*merchant)
	s.current = merchant
	s.mu.Unlock()

	s.status.finish(nil)
	return merchant, nil
}

// Delete deletes a merchant.
func (s *MerchantService) Delete(ctx context.Context, merchantID int64) error {
	s.status.begin()
	if err := s.api.DeleteMerchant(ctx, merchantID); err != nil {
		return s.status.finish(fmt.Errorf("failed to delete merchant %d: %w", merchantID, err))
	}

	s.mu.Lock()
	for i := range s.merchants {
		if s.merchants[i].ID == merchantID {
			s.merchants = append(s.merchants[:i:i], s.merchants[i+1:]...)
			break
		}
	}
	if s.current != nil && s.current.ID == merchantID {
		s.current = nil
	}
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// UpdateStatus sets a merchant's review status.
func (s *MerchantService) UpdateStatus(ctx context.Context, merchantID int64, status models.MerchantStatus) (*models.Merchant, error) {
	parsed, err := models.ParseMerchantStatus(string(status))
	if err != nil {
		return nil, s.status.fail(err)
	}
	return s.mutate(ctx, fmt.Sprintf("set merchant %d to %s", merchantID, parsed), func(ctx context.Context) (*models.Merchant, error) {
		return s.api.UpdateMerchantStatus(ctx, merchantID, parsed)
	})
}

// UpdateProfile writes profile fields straight to the canonical record. The
// merchant's change requests are re-read first; it fails with
// ErrFailedPrecondition while a PENDING request proposes any of the same
// fields.
func (s *MerchantService) UpdateProfile(ctx context.Context, merchantID int64, data models.ProfileData) (*models.Merchant, error) {
	if err := data.Validate(); err != nil {
		return nil, s.status.fail(err)
	}
	if s.changes != nil {
		if err := s.changes.LoadForMerchant(ctx, merchantID); err != nil {
			return nil, s.status.fail(err)
		}
		if pending, ok := s.changes.PendingOverlap(merchantID, data); ok {
			return nil, s.status.fail(fmt.Errorf("%w: change request %d for merchant %d is pending review", models.ErrFailedPrecondition, pending.ID, merchantID))
		}
	}
	return s.mutate(ctx, fmt.Sprintf("update merchant %d", merchantID), func(ctx context.Context) (*models.Merchant, error) {
		return s.api.UpdateMerchant(ctx, merchantID, data)
	})
}

// Merchants returns a copy of the loaded list.
func (s *MerchantService) Merchants() []models.Merchant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Merchant(nil), s.merchants...)
}

// Current returns the merchant last loaded, created or updated.
func (s *MerchantService) Current() *models.Merchant {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	m := *s.current
	return &m
}

func (s *MerchantService) Loading() bool { return s.status.Loading() }

func (s *MerchantService) Err() error { return s.status.Err() }

func (s *MerchantService) loadOne(ctx context.Context, what string, fetch func(context.Context) (*models.Merchant, error)) (*models.Merchant, error) {
	s.status.begin()
	merchant, err := fetch(ctx)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to load %s: %w", what, err))
	}

	s.mu.Lock()
	s.current = merchant
	s.mu.Unlock()

	s.status.finish(nil)
	return merchant, nil
}

func (s *MerchantService) loadList(ctx context.Context, what string, fetch func(context.Context) ([]models.Merchant, error)) error {
	s.status.begin()
	merchants, err := fetch(ctx)
	if err != nil {
		return s.status.finish(fmt.Errorf("failed to load %s: %w", what, err))
	}

	s.mu.Lock()
	s.merchants = merchants
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

func (s *MerchantService) mutate(ctx context.Context, what string, call func(context.Context) (*models.Merchant, error)) (*models.Merchant, error) {
	s.status.begin()
	merchant, err := call(ctx)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to %s: %w", what, err))
	}

	s.mu.Lock()
	s.upsert(*merchant)
	s.current = merchant
	s.mu.Unlock()

	s.status.finish(nil)
	return merchant, nil
}

// upsert must be called with mu held.
func (s *MerchantService) upsert(m models.Merchant) {
	for i := range s.merchants {
		if s.merchants[i].ID == m.ID {
			s.merchants[i] = m
			return
		}
	}
	s.merchants = append(s.merchants, m)
}
