package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"campus-eats/internal/models"
)

// MerchantChangeService manages proposed merchant profile edits and their
// review. Several PENDING requests for one merchant may coexist; resolving one
// leaves the others untouched.
type MerchantChangeService struct {
	api    MerchantChangeAPI
	status AggregateStatus

	mu        sync.RWMutex
	changes   []models.MerchantChangeRequest
	canonical map[int64]models.Merchant
}

// NewMerchantChangeService creates a new merchant change service
func NewMerchantChangeService(api MerchantChangeAPI) *MerchantChangeService {
	return &MerchantChangeService{
		api:       api,
		canonical: make(map[int64]models.Merchant),
	}
}

// Load replaces the loaded set with every change request.
func (s *MerchantChangeService) Load(ctx context.Context) error {
	s.status.begin()
	changes, err := s.api.ListMerchantChanges(ctx)
	if err != nil {
		return s.status.finish(fmt.Errorf("failed to load merchant changes: %w", err))
	}

	s.mu.Lock()
	s.changes = changes
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// LoadForMerchant refreshes the loaded requests of one merchant, leaving other
// merchants' requests as they were.
func (s *MerchantChangeService) LoadForMerchant(ctx context.Context, merchantID int64) error {
	s.status.begin()
	fresh, err := s.api.ListMerchantChangesByMerchant(ctx, merchantID)
	if err != nil {
		return s.status.finish(fmt.Errorf("failed to load changes of merchant %d: %w", merchantID, err))
	}

	s.mu.Lock()
	kept := s.changes[:0:0]
	for _, c := range s.changes {
		if c.MerchantID != merchantID {
			kept = append(kept, c)
		}
	}
	s.changes = append(kept, fresh...)
	s.mu.Unlock()

	s.status.finish(nil)
	return nil
}

// LoadCanonical reads the canonical merchant record.
func (s *MerchantChangeService) LoadCanonical(ctx context.Context, merchantID int64) (*models.Merchant, error) {
	s.status.begin()
	merchant, err := s.api.GetMerchant(ctx, merchantID)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to load merchant %d: %w", merchantID, err))
	}
	s.setCanonical(*merchant)
	s.status.finish(nil)
	return merchant, nil
}

// Submit proposes new values for some of a merchant's fields. OldData is
// captured from the canonical record for exactly the proposed fields.
func (s *MerchantChangeService) Submit(ctx context.Context, merchantID int64, proposed models.ProfileData) (*models.MerchantChangeRequest, error) {
	if err := proposed.Validate(); err != nil {
		return nil, s.status.fail(err)
	}

	s.status.begin()
	merchant, err := s.api.GetMerchant(ctx, merchantID)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to load merchant %d: %w", merchantID, err))
	}
	s.setCanonical(*merchant)

	oldData, err := merchant.Snapshot(proposed.Fields())
	if err != nil {
		return nil, s.status.finish(err)
	}

	submission := &models.ChangeSubmission{OldData: oldData, NewData: proposed}
	change, err := s.api.SubmitMerchantChange(ctx, merchantID, submission)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to submit change for merchant %d: %w", merchantID, err))
	}

	s.mu.Lock()
	s.changes = append(s.changes, *change)
	s.mu.Unlock()

	s.status.finish(nil)
	return change, nil
}

// Review approves or rejects a PENDING request. A resolved request fails with
// ErrInvalidState and no call is made. Approval re-reads the canonical record.
func (s *MerchantChangeService) Review(ctx context.Context, changeID int64, approved bool) (*models.MerchantChangeRequest, error) {
	change, ok := s.Get(changeID)
	if !ok {
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		if change, ok = s.Get(changeID); !ok {
			return nil, s.status.fail(fmt.Errorf("%w: change request %d", models.ErrNotFound, changeID))
		}
	}
	if change.IsResolved() {
		return nil, s.status.fail(fmt.Errorf("%w: change request %d is already %s", models.ErrInvalidState, changeID, change.Status))
	}

	s.status.begin()
	resolved, err := s.api.ReviewMerchantChange(ctx, changeID, approved)
	if err != nil {
		return nil, s.status.finish(fmt.Errorf("failed to review change request %d: %w", changeID, err))
	}
	if resolved == nil {
		local := change
		local.Status = models.ChangeRejected
		if approved {
			local.Status = models.ChangeApproved
		}
		now := time.Now()
		local.ReviewedAt = &now
		resolved = &local
	}

	s.mu.Lock()
	for i := range s.changes {
		if s.changes[i].ID == changeID {
			s.changes[i] = *resolved
		}
	}
	s.mu.Unlock()

	if approved {
		merchant, err := s.api.GetMerchant(ctx, change.MerchantID)
		if err != nil {
			log.Printf("merchant changes: failed to re-read merchant %d after approving request %d: %v", change.MerchantID, changeID, err)
			s.mu.Lock()
			delete(s.canonical, change.MerchantID)
			s.mu.Unlock()
		} else {
			s.setCanonical(*merchant)
		}
	}

	s.status.finish(nil)
	return resolved, nil
}

// Get returns the loaded request with id.
func (s *MerchantChangeService) Get(changeID int64) (models.MerchantChangeRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.changes {
		if c.ID == changeID {
			return c, true
		}
	}
	return models.MerchantChangeRequest{}, false
}

// Changes returns every loaded request, duplicates included.
func (s *MerchantChangeService) Changes() []models.MerchantChangeRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.MerchantChangeRequest(nil), s.changes...)
}

// Pending returns every PENDING request.
func (s *MerchantChangeService) Pending() []models.MerchantChangeRequest {
	return s.where(func(c models.MerchantChangeRequest) bool {
		return c.Status == models.ChangePending
	})
}

// ForMerchant returns every request of one merchant.
func (s *MerchantChangeService) ForMerchant(merchantID int64) []models.MerchantChangeRequest {
	return s.where(func(c models.MerchantChangeRequest) bool {
		return c.MerchantID == merchantID
	})
}

// PendingOverlap returns the first loaded PENDING request of the merchant that
// proposes any of the fields in data.
func (s *MerchantChangeService) PendingOverlap(merchantID int64, data models.ProfileData) (models.MerchantChangeRequest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.changes {
		if c.MerchantID == merchantID && c.Status == models.ChangePending && c.NewData.Overlaps(data) {
			return c, true
		}
	}
	return models.MerchantChangeRequest{}, false
}

// Canonical returns the last canonical record read for a merchant.
func (s *MerchantChangeService) Canonical(merchantID int64) (models.Merchant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.canonical[merchantID]
	return m, ok
}

// Diff compares one field value. It never touches state.
func (s *MerchantChangeService) Diff(oldValue, newValue string) models.FieldDiff {
	return models.Diff(oldValue, newValue)
}

// Diffs returns the per-field comparison of a loaded request.
func (s *MerchantChangeService) Diffs(changeID int64) ([]models.FieldDiff, error) {
	change, ok := s.Get(changeID)
	if !ok {
		return nil, fmt.Errorf("%w: change request %d is not loaded", models.ErrNotFound, changeID)
	}
	return change.Diffs(), nil
}

func (s *MerchantChangeService) Loading() bool { return s.status.Loading() }

func (s *MerchantChangeService) Err() error { return s.status.Err() }

func (s *MerchantChangeService) where(keep func(models.MerchantChangeRequest) bool) []models.MerchantChangeRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.MerchantChangeRequest
	for _, c := range s.changes {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (s *MerchantChangeService) setCanonical(m models.Merchant) {
	s.mu.Lock()
	s.canonical[m.ID] = m
	s.mu.Unlock()
}
