package services

import (
	"errors"
	"sync"

	"campus-eats/internal/models"
)

// AggregateStatus is the loading flag and error slot of one aggregate. Calls
// against the same aggregate are not coalesced, so a later call may overwrite
// the flag or the error of one still in flight.
type AggregateStatus struct {
	mu      sync.Mutex
	loading bool
	err     error
}

func (s *AggregateStatus) begin() {
	s.mu.Lock()
	s.loading = true
	s.err = nil
	s.mu.Unlock()
}

// finish records the outcome of a call and hands err back to the caller.
func (s *AggregateStatus) finish(err error) error {
	s.mu.Lock()
	s.loading = false
	s.err = err
	s.mu.Unlock()
	return err
}

// fail records a rejection detected before any call was issued.
func (s *AggregateStatus) fail(err error) error {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	return err
}

func (s *AggregateStatus) reset() {
	s.mu.Lock()
	s.loading = false
	s.err = nil
	s.mu.Unlock()
}

// Loading reports whether a call is in flight.
func (s *AggregateStatus) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the error of the last settled call.
func (s *AggregateStatus) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ErrMessage returns the human-readable form of Err, or "".
func (s *AggregateStatus) ErrMessage() string {
	if err := s.Err(); err != nil {
		return err.Error()
	}
	return ""
}

// IsNotFound reports whether err means the referenced resource is absent.
func IsNotFound(err error) bool {
	return errors.Is(err, models.ErrNotFound)
}
