package models

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// MerchantStatus represents the review status of a merchant
type MerchantStatus string

const (
	MerchantPending  MerchantStatus = "PENDING"
	MerchantApproved MerchantStatus = "APPROVED"
	MerchantRejected MerchantStatus = "REJECTED"
)

// ParseMerchantStatus accepts ACTIVE and DISABLED as aliases used by older
// backends.
func ParseMerchantStatus(raw string) (MerchantStatus, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "PENDING":
		return MerchantPending, nil
	case "APPROVED", "ACTIVE":
		return MerchantApproved, nil
	case "REJECTED", "DISABLED":
		return MerchantRejected, nil
	default:
		return "", fmt.Errorf("%w: unknown merchant status %q", ErrInvalidArgument, raw)
	}
}

// UnmarshalJSON folds the ACTIVE/DISABLED aliases into their canonical
// values. Unknown values are kept as-is for Validate to reject.
func (s *MerchantStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if parsed, err := ParseMerchantStatus(raw); err == nil {
		*s = parsed
		return nil
	}
	*s = MerchantStatus(raw)
	return nil
}

// Merchant is the canonical profile record
type Merchant struct {
	ID               int64          `json:"id"`
	UserID           int64          `json:"userId"`
	StoreName        string         `json:"storeName"`
	OwnerName        string         `json:"ownerName"`
	Phone            string         `json:"phone"`
	Address          string         `json:"address"`
	StoreDescription string         `json:"storeDescription,omitempty"`
	Status           MerchantStatus `json:"status"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// MerchantCreateRequest represents the data needed to register a merchant
type MerchantCreateRequest struct {
	UserID           int64  `json:"userId"`
	StoreName        string `json:"storeName"`
	OwnerName        string `json:"ownerName"`
	Phone            string `json:"phone"`
	Address          string `json:"address"`
	StoreDescription string `json:"storeDescription,omitempty"`
}

// Validate validates merchant registration data
func (req *MerchantCreateRequest) Validate() error {
	if req.UserID <= 0 {
		return fmt.Errorf("%w: user id is required", ErrInvalidArgument)
	}
	return req.Profile().Validate()
}

// Profile returns the request's profile fields.
func (req *MerchantCreateRequest) Profile() ProfileData {
	return ProfileData{
		FieldStoreName:        req.StoreName,
		FieldOwnerName:        req.OwnerName,
		FieldPhone:            req.Phone,
		FieldAddress:          req.Address,
		FieldStoreDescription: req.StoreDescription,
	}
}

// ProfileField names one editable field of a merchant profile.
type ProfileField string

const (
	FieldStoreName        ProfileField = "storeName"
	FieldOwnerName        ProfileField = "ownerName"
	FieldPhone            ProfileField = "phone"
	FieldAddress          ProfileField = "address"
	FieldStoreDescription ProfileField = "storeDescription"
)

// ProfileFields lists the editable fields in display order.
var ProfileFields = []ProfileField{
	FieldStoreName,
	FieldOwnerName,
	FieldPhone,
	FieldAddress,
	FieldStoreDescription,
}

// ProfileData maps profile fields to values.
type ProfileData map[ProfileField]string

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9 \-]{4,19}$`)

// IsValid reports whether f is a known profile field.
func (f ProfileField) IsValid() bool {
	for _, known := range ProfileFields {
		if f == known {
			return true
		}
	}
	return false
}

// Fields returns the keys of d in display order.
func (d ProfileData) Fields() []ProfileField {
	fields := make([]ProfileField, 0, len(d))
	for f := range d {
		fields = append(fields, f)
	}
	sort.Slice(fields, func(i, j int) bool {
		return fieldRank(fields[i]) < fieldRank(fields[j])
	})
	return fields
}

// Overlaps reports whether d and other share at least one field.
func (d ProfileData) Overlaps(other ProfileData) bool {
	for f := range d {
		if _, ok := other[f]; ok {
			return true
		}
	}
	return false
}

// Validate checks a set of proposed values.
func (d ProfileData) Validate() error {
	if len(d) == 0 {
		return fmt.Errorf("%w: no fields proposed", ErrInvalidArgument)
	}
	for f, v := range d {
		if !f.IsValid() {
			return fmt.Errorf("%w: unknown profile field %q", ErrInvalidArgument, f)
		}
		switch f {
		case FieldStoreName, FieldOwnerName:
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("%w: %s cannot be empty", ErrInvalidArgument, f)
			}
			if len(v) > 255 {
				return fmt.Errorf("%w: %s must be less than 255 characters", ErrInvalidArgument, f)
			}
		case FieldPhone:
			if !phoneRegex.MatchString(v) {
				return fmt.Errorf("%w: phone format is invalid", ErrInvalidArgument)
			}
		}
	}
	return nil
}

func fieldRank(f ProfileField) int {
	for i, known := range ProfileFields {
		if f == known {
			return i
		}
	}
	return len(ProfileFields)
}

// Field returns the current value of f.
func (m *Merchant) Field(f ProfileField) (string, bool) {
	switch f {
	case FieldStoreName:
		return m.StoreName, true
	case FieldOwnerName:
		return m.OwnerName, true
	case FieldPhone:
		return m.Phone, true
	case FieldAddress:
		return m.Address, true
	case FieldStoreDescription:
		return m.StoreDescription, true
	default:
		return "", false
	}
}

// Snapshot captures the current values of exactly the given fields.
func (m *Merchant) Snapshot(fields []ProfileField) (ProfileData, error) {
	out := make(ProfileData, len(fields))
	for _, f := range fields {
		v, ok := m.Field(f)
		if !ok {
			return nil, fmt.Errorf("%w: unknown profile field %q", ErrInvalidArgument, f)
		}
		out[f] = v
	}
	return out, nil
}

// Apply writes every field of data into m. It validates all fields before
// writing any of them, so m is either fully updated or untouched.
func (m *Merchant) Apply(data ProfileData) error {
	if err := data.Validate(); err != nil {
		return err
	}
	for f, v := range data {
		switch f {
		case FieldStoreName:
			m.StoreName = v
		case FieldOwnerName:
			m.OwnerName = v
		case FieldPhone:
			m.Phone = v
		case FieldAddress:
			m.Address = v
		case FieldStoreDescription:
			m.StoreDescription = v
		}
	}
	return nil
}

// Validate checks a merchant payload received from the backend.
func (m *Merchant) Validate() error {
	if m.ID <= 0 {
		return fmt.Errorf("%w: merchant id missing", ErrInvalidResponse)
	}
	if _, err := ParseMerchantStatus(string(m.Status)); err != nil {
		return fmt.Errorf("%w: merchant %d has unknown status %q", ErrInvalidResponse, m.ID, m.Status)
	}
	return nil
}

// ChangeStatus represents the review status of a change request
type ChangeStatus string

const (
	ChangePending  ChangeStatus = "PENDING"
	ChangeApproved ChangeStatus = "APPROVED"
	ChangeRejected ChangeStatus = "REJECTED"
)

// IsValid reports whether s is a known change status.
func (s ChangeStatus) IsValid() bool {
	return s == ChangePending || s == ChangeApproved || s == ChangeRejected
}

// MerchantChangeRequest proposes new values for a subset of a merchant's
// profile fields. OldData holds the canonical values at submission time.
type MerchantChangeRequest struct {
	ID         int64        `json:"id"`
	MerchantID int64        `json:"merchantId"`
	Status     ChangeStatus `json:"status"`
	OldData    ProfileData  `json:"oldData"`
	NewData    ProfileData  `json:"newData"`
	CreatedAt  time.Time    `json:"createdAt"`
	ReviewedAt *time.Time   `json:"reviewedAt,omitempty"`
}

// ChangeSubmission is the body of a change submission.
type ChangeSubmission struct {
	OldData ProfileData `json:"oldData"`
	NewData ProfileData `json:"newData"`
}

// ReviewDecision is the body of a review call.
type ReviewDecision struct {
	Approved bool `json:"approved"`
}

// Validate validates a submission; OldData must cover exactly the proposed
// fields.
func (s *ChangeSubmission) Validate() error {
	if err := s.NewData.Validate(); err != nil {
		return err
	}
	if len(s.OldData) != len(s.NewData) {
		return fmt.Errorf("%w: old data must cover exactly the proposed fields", ErrInvalidArgument)
	}
	for f := range s.NewData {
		if _, ok := s.OldData[f]; !ok {
			return fmt.Errorf("%w: old data is missing %s", ErrInvalidArgument, f)
		}
	}
	return nil
}

// IsResolved reports whether the request has been approved or rejected.
func (r *MerchantChangeRequest) IsResolved() bool {
	return r.Status != ChangePending
}

// Validate checks a change request payload received from the backend.
func (r *MerchantChangeRequest) Validate() error {
	if r.ID <= 0 {
		return fmt.Errorf("%w: change request id missing", ErrInvalidResponse)
	}
	if !r.Status.IsValid() {
		return fmt.Errorf("%w: change request %d has unknown status %q", ErrInvalidResponse, r.ID, r.Status)
	}
	return nil
}

// Diffs returns one FieldDiff per proposed field, in display order.
func (r *MerchantChangeRequest) Diffs() []FieldDiff {
	fields := r.NewData.Fields()
	out := make([]FieldDiff, 0, len(fields))
	for _, f := range fields {
		d := Diff(r.OldData[f], r.NewData[f])
		d.Field = f
		out = append(out, d)
	}
	return out
}

// FieldDiff is the display form of one field comparison.
type FieldDiff struct {
	Field   ProfileField `json:"field,omitempty"`
	Changed bool         `json:"changed"`
	Old     string       `json:"old,omitempty"`
	New     string       `json:"new"`
}

// Unchanged reports whether the old and new values are equal.
func (d FieldDiff) Unchanged() bool {
	return !d.Changed
}

// Diff compares two values. Equal values yield an unchanged diff carrying only
// the value; otherwise both sides are kept.
func Diff(oldValue, newValue string) FieldDiff {
	if oldValue == newValue {
		return FieldDiff{New: newValue}
	}
	return FieldDiff{Changed: true, Old: oldValue, New: newValue}
}
