package handlers

import (
	"net/http"

	"campus-eats/internal/models"
	"campus-eats/internal/repositories"
)

// MerchantHandler serves merchants and their change requests
type MerchantHandler struct {
	merchants *repositories.MerchantRepository
	changes   *repositories.MerchantChangeRepository
}

// NewMerchantHandler creates a new merchant handler
func NewMerchantHandler(merchants *repositories.MerchantRepository, changes *repositories.MerchantChangeRepository) *MerchantHandler {
	return &MerchantHandler{merchants: merchants, changes: changes}
}

// List lists every merchant
func (h *MerchantHandler) List(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.merchants.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchants)
}

// ListByStatus lists merchants in one review status
func (h *MerchantHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	status, err := models.ParseMerchantStatus(pathParam(r, "status"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	merchants, err := h.merchants.ListByStatus(r.Context(), status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchants)
}

// Search lists merchants whose store name contains {name}
func (h *MerchantHandler) Search(w http.ResponseWriter, r *http.Request) {
	merchants, err := h.merchants.SearchByName(r.Context(), pathParam(r, "name"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchants)
}

// Get returns one merchant
func (h *MerchantHandler) Get(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	merchant, err := h.merchants.GetByID(r.Context(), merchantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchant)
}

// GetByUser returns the merchant owned by a user
func (h *MerchantHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	merchant, err := h.merchants.GetByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchant)
}

// StoreNameExists reports whether {storeName} is taken
func (h *MerchantHandler) StoreNameExists(w http.ResponseWriter, r *http.Request) {
	exists, err := h.merchants.StoreNameExists(r.Context(), pathParam(r, "storeName"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, exists)
}

// Create registers a merchant
func (h *MerchantHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.MerchantCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	merchant, err := h.merchants.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchant)
}

// Update writes profile fields directly
func (h *MerchantHandler) Update(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var data models.ProfileData
	if err := decodeBody(r, &data); err != nil {
		respondError(w, r, err)
		return
	}

	merchant, err := h.merchants.Update(r.Context(), merchantID, data)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchant)
}

// UpdateStatus sets the review status of a merchant
func (h *MerchantHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	merchant, err := h.merchants.UpdateStatus(r.Context(), merchantID, models.MerchantStatus(pathParam(r, "status")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, merchant)
}

// Delete removes a merchant
func (h *MerchantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.merchants.Delete(r.Context(), merchantID); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, nil)
}

// ListChanges lists every change request
func (h *MerchantHandler) ListChanges(w http.ResponseWriter, r *http.Request) {
	changes, err := h.changes.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, changes)
}

// ListMerchantChanges lists the change requests of one merchant
func (h *MerchantHandler) ListMerchantChanges(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	changes, err := h.changes.ListByMerchant(r.Context(), merchantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, changes)
}

// SubmitChange records a change request for review
func (h *MerchantHandler) SubmitChange(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var submission models.ChangeSubmission
	if err := decodeBody(r, &submission); err != nil {
		respondError(w, r, err)
		return
	}

	change, err := h.changes.Create(r.Context(), merchantID, &submission)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, change)
}

// ReviewChange approves or rejects a pending change request
func (h *MerchantHandler) ReviewChange(w http.ResponseWriter, r *http.Request) {
	changeID, err := pathID(r, "changeId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var decision models.ReviewDecision
	if err := decodeBody(r, &decision); err != nil {
		respondError(w, r, err)
		return
	}

	change, err := h.changes.Review(r.Context(), changeID, decision.Approved)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, change)
}
