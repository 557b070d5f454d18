package handlers

import (
	"net/http"

	"campus-eats/internal/models"
	"campus-eats/internal/repositories"
)

// DishHandler serves the dish resource
type DishHandler struct {
	dishes *repositories.DishRepository
}

// NewDishHandler creates a new dish handler
func NewDishHandler(dishes *repositories.DishRepository) *DishHandler {
	return &DishHandler{dishes: dishes}
}

// List lists every dish
func (h *DishHandler) List(w http.ResponseWriter, r *http.Request) {
	dishes, err := h.dishes.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, dishes)
}

// ListByMerchant lists a merchant's menu
func (h *DishHandler) ListByMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	dishes, err := h.dishes.ListByMerchant(r.Context(), merchantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, dishes)
}

// Get returns one dish
func (h *DishHandler) Get(w http.ResponseWriter, r *http.Request) {
	dishID, err := pathID(r, "dishId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	dish, err := h.dishes.GetByID(r.Context(), dishID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, dish)
}

// Create adds a dish
func (h *DishHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.DishCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	dish, err := h.dishes.Create(r.Context(), &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, dish)
}

// ToggleAvailability flips whether a dish can be ordered
func (h *DishHandler) ToggleAvailability(w http.ResponseWriter, r *http.Request) {
	dishID, err := pathID(r, "dishId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	dish, err := h.dishes.ToggleAvailability(r.Context(), dishID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, dish)
}

// Update replaces the editable fields of a dish
func (h *DishHandler) Update(w http.ResponseWriter, r *http.Request) {
	dishID, err := pathID(r, "dishId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req models.DishCreateRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	dish, err := h.dishes.Update(r.Context(), dishID, &req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, dish)
}

// Delete removes a dish
func (h *DishHandler) Delete(w http.ResponseWriter, r *http.Request) {
	dishID, err := pathID(r, "dishId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.dishes.Delete(r.Context(), dishID); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, nil)
}
