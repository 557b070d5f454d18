package handlers

import (
	"net/http"

	"campus-eats/internal/repositories"
)

// CartHandler serves the cart resource
type CartHandler struct {
	carts *repositories.CartRepository
}

// NewCartHandler creates a new cart handler
func NewCartHandler(carts *repositories.CartRepository) *CartHandler {
	return &CartHandler{carts: carts}
}

// GetByUser returns the user's cart
func (h *CartHandler) GetByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	cart, err := h.carts.GetByUserID(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, cart)
}

// Items lists the items of a cart
func (h *CartHandler) Items(w http.ResponseWriter, r *http.Request) {
	cartID, err := pathID(r, "cartId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := h.carts.Items(r.Context(), cartID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, items)
}

// AddItem adds ?dishId= in ?quantity= to the user's cart
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	dishID, err := queryID(r, "dishId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	quantity, err := queryInt(r, "quantity")
	if err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.carts.AddItem(r.Context(), userID, dishID, quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, item)
}

// UpdateItem sets the quantity of a cart item
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		respondError(w, r, err)
		return
	}
	quantity, err := queryInt(r, "quantity")
	if err != nil {
		respondError(w, r, err)
		return
	}

	item, err := h.carts.UpdateItem(r.Context(), itemID, quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, item)
}

// DeleteItem removes a cart item
func (h *CartHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carts.DeleteItem(r.Context(), itemID); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, nil)
}

// Clear empties the user's cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	if err := h.carts.Clear(r.Context(), userID); err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, nil)
}
