package handlers

import (
	"net/http"

	"campus-eats/internal/models"
	"campus-eats/internal/repositories"
)

// OrderHandler serves the order and order-item resources
type OrderHandler struct {
	orders *repositories.OrderRepository
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orders *repositories.OrderRepository) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// Get returns one order with its items
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.orders.GetByID(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, order)
}

// ListByStatus lists the orders in one status
func (h *OrderHandler) ListByStatus(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByStatus(r.Context(), models.OrderStatus(pathParam(r, "status")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, orders)
}

// ListByMerchant lists the orders placed with a merchant
func (h *OrderHandler) ListByMerchant(w http.ResponseWriter, r *http.Request) {
	merchantID, err := pathID(r, "merchantId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	orders, err := h.orders.ListByMerchant(r.Context(), merchantID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, orders)
}

// ListByUser lists a user's orders
func (h *OrderHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	orders, err := h.orders.ListByUser(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, orders)
}

// Create turns the user's cart into an order
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.orders.CreateFromCart(r.Context(), userID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, order)
}

// UpdateStatus moves an order to {status}
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), orderID, models.OrderStatus(pathParam(r, "status")))
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, order)
}

// Cancel cancels an order
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	order, err := h.orders.Cancel(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, order)
}

// Items lists the items of an order
func (h *OrderHandler) Items(w http.ResponseWriter, r *http.Request) {
	orderID, err := pathID(r, "orderId")
	if err != nil {
		respondError(w, r, err)
		return
	}

	items, err := h.orders.Items(r.Context(), orderID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, items)
}

// AddItem adds ?dishId= in ?quantity= to the pending order ?orderId=
func (h *OrderHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	orderID, err := queryID(r, "orderId")
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

	item, err := h.orders.AddItem(r.Context(), orderID, dishID, quantity)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondOK(w, item)
}
