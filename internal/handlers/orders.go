package handlers

import (
	"net/http"
	"strings"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

type OrderHandler struct {
	Store *store.Store
}

func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request, userID int) {
	orders, err := h.Store.GetOrdersByUser(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) GetMine(w http.ResponseWriter, r *http.Request, userID int) {
	order, err := h.Store.GetOrderByID(r.Context(), r.PathValue("id"))
	if err != nil || order.UserID != userID {
		writeError(w, http.StatusNotFound, "Order not found.")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

type cancelRequest struct {
	Reason string `json:"reason"`
}

// RequestCancel files a cancellation request on the user's own order. The
// gate: order not Delivered/Cancelled and no request already on file. The
// store re-checks the same condition so a concurrent double submit is
// rejected rather than duplicated.
func (h *OrderHandler) RequestCancel(w http.ResponseWriter, r *http.Request, userID int) {
	order, err := h.Store.GetOrderByID(r.Context(), r.PathValue("id"))
	if err != nil || order.UserID != userID {
		writeError(w, http.StatusNotFound, "Order not found.")
		return
	}

	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		writeError(w, http.StatusBadRequest, "A cancellation reason is required.")
		return
	}
	if !order.CanRequestCancel() {
		writeError(w, http.StatusConflict, "This order cannot be cancelled.")
		return
	}

	if err := h.Store.CreateCancelRequest(r.Context(), order.ID, strings.TrimSpace(req.Reason)); err != nil {
		writeError(w, http.StatusConflict, "This order cannot be cancelled.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Cancellation requested. We'll get back to you shortly.")
}
