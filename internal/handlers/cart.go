package handlers

import (
	"net/http"
	"strconv"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

type CartHandler struct {
	Store *store.Store
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request, userID int) {
	items, err := h.Store.GetCart(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load cart.")
		return
	}
	if items == nil {
		items = []models.CartItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

type cartRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// SetItem upserts a cart line. The quantity is capped at available stock so
// the cart never promises more than the shelf holds; the authoritative check
// still happens at submission.
func (h *CartHandler) SetItem(w http.ResponseWriter, r *http.Request, userID int) {
	var req cartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	product, err := h.Store.GetProductByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found.")
		return
	}
	if req.Quantity > product.Stock {
		req.Quantity = product.Stock
	}

	if err := h.Store.SetCartItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update cart.")
		return
	}
	h.GetCart(w, r, userID)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request, userID int) {
	productID, err := strconv.Atoi(r.PathValue("productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	if err := h.Store.RemoveCartItem(r.Context(), userID, productID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update cart.")
		return
	}
	h.GetCart(w, r, userID)
}
