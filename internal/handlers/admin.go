package handlers

import (
	"net/http"
	"strconv"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

type AdminHandler struct {
	Store *store.Store
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching stats.")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.Store.GetDeliverySettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings.")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// SaveSettings overwrites the delivery settings wholesale, as the admin form
// submits the complete record.
func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var ds models.DeliverySettings
	if err := decodeJSON(r, &ds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if ds.BaseCharge < 0 || ds.PerKmCharge < 0 || ds.FreeDeliveryAbove < 0 {
		writeError(w, http.StatusBadRequest, "Charges cannot be negative.")
		return
	}
	if err := h.Store.SaveDeliverySettings(r.Context(), ds); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save settings.")
		return
	}
	writeJSON(w, http.StatusOK, ds)
}

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	const perPage = 20

	orders, err := h.Store.GetAllOrders(r.Context(), perPage, (page-1)*perPage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load orders.")
		return
	}
	total, err := h.Store.GetTotalOrdersCount(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load orders.")
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders":      orders,
		"page":        page,
		"total":       total,
		"total_pages": (total + perPage - 1) / perPage,
	})
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus moves an order along Ordered → Shipped → Out for Delivery →
// Delivered. Cancelled is reserved for the cancellation-request path.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	order, err := h.Store.GetOrderByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Order not found.")
		return
	}

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Status == models.StatusCancelled || !models.ValidStatusTransition(order.Status, req.Status) {
		writeError(w, http.StatusBadRequest, "Invalid status transition.")
		return
	}

	if err := h.Store.UpdateOrderStatus(r.Context(), order.ID, req.Status); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update order.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Order status updated.")
}

type resolveCancelRequest struct {
	Approve bool `json:"approve"`
}

func (h *AdminHandler) ResolveCancel(w http.ResponseWriter, r *http.Request) {
	var req resolveCancelRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.Store.ResolveCancelRequest(r.Context(), r.PathValue("id"), req.Approve); err != nil {
		writeError(w, http.StatusNotFound, "No pending cancellation request for this order.")
		return
	}
	if req.Approve {
		writeNotice(w, http.StatusOK, "success", "Order cancelled.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Cancellation request rejected.")
}
