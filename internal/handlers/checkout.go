package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/vish0020/Onlinemart--sub000/internal/checkout"
	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/payment"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

type CheckoutHandler struct {
	Store     *store.Store
	Submitter *checkout.Submitter
	Payments  *payment.Manager
}

type quoteRequest struct {
	AddressID int `json:"address_id"`
}

func (h *CheckoutHandler) loadAddress(ctx context.Context, userID, addressID int) (*models.Address, error) {
	if addressID == 0 {
		// Fall back to the default address when none was chosen.
		addrs, err := h.Store.GetAddresses(ctx, userID)
		if err != nil {
			return nil, err
		}
		for i := range addrs {
			if addrs[i].IsDefault {
				return &addrs[i], nil
			}
		}
		return nil, store.ErrNotFound
	}
	return h.Store.GetAddressByID(ctx, userID, addressID)
}

// Quote prices the current cart against the chosen address.
func (h *CheckoutHandler) Quote(w http.ResponseWriter, r *http.Request, userID int) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	addr, err := h.loadAddress(r.Context(), userID, req.AddressID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please select a delivery address.")
		return
	}

	quote, err := h.Submitter.BuildQuote(r.Context(), userID, addr)
	if errors.Is(err, checkout.ErrEmptyCart) {
		writeError(w, http.StatusBadRequest, "Your cart is empty.")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to price your order.")
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

type placeOrderRequest struct {
	AddressID int `json:"address_id"`
}

// PlaceCOD is the cash-on-delivery path: no payment session, immediate
// submission.
func (h *CheckoutHandler) PlaceCOD(w http.ResponseWriter, r *http.Request, userID int) {
	var req placeOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	addr, err := h.loadAddress(r.Context(), userID, req.AddressID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please select a delivery address.")
		return
	}

	quote, err := h.Submitter.BuildQuote(r.Context(), userID, addr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Your cart is empty.")
		return
	}

	order, err := h.Submitter.Submit(r.Context(), checkout.Draft{
		UserID:        userID,
		Quote:         quote,
		Address:       snapshotAddress(addr),
		PaymentMethod: models.PaymentCOD,
	})
	if errors.Is(err, checkout.ErrCODDisabled) {
		writeError(w, http.StatusBadRequest, "Cash on delivery is currently unavailable.")
		return
	}
	if errors.Is(err, store.ErrInsufficientStock) {
		writeError(w, http.StatusConflict, "Some items are out of stock.")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to place order. Please try again.")
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

type paymentSessionRequest struct {
	AddressID int `json:"address_id"`
}

// CreatePaymentSession opens the online-payment flow. The quote is frozen
// into the session's submit callback; verification success submits the order
// with the unique payable amount as the verified amount.
func (h *CheckoutHandler) CreatePaymentSession(w http.ResponseWriter, r *http.Request, userID int) {
	var req paymentSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	addr, err := h.loadAddress(r.Context(), userID, req.AddressID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Please select a delivery address.")
		return
	}

	quote, err := h.Submitter.BuildQuote(r.Context(), userID, addr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Your cart is empty.")
		return
	}

	snapshot := snapshotAddress(addr)
	session, err := h.Payments.Create(quote.Total, func(verifiedAmount float64) (string, error) {
		order, err := h.Submitter.Submit(context.Background(), checkout.Draft{
			UserID:        userID,
			Quote:         quote,
			Address:       snapshot,
			PaymentMethod: models.PaymentOnline,
			Payment: &models.PaymentDetails{
				PayeeVPA:       h.Payments.PayeeVPA(),
				VerifiedAmount: verifiedAmount,
			},
		})
		if err != nil {
			return "", err
		}
		return order.ID, nil
	})
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "Unable to start payment. Please try again.")
		return
	}
	writeJSON(w, http.StatusCreated, session.Status())
}

func (h *CheckoutHandler) session(w http.ResponseWriter, r *http.Request) (*payment.Session, bool) {
	s, err := h.Payments.Get(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Payment session not found.")
		return nil, false
	}
	return s, true
}

func (h *CheckoutHandler) GetPaymentSession(w http.ResponseWriter, r *http.Request, userID int) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

func (h *CheckoutHandler) SessionQR(w http.ResponseWriter, r *http.Request, userID int) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.ChooseQR(); err != nil {
		writeError(w, http.StatusConflict, "Cannot show QR right now.")
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

func (h *CheckoutHandler) SessionBack(w http.ResponseWriter, r *http.Request, userID int) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.BackToSelection(); err != nil {
		writeError(w, http.StatusConflict, "Cannot go back right now.")
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

type sessionAppRequest struct {
	App string `json:"app"`
}

func (h *CheckoutHandler) SessionApp(w http.ResponseWriter, r *http.Request, userID int) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	var req sessionAppRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	link, err := s.ChooseApp(req.App)
	if err != nil {
		writeError(w, http.StatusConflict, "Cannot open payment app right now.")
		return
	}
	st := s.Status()
	writeJSON(w, http.StatusOK, map[string]any{"deep_link": link, "session": st})
}

func (h *CheckoutHandler) SessionVisible(w http.ResponseWriter, r *http.Request, userID int) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := s.PageVisible(); err != nil {
		writeError(w, http.StatusConflict, "Nothing to confirm right now.")
		return
	}
	writeJSON(w, http.StatusOK, s.Status())
}

func (h *CheckoutHandler) DismissSession(w http.ResponseWriter, r *http.Request, userID int) {
	if err := h.Payments.Dismiss(r.PathValue("id")); err != nil {
		writeError(w, http.StatusNotFound, "Payment session not found.")
		return
	}
	writeNotice(w, http.StatusOK, "info", "Payment cancelled.")
}

func snapshotAddress(a *models.Address) models.AddressSnapshot {
	return models.AddressSnapshot{
		Name:       a.Name,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		Pincode:    a.Pincode,
		DistanceKm: a.DistanceKm,
	}
}
