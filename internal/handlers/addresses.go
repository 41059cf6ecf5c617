package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vish0020/Onlinemart--sub000/internal/geo"
	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

type AddressHandler struct {
	Store    *store.Store
	Geocoder geo.Geocoder
	Router   geo.Router
}

func (h *AddressHandler) List(w http.ResponseWriter, r *http.Request, userID int) {
	addrs, err := h.Store.GetAddresses(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load addresses.")
		return
	}
	if addrs == nil {
		addrs = []models.Address{}
	}
	writeJSON(w, http.StatusOK, addrs)
}

func validateAddress(a *models.Address) string {
	switch {
	case strings.TrimSpace(a.Name) == "":
		return "Recipient name is required."
	case strings.TrimSpace(a.Phone) == "":
		return "Phone number is required."
	case strings.TrimSpace(a.Line1) == "":
		return "Address line is required."
	case strings.TrimSpace(a.City) == "":
		return "City is required."
	case strings.TrimSpace(a.Pincode) == "":
		return "Pincode is required."
	}
	return ""
}

func (h *AddressHandler) Create(w http.ResponseWriter, r *http.Request, userID int) {
	var a models.Address
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	a.ID = 0
	a.UserID = userID
	if msg := validateAddress(&a); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.resolveDistance(r, &a)
	if err := h.Store.SaveAddress(r.Context(), &a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save address.")
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *AddressHandler) Update(w http.ResponseWriter, r *http.Request, userID int) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid address ID.")
		return
	}
	if _, err := h.Store.GetAddressByID(r.Context(), userID, id); err != nil {
		writeError(w, http.StatusNotFound, "Address not found.")
		return
	}

	var a models.Address
	if err := decodeJSON(r, &a); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	a.ID = id
	a.UserID = userID
	if msg := validateAddress(&a); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	h.resolveDistance(r, &a)
	if err := h.Store.SaveAddress(r.Context(), &a); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save address.")
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *AddressHandler) Delete(w http.ResponseWriter, r *http.Request, userID int) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid address ID.")
		return
	}
	if err := h.Store.DeleteAddress(r.Context(), userID, id); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete address.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Address deleted.")
}

// Locate geocodes the address text to a coordinate and recomputes its
// distance from the store. Geocoding failure is a soft error: the address
// keeps working with the fallback distance.
func (h *AddressHandler) Locate(w http.ResponseWriter, r *http.Request, userID int) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid address ID.")
		return
	}
	a, err := h.Store.GetAddressByID(r.Context(), userID, id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Address not found.")
		return
	}
	if h.Geocoder == nil {
		writeError(w, http.StatusServiceUnavailable, "Location service unavailable.")
		return
	}

	query := strings.Join([]string{a.Line1, a.City, a.State, a.Pincode}, ", ")
	coord, err := h.Geocoder.Forward(r.Context(), query)
	if err != nil {
		writeNotice(w, http.StatusOK, "info", "Could not locate this address; using standard delivery distance.")
		return
	}

	settings, err := h.Store.GetDeliverySettings(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load settings.")
		return
	}
	origin := geo.Coord{Lat: settings.StoreLat, Lng: settings.StoreLng}
	km := geo.DistanceKm(r.Context(), h.Router, origin, coord)

	if err := h.Store.SetAddressLocation(r.Context(), userID, id, coord.Lat, coord.Lng, km); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save location.")
		return
	}
	a.Lat, a.Lng, a.DistanceKm = &coord.Lat, &coord.Lng, &km
	writeJSON(w, http.StatusOK, a)
}

// resolveDistance fills in the distance when the client supplied a
// coordinate (map picker) but no distance.
func (h *AddressHandler) resolveDistance(r *http.Request, a *models.Address) {
	if a.Lat == nil || a.Lng == nil || a.DistanceKm != nil {
		return
	}
	settings, err := h.Store.GetDeliverySettings(r.Context())
	if err != nil {
		return
	}
	origin := geo.Coord{Lat: settings.StoreLat, Lng: settings.StoreLng}
	km := geo.DistanceKm(r.Context(), h.Router, origin, geo.Coord{Lat: *a.Lat, Lng: *a.Lng})
	a.DistanceKm = &km
}
