package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

type CatalogHandler struct {
	Store *store.Store
}

// ListProducts backs the home grid and search-as-you-type: ?q= filters by
// name/description, ?category= narrows to one category.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	products, err := h.Store.SearchProducts(r.Context(), q, category)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load products.")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	product, err := h.Store.GetProductByID(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusNotFound, "Product not found.")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Store.Categories(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load categories.")
		return
	}
	if cats == nil {
		cats = []string{}
	}
	writeJSON(w, http.StatusOK, cats)
}

func (h *CatalogHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.Store.GetBanners(r.Context(), true)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load banners.")
		return
	}
	if banners == nil {
		banners = []models.Banner{}
	}
	writeJSON(w, http.StatusOK, banners)
}

func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	reviews, err := h.Store.GetReviews(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load reviews.")
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}
	writeJSON(w, http.StatusOK, reviews)
}

type reviewRequest struct {
	Rating int    `json:"rating"`
	Text   string `json:"text"`
}

func (h *CatalogHandler) CreateReview(w http.ResponseWriter, r *http.Request, userID int) {
	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}

	var req reviewRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "Rating must be between 1 and 5.")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "Review text is required.")
		return
	}

	user, err := h.Store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save review.")
		return
	}

	review := &models.Review{
		ProductID: productID,
		UserID:    userID,
		UserName:  user.Name,
		Rating:    req.Rating,
		Text:      strings.TrimSpace(req.Text),
	}
	if err := h.Store.CreateReview(r.Context(), review); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save review.")
		return
	}
	if err := h.Store.AddRating(r.Context(), productID, req.Rating); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update product rating.")
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *CatalogHandler) GetWishlist(w http.ResponseWriter, r *http.Request, userID int) {
	products, err := h.Store.GetWishlist(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load wishlist.")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) AddToWishlist(w http.ResponseWriter, r *http.Request, userID int) {
	productID, err := strconv.Atoi(r.PathValue("productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	if err := h.Store.AddToWishlist(r.Context(), userID, productID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update wishlist.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Added to wishlist.")
}

func (h *CatalogHandler) RemoveFromWishlist(w http.ResponseWriter, r *http.Request, userID int) {
	productID, err := strconv.Atoi(r.PathValue("productID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	if err := h.Store.RemoveFromWishlist(r.Context(), userID, productID); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update wishlist.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Removed from wishlist.")
}
