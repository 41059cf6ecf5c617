package handlers

import (
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
	"github.com/vish0020/Onlinemart--sub000/internal/models"
	"github.com/vish0020/Onlinemart--sub000/internal/store"
)

// AdminCatalogHandler manages products and banners from the back office.
type AdminCatalogHandler struct {
	Store     *store.Store
	UploadDir string
}

func validateProduct(p *models.Product) string {
	switch {
	case strings.TrimSpace(p.Name) == "":
		return "Product name is required."
	case p.Price <= 0:
		return "Price must be positive."
	case p.Stock < 0:
		return "Stock cannot be negative."
	}
	return ""
}

func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.SearchProducts(r.Context(), "", "")
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load products.")
		return
	}
	if products == nil {
		products = []models.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if msg := validateProduct(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.Store.CreateProduct(r.Context(), &p); err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving product.")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	var p models.Product
	if err := decodeJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	p.ID = id
	if msg := validateProduct(&p); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if err := h.Store.UpdateProduct(r.Context(), &p); err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving product.")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	if err := h.Store.DeleteProduct(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting product.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Product deleted.")
}

// UploadProductImage accepts a multipart upload, resizes it to a max width of
// 800px, re-encodes as JPEG, and stores it under the upload directory.
func (h *AdminCatalogHandler) UploadProductImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID.")
		return
	}
	imageURL, ok := h.saveUpload(w, r)
	if !ok {
		return
	}
	if err := h.Store.UpdateProductImage(r.Context(), id, imageURL); err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving image.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": imageURL})
}

func (h *AdminCatalogHandler) ListBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.Store.GetBanners(r.Context(), false)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load banners.")
		return
	}
	if banners == nil {
		banners = []models.Banner{}
	}
	writeJSON(w, http.StatusOK, banners)
}

func (h *AdminCatalogHandler) CreateBanner(w http.ResponseWriter, r *http.Request) {
	var b models.Banner
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	if err := h.Store.CreateBanner(r.Context(), &b); err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving banner.")
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (h *AdminCatalogHandler) UpdateBanner(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid banner ID.")
		return
	}
	var b models.Banner
	if err := decodeJSON(r, &b); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}
	b.ID = id
	if err := h.Store.UpdateBanner(r.Context(), &b); err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving banner.")
		return
	}
	writeJSON(w, http.StatusOK, b)
}

func (h *AdminCatalogHandler) DeleteBanner(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid banner ID.")
		return
	}
	if err := h.Store.DeleteBanner(r.Context(), id); err != nil {
		writeError(w, http.StatusInternalServerError, "Error deleting banner.")
		return
	}
	writeNotice(w, http.StatusOK, "success", "Banner deleted.")
}

func (h *AdminCatalogHandler) UploadBannerImage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid banner ID.")
		return
	}
	imageURL, ok := h.saveUpload(w, r)
	if !ok {
		return
	}
	if err := h.Store.UpdateBannerImage(r.Context(), id, imageURL); err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving image.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": imageURL})
}

// saveUpload handles the shared multipart decode / resize / encode pipeline.
// On failure it writes the error response itself and returns ok=false.
func (h *AdminCatalogHandler) saveUpload(w http.ResponseWriter, r *http.Request) (string, bool) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10MB
		writeError(w, http.StatusBadRequest, "File too large. Max 10MB.")
		return "", false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "Image file is required.")
		return "", false
	}
	defer file.Close()

	var img image.Image
	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".png":
		img, err = png.Decode(file)
	case ".jpeg", ".jpg":
		img, err = jpeg.Decode(file)
	default:
		writeError(w, http.StatusBadRequest, "Unsupported image format. Only PNG, JPG, JPEG are allowed.")
		return "", false
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to decode image.")
		return "", false
	}

	// Resize image (max width 800px, preserve aspect ratio)
	newImage := resize.Resize(800, 0, img, resize.Lanczos3)

	filename := fmt.Sprintf("%s.jpg", uuid.New().String())
	uploadPath := filepath.Join(h.UploadDir, filename)

	out, err := os.Create(uploadPath)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error saving image file.")
		return "", false
	}
	defer out.Close()

	if err := jpeg.Encode(out, newImage, &jpeg.Options{Quality: 80}); err != nil {
		writeError(w, http.StatusInternalServerError, "Error encoding image.")
		return "", false
	}

	return "/static/uploads/" + filename, true
}
