package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/goldendrop/storefront/internal/catalog"
	"github.com/goldendrop/storefront/pkg/httputil"
)

// CatalogHandler handles HTTP requests for the product catalog.
type CatalogHandler struct {
	catalog *catalog.Catalog
	logger  *slog.Logger
}

// NewCatalogHandler creates a new catalog HTTP handler.
func NewCatalogHandler(cat *catalog.Catalog, logger *slog.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalog: cat,
		logger:  logger,
	}
}

// ListProducts handles GET /api/v1/products?tags=Lipa,Hoja
// With no tags selected the full catalog is returned; with tags, products
// carrying at least one of them.
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var tags []string
	if raw := r.URL.Query().Get("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	products := catalog.Filter(h.catalog.Products(), tags)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: products})
}

// GetProduct handles GET /api/v1/products/{productID}
func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")

	product := h.catalog.Get(id)
	if product == nil {
		httputil.WriteJSON(w, http.StatusNotFound, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "NOT_FOUND", Message: "product " + id + " not found"},
		})
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: product})
}

// ListTags handles GET /api/v1/tags
func (h *CatalogHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: catalog.Tags(h.catalog.Products())})
}
