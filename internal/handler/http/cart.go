package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/goldendrop/storefront/internal/service"
	"github.com/goldendrop/storefront/pkg/httputil"
	"github.com/goldendrop/storefront/pkg/validator"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	service *service.CartService
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(svc *service.CartService, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		service: svc,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding a jar to the cart.
// Weight 0 resolves to the product's default tier.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Weight    int    `json:"weight" validate:"gte=0"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest carries the signed delta for a cart line.
type UpdateQuantityRequest struct {
	Delta int `json:"delta" validate:"required"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	cart, err := h.service.GetCart(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	cart, err := h.service.AddItem(r.Context(), token, service.AddItemInput{
		ProductID: req.ProductID,
		Weight:    req.Weight,
		Quantity:  req.Quantity,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// UpdateQuantity handles PATCH /api/v1/cart/items/{productID}/{weight}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	productID, weight, ok := lineParams(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	cart, err := h.service.UpdateQuantity(r.Context(), token, productID, weight, req.Delta)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// RemoveLine handles DELETE /api/v1/cart/items/{productID}/{weight}
func (h *CartHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	productID, weight, ok := lineParams(w, r)
	if !ok {
		return
	}

	cart, err := h.service.RemoveLine(r.Context(), token, productID, weight)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	if err := h.service.ClearCart(r.Context(), token); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

// GetSummary handles GET /api/v1/cart/summary
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	summary, err := h.service.Summarize(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

func lineParams(w http.ResponseWriter, r *http.Request) (productID string, weight int, ok bool) {
	productID = chi.URLParam(r, "productID")
	weightParam := chi.URLParam(r, "weight")

	weight, err := strconv.Atoi(weightParam)
	if productID == "" || err != nil || weight <= 0 {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "productID and a positive weight are required"},
		})
		return "", 0, false
	}
	return productID, weight, true
}
