package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/goldendrop/storefront/internal/service"
	"github.com/goldendrop/storefront/pkg/httputil"
)

// CheckoutHandler handles HTTP requests for the checkout handoff.
type CheckoutHandler struct {
	service *service.CheckoutService
	logger  *slog.Logger
}

// NewCheckoutHandler creates a new checkout HTTP handler.
func NewCheckoutHandler(svc *service.CheckoutService, logger *slog.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		service: svc,
		logger:  logger,
	}
}

// CreateSessionRequest is the JSON request body for starting a checkout.
// Field-level validation happens in the service so configuration errors are
// reported first.
type CreateSessionRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	TestMode   bool   `json:"test_mode"`
}

// CreateSession handles POST /api/v1/checkout/session
func (h *CheckoutHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	result, err := h.service.CreateSession(r.Context(), token, service.CheckoutInput{
		Contact: service.ShippingContact{
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Email:      req.Email,
			Phone:      req.Phone,
			Address:    req.Address,
			City:       req.City,
			PostalCode: req.PostalCode,
			Country:    req.Country,
		},
		TestMode: req.TestMode,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: result})
}

// ReturnSuccess handles POST /api/v1/checkout/return/success. The hosted
// payment page redirected the shopper back after paying; the cart is cleared.
func (h *CheckoutHandler) ReturnSuccess(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	if err := h.service.ConfirmSuccess(r.Context(), token); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "completed"}})
}

// ReturnCancel handles POST /api/v1/checkout/return/cancel. Cancelling on the
// hosted page keeps the cart untouched; this is just an acknowledgement.
func (h *CheckoutHandler) ReturnCancel(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cancelled"}})
}
