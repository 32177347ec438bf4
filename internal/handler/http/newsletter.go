package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/goldendrop/storefront/internal/service"
	"github.com/goldendrop/storefront/pkg/httputil"
	"github.com/goldendrop/storefront/pkg/validator"
)

// NewsletterHandler handles HTTP requests for the signup popup and the
// contact upsert.
type NewsletterHandler struct {
	service *service.NewsletterService
	logger  *slog.Logger
}

// NewNewsletterHandler creates a new newsletter HTTP handler.
func NewNewsletterHandler(svc *service.NewsletterService, logger *slog.Logger) *NewsletterHandler {
	return &NewsletterHandler{
		service: svc,
		logger:  logger,
	}
}

// SubscribeRequest is the JSON request body for a newsletter signup.
type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// GetPrompt handles GET /api/v1/newsletter/prompt
func (h *NewsletterHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	prompt, err := h.service.GetPrompt(r.Context(), token)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: prompt})
}

// Decline handles POST /api/v1/newsletter/decline
func (h *NewsletterHandler) Decline(w http.ResponseWriter, r *http.Request) {
	token, _ := cartTokenFromContext(r.Context())

	if err := h.service.Decline(r.Context(), token); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "declined"}})
}

// Subscribe handles POST /api/v1/newsletter/subscribe. The visitor token is
// optional here: signups from the footer form work without the popup gate.
func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("X-Cart-Token")

	var req SubscribeRequest
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

	result, err := h.service.Subscribe(r.Context(), token, req.Email)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}
