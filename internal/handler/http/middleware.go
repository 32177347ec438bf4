package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/goldendrop/storefront/pkg/httputil"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// cartTokenKey is the context key for the client cart token.
const cartTokenKey contextKey = "cart_token"

// CartTokenFromHeader is middleware that reads the X-Cart-Token header (an
// opaque token minted by the storefront client) and stores it in the request
// context. If the header is absent the request is rejected.
func CartTokenFromHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("X-Cart-Token")
		if token == "" {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "X-Cart-Token header is required"},
			})
			return
		}
		ctx := context.WithValue(r.Context(), cartTokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// cartTokenFromContext extracts the cart token from the request context.
func cartTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(cartTokenKey).(string)
	return token, ok && token != ""
}

// ContentTypeJSON enforces that requests with a body have Content-Type: application/json.
func ContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > 0 || r.Method == http.MethodPost || r.Method == http.MethodPut || r.Method == http.MethodPatch {
			ct := r.Header.Get("Content-Type")
			if ct != "" && !strings.HasPrefix(ct, "application/json") {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnsupportedMediaType)
				_, _ = w.Write([]byte(`{"error":{"code":"UNSUPPORTED_MEDIA_TYPE","message":"Content-Type must be application/json"}}`))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
