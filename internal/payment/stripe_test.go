package payment

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/goldendrop/storefront/pkg/errors"
	"github.com/goldendrop/storefront/pkg/httpclient"
)

func testClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := httpclient.SingleShotConfig()
	cfg.Timeout = 5 * time.Second
	cb := httpclient.NewCircuitBreakerClient(httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig("stripe-test-"+t.Name()), logger)
	return NewClient(cb, baseURL, "sk_test_abc",
		"https://goldendrop.si/success", "https://goldendrop.si/")
}

func TestCreateCheckoutSession_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_abc", r.Header.Get("Authorization"))
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "payment", r.PostForm.Get("mode"))
		assert.Equal(t, "https://goldendrop.si/success", r.PostForm.Get("success_url"))
		assert.Equal(t, "https://goldendrop.si/", r.PostForm.Get("cancel_url"))
		assert.Equal(t, "price_cvetlicni", r.PostForm.Get("line_items[0][price]"))
		assert.Equal(t, "2", r.PostForm.Get("line_items[0][quantity]"))
		assert.Equal(t, "price_lipov", r.PostForm.Get("line_items[1][price]"))
		assert.Equal(t, "1", r.PostForm.Get("line_items[1][quantity]"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"cs_test_123","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	session, err := client.CreateCheckoutSession(context.Background(), []LineItem{
		{PriceRef: "price_cvetlicni", Quantity: 2},
		{PriceRef: "price_lipov", Quantity: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", session.URL)
}

func TestCreateCheckoutSession_EmptyItems(t *testing.T) {
	client := testClient(t, "http://localhost:0")
	_, err := client.CreateCheckoutSession(context.Background(), nil)
	require.Error(t, err)
}

func TestCreateCheckoutSession_StripeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"No such price: 'price_missing'"}}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.CreateCheckoutSession(context.Background(), []LineItem{
		{PriceRef: "price_missing", Quantity: 1},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Contains(t, err.Error(), "No such price")
}

func TestCreateCheckoutSession_MissingSessionID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.CreateCheckoutSession(context.Background(), []LineItem{
		{PriceRef: "price_abc", Quantity: 1},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing id")
}

func TestCreateCheckoutSession_SingleAttempt(t *testing.T) {
	// The session call must reach Stripe exactly once even on failure.
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := testClient(t, server.URL)

	_, err := client.CreateCheckoutSession(context.Background(), []LineItem{
		{PriceRef: "price_abc", Quantity: 1},
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
