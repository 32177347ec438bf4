package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goldendrop/storefront/pkg/httpclient"
)

// DefaultAPIBaseURL is the Stripe API endpoint.
const DefaultAPIBaseURL = "https://api.stripe.com"

// LineItem is one (price reference, quantity) pair sent to the checkout
// session API.
type LineItem struct {
	PriceRef string `json:"priceId"`
	Quantity int    `json:"quantity"`
}

// Session is the subset of the Stripe checkout session the storefront needs:
// the session id for the client-side redirect and the hosted payment URL.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Client creates Stripe checkout sessions. Calls go through the circuit
// breaker and are never retried; a failed session creation surfaces to the
// user, who can resubmit.
type Client struct {
	http       *httpclient.CircuitBreakerClient
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
}

// NewClient creates a Stripe client. baseURL is overridable for tests.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL, secretKey, successURL, cancelURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &Client{
		http:       http,
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
	}
}

// CreateCheckoutSession posts a payment-mode checkout session with the given
// line items. The Stripe API takes form-encoded bodies with indexed
// line_items keys.
func (c *Client) CreateCheckoutSession(ctx context.Context, items []LineItem) (*Session, error) {
	if len(items) == 0 {
		return nil, fmt.Errorf("create checkout session: no line items")
	}

	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", c.successURL)
	form.Set("cancel_url", c.cancelURL)
	for i, item := range items {
		form.Set(fmt.Sprintf("line_items[%d][price]", i), item.PriceRef)
		form.Set(fmt.Sprintf("line_items[%d][quantity]", i), strconv.Itoa(item.Quantity))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create checkout session request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpclient.ParseResponseError(resp, "stripe")
	}
	defer func() { _ = resp.Body.Close() }()

	var session Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("decode checkout session: %w", err)
	}
	if session.ID == "" {
		return nil, fmt.Errorf("checkout session response missing id")
	}

	return &session, nil
}
