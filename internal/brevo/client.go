package brevo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goldendrop/storefront/pkg/httpclient"
)

// DefaultAPIBaseURL is the Brevo API endpoint.
const DefaultAPIBaseURL = "https://api.brevo.com/v3"

// DiscountCode is the welcome discount handed to newsletter subscribers.
const DiscountCode = "MED10"

// contactRequest is the body of a contact create/update call.
type contactRequest struct {
	Email         string         `json:"email"`
	ListIDs       []int          `json:"listIds,omitempty"`
	Attributes    map[string]any `json:"attributes"`
	UpdateEnabled bool           `json:"updateEnabled"`
}

// emailAddress is a recipient or sender entry in a transactional email.
type emailAddress struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// UpsertResult reports whether the contact was newly created or already
// existed (Brevo answers `duplicate_parameter` for existing contacts even
// with updateEnabled set).
type UpsertResult struct {
	IsNew bool
}

// Client talks to the Brevo contacts and transactional email APIs.
type Client struct {
	http    *httpclient.CircuitBreakerClient
	baseURL string
	apiKey  string
	listIDs []int
}

// NewClient creates a Brevo client. baseURL is overridable for tests.
func NewClient(http *httpclient.CircuitBreakerClient, baseURL, apiKey string, listIDs []int) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIBaseURL
	}
	return &Client{
		http:    http,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		listIDs: listIDs,
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", path, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", path, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	return c.http.Do(ctx, req)
}

// UpsertContact creates the contact with the MED10 signup attributes, or
// updates it when it already exists. A 400 with code `duplicate_parameter`
// counts as a successful update, not an error.
func (c *Client) UpsertContact(ctx context.Context, email string) (*UpsertResult, error) {
	body := contactRequest{
		Email:   email,
		ListIDs: c.listIDs,
		Attributes: map[string]any{
			"DISCOUNT_CODE": DiscountCode,
			"SIGNUP_DATE":   time.Now().UTC().Format("2006-01-02"),
			"SOURCE":        "website_popup",
		},
		UpdateEnabled: true,
	}

	resp, err := c.postJSON(ctx, "/contacts", body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
		return &UpsertResult{IsNew: true}, nil
	}

	if resp.StatusCode == http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		_ = resp.Body.Close()

		var apiErr struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Code == "duplicate_parameter" {
			return &UpsertResult{IsNew: false}, nil
		}

		resp.Body = io.NopCloser(bytes.NewReader(raw))
	}

	return nil, httpclient.ParseResponseError(resp, "brevo")
}

// SendTemplateEmail sends a templated transactional email (the welcome email
// carrying the discount code).
func (c *Client) SendTemplateEmail(ctx context.Context, templateID int, to string, params map[string]any) error {
	body := map[string]any{
		"templateId": templateID,
		"to":         []emailAddress{{Email: to}},
		"params":     params,
	}

	resp, err := c.postJSON(ctx, "/smtp/email", body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "brevo")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}

// SendTextEmail sends a plain-text transactional email (the order
// notification to the beekeeper).
func (c *Client) SendTextEmail(ctx context.Context, senderName, senderEmail, to, subject, text string) error {
	body := map[string]any{
		"sender":      emailAddress{Name: senderName, Email: senderEmail},
		"to":          []emailAddress{{Email: to}},
		"subject":     subject,
		"textContent": text,
	}

	resp, err := c.postJSON(ctx, "/smtp/email", body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return httpclient.ParseResponseError(resp, "brevo")
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	_ = resp.Body.Close()
	return nil
}
