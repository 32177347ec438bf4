package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/goldendrop/storefront/pkg/errors"
)

// stripeErrorBody mirrors the error envelope returned by the Stripe API.
type stripeErrorBody struct {
	Error *struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// brevoErrorBody mirrors the flat error body returned by the Brevo API.
type brevoErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response from an
// external platform and translates it into an UPSTREAM_ERROR. Both the Stripe
// nested envelope and the Brevo flat body are recognized; anything else falls
// back to the raw body. The response body is fully consumed and closed.
//
// The caller should only invoke this when resp.StatusCode indicates an error
// (i.e., not 2xx).
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return apperrors.Upstream(serviceName,
			fmt.Errorf("status %d (failed to read body: %w)", resp.StatusCode, err))
	}

	// Stripe wraps errors in an "error" object.
	var stripe stripeErrorBody
	if json.Unmarshal(bodyBytes, &stripe) == nil && stripe.Error != nil && stripe.Error.Message != "" {
		return apperrors.Upstream(serviceName,
			fmt.Errorf("status %d (%s): %s", resp.StatusCode, stripe.Error.Type, stripe.Error.Message))
	}

	// Brevo returns a flat code/message body.
	var brevo brevoErrorBody
	if json.Unmarshal(bodyBytes, &brevo) == nil && brevo.Code != "" {
		return apperrors.Upstream(serviceName,
			fmt.Errorf("status %d (%s): %s", resp.StatusCode, brevo.Code, brevo.Message))
	}

	// Fallback: unstructured error body.
	return apperrors.Upstream(serviceName,
		fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
// Client errors indicate a malformed request and will not succeed on resubmit
// without correction.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
