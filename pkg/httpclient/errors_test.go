package httpclient

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/goldendrop/storefront/pkg/errors"
)

// makeResponse creates an *http.Response with the given status code and body string.
func makeResponse(statusCode int, body string) *http.Response {
	return &http.Response{
		StatusCode: statusCode,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestParseResponseError_StripeEnvelope(t *testing.T) {
	body := `{"error":{"type":"invalid_request_error","code":"resource_missing","message":"No such price: 'price_xyz'"}}`
	resp := makeResponse(http.StatusBadRequest, body)

	err := ParseResponseError(resp, "stripe")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, http.StatusBadGateway, appErr.Status)
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Contains(t, err.Error(), "No such price")
}

func TestParseResponseError_BrevoFlatBody(t *testing.T) {
	body := `{"code":"invalid_parameter","message":"email is malformed"}`
	resp := makeResponse(http.StatusBadRequest, body)

	err := ParseResponseError(resp, "brevo")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "UPSTREAM_ERROR", appErr.Code)
	assert.Contains(t, err.Error(), "invalid_parameter")
	assert.Contains(t, err.Error(), "email is malformed")
}

func TestParseResponseError_UnstructuredBody(t *testing.T) {
	resp := makeResponse(http.StatusBadGateway, "upstream timed out")

	err := ParseResponseError(resp, "stripe")
	require.Error(t, err)

	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Contains(t, err.Error(), "status 502")
	assert.Contains(t, err.Error(), "upstream timed out")
}

func TestParseResponseError_EmptyBody(t *testing.T) {
	resp := makeResponse(http.StatusInternalServerError, "")

	err := ParseResponseError(resp, "brevo")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}

func TestIsClientError(t *testing.T) {
	assert.True(t, IsClientError(http.StatusBadRequest))
	assert.True(t, IsClientError(http.StatusUnprocessableEntity))
	assert.False(t, IsClientError(http.StatusOK))
	assert.False(t, IsClientError(http.StatusInternalServerError))
}
