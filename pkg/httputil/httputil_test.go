package httputil

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/goldendrop/storefront/pkg/errors"
	"github.com/goldendrop/storefront/pkg/validator"
)

func newTestSlog() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, Response{Data: map[string]string{"id": "cs_123"}})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "cs_123")
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("POST", "/api/v1/checkout/session", nil)

	WriteError(rec, r, apperrors.NotConfigured("stripe secret key"), nil)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_CONFIGURED", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "stripe secret key")
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/cart", nil)

	WriteError(rec, r, fmt.Errorf("load cart: %w", apperrors.ErrUpstream), nil)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "UPSTREAM_ERROR", resp.Error.Code)
}

func TestWriteError_Unknown(t *testing.T) {
	rec := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/api/v1/cart", nil)

	// Unknown errors map to 500 with a generic message; details stay in logs.
	WriteError(rec, r, fmt.Errorf("redis exploded"), newTestSlog())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	assert.NotContains(t, resp.Error.Message, "redis")
}

func TestWriteValidationError_FieldMap(t *testing.T) {
	type subscribeReq struct {
		Email string `validate:"required,email"`
	}

	err := validator.Validate(subscribeReq{Email: "nope"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "Email")
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, fmt.Errorf("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}
