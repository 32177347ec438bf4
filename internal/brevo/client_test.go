package brevo

import (
	"context"
	"encoding/json"
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

func testClient(t *testing.T, baseURL string, listIDs []int) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	cfg := httpclient.SingleShotConfig()
	cfg.Timeout = 5 * time.Second
	cb := httpclient.NewCircuitBreakerClient(httpclient.New(cfg),
		httpclient.DefaultCircuitBreakerConfig("brevo-test-"+t.Name()), logger)
	return NewClient(cb, baseURL, "xkeysib-test", listIDs)
}

func TestUpsertContact_NewContact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/contacts", r.URL.Path)
		assert.Equal(t, "xkeysib-test", r.Header.Get("api-key"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "nov@primer.si", body["email"])
		assert.Equal(t, true, body["updateEnabled"])

		attrs, ok := body["attributes"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "MED10", attrs["DISCOUNT_CODE"])
		assert.Equal(t, "website_popup", attrs["SOURCE"])
		assert.NotEmpty(t, attrs["SIGNUP_DATE"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, nil)

	result, err := client.UpsertContact(context.Background(), "nov@primer.si")
	require.NoError(t, err)
	assert.True(t, result.IsNew)
}

func TestUpsertContact_DuplicateTreatedAsUpdate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"duplicate_parameter","message":"Contact already exist"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, nil)

	result, err := client.UpsertContact(context.Background(), "obstojec@primer.si")
	require.NoError(t, err)
	assert.False(t, result.IsNew)
}

func TestUpsertContact_OtherBadRequestFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"invalid_parameter","message":"email is malformed"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, nil)

	_, err := client.UpsertContact(context.Background(), "zlomljen")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
	assert.Contains(t, err.Error(), "invalid_parameter")
}

func TestUpsertContact_SendsListIDs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []any{float64(2), float64(5)}, body["listIds"])
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, []int{2, 5})

	_, err := client.UpsertContact(context.Background(), "a@b.si")
	require.NoError(t, err)
}

func TestSendTemplateEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/smtp/email", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(7), body["templateId"])

		params, ok := body["params"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "MED10", params["DISCOUNT_CODE"])

		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"messageId":"m1"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, nil)

	err := client.SendTemplateEmail(context.Background(), 7, "a@b.si",
		map[string]any{"DISCOUNT_CODE": DiscountCode})
	require.NoError(t, err)
}

func TestSendTextEmail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		sender, ok := body["sender"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "GoldenDrop", sender["name"])
		assert.Equal(t, "narocila@goldendrop.si", sender["email"])
		assert.Contains(t, body["subject"], "Nova naročilnica")
		assert.Contains(t, body["textContent"], "SKUPAJ")

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := testClient(t, server.URL, nil)

	err := client.SendTextEmail(context.Background(),
		"GoldenDrop", "narocila@goldendrop.si", "cebelar@goldendrop.si",
		"Nova naročilnica - Janez Novak", "SKUPAJ: 41.80 €")
	require.NoError(t, err)
}

func TestSendTextEmail_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"unauthorized","message":"Key not found"}`))
	}))
	defer server.Close()

	client := testClient(t, server.URL, nil)

	err := client.SendTextEmail(context.Background(), "GoldenDrop", "n@g.si", "c@g.si", "s", "t")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrUpstream))
}
