package sumup

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fakturo/fakturo/internal/payment/domain"
)

func newAdapter(t *testing.T, apiBase string) domain.PaymentProvider {
	t.Helper()
	adapter, err := NewFactory().NewAdapter(domain.AdapterConfig{
		OrgID: snowflake.ID(42),
		Config: map[string]any{
			"api_key":       "test_key",
			"merchant_code": "M1234",
			"api_base":      apiBase,
			"pay_base":      "https://pay.example.com",
		},
	})
	require.NoError(t, err)
	return adapter
}

func TestFactoryRequiresCredentials(t *testing.T) {
	_, err := NewFactory().NewAdapter(domain.AdapterConfig{Config: map[string]any{"api_key": "k"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))

	_, err = NewFactory().NewAdapter(domain.AdapterConfig{Config: map[string]any{"merchant_code": "M1234"}})
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestCreateCheckout(t *testing.T) {
	var captured createCheckoutBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v0.1/checkouts", r.URL.Path)
		assert.Equal(t, "Bearer test_key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id": "co_abc123", "status": "PENDING", "amount": 10.0, "currency": "EUR"}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	session, err := adapter.CreateCheckout(context.Background(), domain.CheckoutInput{
		InvoiceID:   snowflake.ID(1001),
		OrgID:       snowflake.ID(42),
		Amount:      10_00,
		Currency:    "EUR",
		Description: "Invoice INV-2026-00001",
	})
	require.NoError(t, err)

	assert.Equal(t, "co_abc123", session.ProviderPaymentID)
	assert.Equal(t, "https://pay.example.com/b2c/co_abc123", session.CheckoutURL)
	assert.Equal(t, "1001", captured.CheckoutReference)
	assert.Equal(t, 10.0, captured.Amount)
	assert.Equal(t, "M1234", captured.MerchantCode)
}

func TestParsePaidWebhook(t *testing.T) {
	adapter := newAdapter(t, "http://127.0.0.1:0")

	payload := []byte(`{
		"id": "evt_1",
		"event_type": "CHECKOUT_STATUS_CHANGED",
		"timestamp": "2026-08-27T10:00:00Z",
		"payload": {"id": "co_abc123", "reference": "1001", "status": "PAID"}
	}`)
	event, err := adapter.Parse(context.Background(), payload)
	require.NoError(t, err)

	assert.Equal(t, domain.EventTypePaymentSucceeded, event.Type)
	assert.Equal(t, "co_abc123", event.ProviderPaymentID)
	require.NotNil(t, event.InvoiceID)
	assert.Equal(t, snowflake.ID(1001), *event.InvoiceID)
}

func TestParseFailedWebhook(t *testing.T) {
	adapter := newAdapter(t, "http://127.0.0.1:0")

	event, err := adapter.Parse(context.Background(), []byte(`{"payload": {"id": "co_abc123", "status": "FAILED"}}`))
	require.NoError(t, err)
	assert.Equal(t, domain.EventTypePaymentFailed, event.Type)
}

func TestParseUnknownStatusIgnored(t *testing.T) {
	adapter := newAdapter(t, "http://127.0.0.1:0")

	_, err := adapter.Parse(context.Background(), []byte(`{"payload": {"id": "co_abc123", "status": "PENDING"}}`))
	assert.True(t, errors.Is(err, domain.ErrEventIgnored))
}

func TestParseRejectsGarbage(t *testing.T) {
	adapter := newAdapter(t, "http://127.0.0.1:0")

	_, err := adapter.Parse(context.Background(), []byte(`id=co_abc123`))
	assert.True(t, errors.Is(err, domain.ErrInvalidPayload))

	_, err = adapter.Parse(context.Background(), []byte(`{}`))
	assert.True(t, errors.Is(err, domain.ErrInvalidPayload))
}
