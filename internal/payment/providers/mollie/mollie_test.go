package mollie

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
			"api_key":  "test_key",
			"api_base": apiBase,
		},
	})
	require.NoError(t, err)
	return adapter
}

func TestFactoryRequiresAPIKey(t *testing.T) {
	_, err := NewFactory().NewAdapter(domain.AdapterConfig{Config: map[string]any{}})
	assert.True(t, errors.Is(err, domain.ErrInvalidConfig))
}

func TestCreateCheckout(t *testing.T) {
	var captured createPaymentBody
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/payments", r.URL.Path)
		assert.Equal(t, "Bearer test_key", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{
			"id": "tr_7UhSN1zuXS",
			"status": "open",
			"_links": {"checkout": {"href": "https://www.mollie.com/checkout/select-method/7UhSN1zuXS"}}
		}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	session, err := adapter.CreateCheckout(context.Background(), domain.CheckoutInput{
		InvoiceID:      snowflake.ID(1001),
		OrgID:          snowflake.ID(42),
		Amount:         10_00,
		Currency:       "EUR",
		Description:    "Invoice INV-2026-00001",
		RedirectURL:    "https://billing.example.com/invoices/1001",
		IdempotencyKey: "idem-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "tr_7UhSN1zuXS", session.ProviderPaymentID)
	assert.Equal(t, "https://www.mollie.com/checkout/select-method/7UhSN1zuXS", session.CheckoutURL)
	assert.Equal(t, "EUR", captured.Amount.Currency)
	assert.Equal(t, "10.00", captured.Amount.Value)
	assert.Equal(t, "1001", captured.Metadata["invoice_id"])
}

func TestCreateCheckoutProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	_, err := adapter.CreateCheckout(context.Background(), domain.CheckoutInput{Amount: 5_00, Currency: "EUR"})
	assert.True(t, errors.Is(err, domain.ErrProviderUnavailable))
}

func TestParseRefetchesPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/payments/tr_7UhSN1zuXS", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "tr_7UhSN1zuXS",
			"status": "paid",
			"paidAt": "2026-08-27T10:00:00+00:00",
			"amount": {"currency": "EUR", "value": "10.00"},
			"metadata": {"invoice_id": "1001", "org_id": "42"}
		}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	event, err := adapter.Parse(context.Background(), []byte("id=tr_7UhSN1zuXS"))
	require.NoError(t, err)

	assert.Equal(t, domain.EventTypePaymentSucceeded, event.Type)
	assert.Equal(t, "tr_7UhSN1zuXS", event.ProviderPaymentID)
	assert.Equal(t, "tr_7UhSN1zuXS:paid", event.ProviderEventID)
	assert.Equal(t, int64(10_00), event.Amount)
	require.NotNil(t, event.InvoiceID)
	assert.Equal(t, snowflake.ID(1001), *event.InvoiceID)
}

func TestParseIgnoresOpenPayment(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id": "tr_7UhSN1zuXS", "status": "open"}`))
	}))
	defer srv.Close()

	adapter := newAdapter(t, srv.URL)
	_, err := adapter.Parse(context.Background(), []byte("id=tr_7UhSN1zuXS"))
	assert.True(t, errors.Is(err, domain.ErrEventIgnored))
}

func TestParseRejectsEmptyPayload(t *testing.T) {
	adapter := newAdapter(t, "http://127.0.0.1:0")
	_, err := adapter.Parse(context.Background(), []byte(""))
	assert.True(t, errors.Is(err, domain.ErrInvalidPayload))
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "10.00", formatAmount(10_00))
	assert.Equal(t, "0.05", formatAmount(5))
	assert.Equal(t, "1234.56", formatAmount(1234_56))
	assert.Equal(t, "-3.20", formatAmount(-3_20))
}

func TestParseAmount(t *testing.T) {
	for raw, want := range map[string]int64{
		"10.00":   10_00,
		"0.05":    5,
		"1234.56": 1234_56,
		"7":       7_00,
	} {
		got, err := parseAmount(raw)
		assert.NoError(t, err)
		assert.Equal(t, want, got, raw)
	}
}
