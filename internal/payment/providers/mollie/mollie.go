// Package mollie implements the Mollie hosted-checkout adapter.
//
// Checkouts are created with POST /v2/payments; the hosted payment page URL
// comes back under _links.checkout.href. Mollie webhooks carry only a payment
// id as a form field, so Parse re-fetches the payment before mapping its
// status to a canonical event.
package mollie

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fakturo/fakturo/internal/payment/domain"
)

const defaultAPIBase = "https://api.mollie.com"

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Provider() string { return domain.ProviderMollie }

func (f *Factory) NewAdapter(cfg domain.AdapterConfig) (domain.PaymentProvider, error) {
	apiKey, _ := cfg.Config["api_key"].(string)
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: mollie api_key missing", domain.ErrInvalidConfig)
	}
	apiBase := defaultAPIBase
	if v, ok := cfg.Config["api_base"].(string); ok && strings.TrimSpace(v) != "" {
		apiBase = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	return &Adapter{
		orgID:   cfg.OrgID,
		apiKey:  strings.TrimSpace(apiKey),
		apiBase: apiBase,
		client:  &http.Client{Timeout: 12 * time.Second},
	}, nil
}

type Adapter struct {
	orgID   snowflake.ID
	apiKey  string
	apiBase string
	client  *http.Client
}

type amountBody struct {
	Currency string `json:"currency"`
	Value    string `json:"value"`
}

type createPaymentBody struct {
	Amount      amountBody        `json:"amount"`
	Description string            `json:"description"`
	RedirectURL string            `json:"redirectUrl"`
	WebhookURL  string            `json:"webhookUrl,omitempty"`
	Metadata    map[string]string `json:"metadata"`
}

type paymentResponse struct {
	ID       string            `json:"id"`
	Status   string            `json:"status"`
	PaidAt   string            `json:"paidAt"`
	Amount   amountBody        `json:"amount"`
	Metadata map[string]string `json:"metadata"`
	Links    struct {
		Checkout struct {
			Href string `json:"href"`
		} `json:"checkout"`
	} `json:"_links"`
}

func (a *Adapter) CreateCheckout(ctx context.Context, input domain.CheckoutInput) (domain.CheckoutSession, error) {
	body := createPaymentBody{
		Amount: amountBody{
			Currency: input.Currency,
			Value:    formatAmount(input.Amount),
		},
		Description: input.Description,
		RedirectURL: input.RedirectURL,
		WebhookURL:  input.WebhookURL,
		Metadata: map[string]string{
			"invoice_id": input.InvoiceID.String(),
			"org_id":     input.OrgID.String(),
		},
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiBase+"/v2/payments", bytes.NewReader(payload))
	if err != nil {
		return domain.CheckoutSession{}, err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	if input.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", input.IdempotencyKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.CheckoutSession{}, fmt.Errorf("%w: mollie returned %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, truncate(raw, 256))
	}

	var payment paymentResponse
	if err := json.Unmarshal(raw, &payment); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if payment.ID == "" || payment.Links.Checkout.Href == "" {
		return domain.CheckoutSession{}, fmt.Errorf("%w: mollie response missing checkout link", domain.ErrProviderUnavailable)
	}

	return domain.CheckoutSession{
		ProviderPaymentID: payment.ID,
		CheckoutURL:       payment.Links.Checkout.Href,
	}, nil
}

// Verify is a no-op: Mollie webhooks are unsigned and carry only a payment id,
// authenticity comes from re-fetching the payment with the org API key.
func (a *Adapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	return nil
}

func (a *Adapter) Parse(ctx context.Context, payload []byte) (*domain.PaymentEvent, error) {
	values, err := url.ParseQuery(string(payload))
	if err != nil {
		return nil, domain.ErrInvalidPayload
	}
	paymentID := strings.TrimSpace(values.Get("id"))
	if paymentID == "" {
		return nil, domain.ErrInvalidPayload
	}

	payment, err := a.fetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	eventType, ok := mapStatus(payment.Status)
	if !ok {
		return nil, domain.ErrEventIgnored
	}

	event := &domain.PaymentEvent{
		Provider:          domain.ProviderMollie,
		ProviderEventID:   payment.ID + ":" + payment.Status,
		ProviderPaymentID: payment.ID,
		Type:              eventType,
		OrgID:             a.orgID,
		Currency:          payment.Amount.Currency,
		OccurredAt:        time.Now().UTC(),
		RawPayload:        payload,
	}
	if v, err := parseAmount(payment.Amount.Value); err == nil {
		event.Amount = v
	}
	if raw, ok := payment.Metadata["invoice_id"]; ok {
		if id, err := snowflake.ParseString(raw); err == nil {
			event.InvoiceID = &id
		}
	}
	if payment.PaidAt != "" {
		if ts, err := time.Parse(time.RFC3339, payment.PaidAt); err == nil {
			event.OccurredAt = ts.UTC()
		}
	}
	return event, nil
}

func (a *Adapter) fetchPayment(ctx context.Context, paymentID string) (*paymentResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.apiBase+"/v2/payments/"+url.PathEscape(paymentID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.ErrInvalidEvent
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: mollie returned %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, truncate(raw, 256))
	}

	var payment paymentResponse
	if err := json.Unmarshal(raw, &payment); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	return &payment, nil
}

func mapStatus(status string) (string, bool) {
	switch status {
	case "paid":
		return domain.EventTypePaymentSucceeded, true
	case "failed", "canceled":
		return domain.EventTypePaymentFailed, true
	case "expired":
		return domain.EventTypePaymentExpired, true
	default:
		// open, pending, authorized: nothing to act on yet.
		return "", false
	}
}

// formatAmount renders minor units as the "10.00" decimal string Mollie
// expects.
func formatAmount(minor int64) string {
	sign := ""
	if minor < 0 {
		sign = "-"
		minor = -minor
	}
	return fmt.Sprintf("%s%d.%02d", sign, minor/100, minor%100)
}

func parseAmount(value string) (int64, error) {
	parts := strings.SplitN(strings.TrimSpace(value), ".", 2)
	major, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, err
	}
	var cents int64
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		cents, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, err
		}
	}
	if major < 0 {
		return major*100 - cents, nil
	}
	return major*100 + cents, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
