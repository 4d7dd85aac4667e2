// Package sumup implements the SumUp hosted-checkout adapter.
//
// Checkouts are created with POST /v0.1/checkouts; the hosted payment page is
// addressed by checkout id under the pay host. SumUp webhooks are JSON bodies
// carrying the checkout id, event type and status.
package sumup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fakturo/fakturo/internal/payment/domain"
)

const (
	defaultAPIBase = "https://api.sumup.com"
	defaultPayBase = "https://pay.sumup.com"
)

type Factory struct{}

func NewFactory() *Factory { return &Factory{} }

func (f *Factory) Provider() string { return domain.ProviderSumUp }

func (f *Factory) NewAdapter(cfg domain.AdapterConfig) (domain.PaymentProvider, error) {
	apiKey, _ := cfg.Config["api_key"].(string)
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: sumup api_key missing", domain.ErrInvalidConfig)
	}
	merchantCode, _ := cfg.Config["merchant_code"].(string)
	if strings.TrimSpace(merchantCode) == "" {
		return nil, fmt.Errorf("%w: sumup merchant_code missing", domain.ErrInvalidConfig)
	}
	apiBase := defaultAPIBase
	if v, ok := cfg.Config["api_base"].(string); ok && strings.TrimSpace(v) != "" {
		apiBase = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	payBase := defaultPayBase
	if v, ok := cfg.Config["pay_base"].(string); ok && strings.TrimSpace(v) != "" {
		payBase = strings.TrimRight(strings.TrimSpace(v), "/")
	}
	return &Adapter{
		orgID:        cfg.OrgID,
		apiKey:       strings.TrimSpace(apiKey),
		merchantCode: strings.TrimSpace(merchantCode),
		apiBase:      apiBase,
		payBase:      payBase,
		client:       &http.Client{Timeout: 12 * time.Second},
	}, nil
}

type Adapter struct {
	orgID        snowflake.ID
	apiKey       string
	merchantCode string
	apiBase      string
	payBase      string
	client       *http.Client
}

type createCheckoutBody struct {
	CheckoutReference string  `json:"checkout_reference"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
	MerchantCode      string  `json:"merchant_code"`
	Description       string  `json:"description,omitempty"`
	ReturnURL         string  `json:"return_url,omitempty"`
}

type checkoutResponse struct {
	ID                string  `json:"id"`
	CheckoutReference string  `json:"checkout_reference"`
	Status            string  `json:"status"`
	Amount            float64 `json:"amount"`
	Currency          string  `json:"currency"`
}

func (a *Adapter) CreateCheckout(ctx context.Context, input domain.CheckoutInput) (domain.CheckoutSession, error) {
	body := createCheckoutBody{
		CheckoutReference: input.InvoiceID.String(),
		Amount:            float64(input.Amount) / 100,
		Currency:          input.Currency,
		MerchantCode:      a.merchantCode,
		Description:       input.Description,
		ReturnURL:         input.RedirectURL,
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.apiBase+"/v0.1/checkouts", bytes.NewReader(payload))
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
		return domain.CheckoutSession{}, fmt.Errorf("%w: sumup returned %d: %s", domain.ErrProviderUnavailable, resp.StatusCode, truncate(raw, 256))
	}

	var checkout checkoutResponse
	if err := json.Unmarshal(raw, &checkout); err != nil {
		return domain.CheckoutSession{}, fmt.Errorf("%w: %v", domain.ErrProviderUnavailable, err)
	}
	if checkout.ID == "" {
		return domain.CheckoutSession{}, fmt.Errorf("%w: sumup response missing checkout id", domain.ErrProviderUnavailable)
	}

	return domain.CheckoutSession{
		ProviderPaymentID: checkout.ID,
		CheckoutURL:       a.payBase + "/b2c/" + checkout.ID,
	}, nil
}

// Verify is a no-op: SumUp does not sign webhook payloads, the event body is
// reconciled against the stored payment before acting on it.
func (a *Adapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	return nil
}

type webhookBody struct {
	ID        string `json:"id"`
	EventType string `json:"event_type"`
	Timestamp string `json:"timestamp"`
	Payload   struct {
		ID        string `json:"id"`
		Reference string `json:"reference"`
		Status    string `json:"status"`
	} `json:"payload"`
}

func (a *Adapter) Parse(ctx context.Context, payload []byte) (*domain.PaymentEvent, error) {
	var hook webhookBody
	if err := json.Unmarshal(payload, &hook); err != nil {
		return nil, domain.ErrInvalidPayload
	}

	checkoutID := hook.Payload.ID
	if checkoutID == "" {
		checkoutID = hook.ID
	}
	if checkoutID == "" {
		return nil, domain.ErrInvalidPayload
	}

	eventType, ok := mapStatus(hook.Payload.Status, hook.EventType)
	if !ok {
		return nil, domain.ErrEventIgnored
	}

	event := &domain.PaymentEvent{
		Provider:          domain.ProviderSumUp,
		ProviderEventID:   checkoutID + ":" + eventType,
		ProviderPaymentID: checkoutID,
		Type:              eventType,
		OrgID:             a.orgID,
		OccurredAt:        time.Now().UTC(),
		RawPayload:        payload,
	}
	if hook.Payload.Reference != "" {
		if id, err := snowflake.ParseString(hook.Payload.Reference); err == nil {
			event.InvoiceID = &id
		}
	}
	if hook.Timestamp != "" {
		if ts, err := time.Parse(time.RFC3339, hook.Timestamp); err == nil {
			event.OccurredAt = ts.UTC()
		}
	}
	return event, nil
}

func mapStatus(status, eventType string) (string, bool) {
	switch strings.ToUpper(status) {
	case "PAID", "SUCCESSFUL":
		return domain.EventTypePaymentSucceeded, true
	case "FAILED", "CANCELLED":
		return domain.EventTypePaymentFailed, true
	case "EXPIRED":
		return domain.EventTypePaymentExpired, true
	}
	switch strings.ToUpper(eventType) {
	case "CHECKOUT_STATUS_CHANGED_PAID", "PAYMENT_SUCCESSFUL":
		return domain.EventTypePaymentSucceeded, true
	case "PAYMENT_FAILED":
		return domain.EventTypePaymentFailed, true
	}
	return "", false
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
