// Package domain contains the payment records and the provider capability
// consumed by the payment-link and webhook flows.
package domain

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

const (
	ProviderMollie = "mollie"
	ProviderSumUp  = "sumup"
)

// PaymentStatus represents payment lifecycle states.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPaid    PaymentStatus = "PAID"
	PaymentStatusFailed  PaymentStatus = "FAILED"
	PaymentStatusExpired PaymentStatus = "EXPIRED"
)

// Payment records a provider checkout created for an invoice.
type Payment struct {
	ID                snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID             snowflake.ID  `gorm:"not null;index" json:"org_id"`
	InvoiceID         snowflake.ID  `gorm:"not null;index" json:"invoice_id"`
	Provider          string        `gorm:"type:text;not null" json:"provider"`
	ProviderPaymentID string        `gorm:"type:text;not null;uniqueIndex:ux_payments_provider_payment" json:"provider_payment_id"`
	Status            PaymentStatus `gorm:"type:text;not null;default:'PENDING'" json:"status"`
	Amount            int64         `gorm:"not null" json:"amount"`
	Currency          string        `gorm:"type:text;not null" json:"currency"`
	CheckoutURL       string        `gorm:"type:text" json:"checkout_url"`
	CreatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Payment) TableName() string { return "payments" }

// EventRecord stores a received webhook event for idempotent processing.
type EventRecord struct {
	ID              snowflake.ID   `json:"id" gorm:"primaryKey"`
	OrgID           snowflake.ID   `json:"org_id" gorm:"not null;index"`
	Provider        string         `json:"provider" gorm:"type:text;not null;uniqueIndex:ux_payment_events_provider_event,priority:1"`
	ProviderEventID string         `json:"provider_event_id" gorm:"type:text;not null;uniqueIndex:ux_payment_events_provider_event,priority:2"`
	EventType       string         `json:"event_type" gorm:"type:text;not null"`
	Payload         datatypes.JSON `json:"payload" gorm:"type:jsonb;not null"`
	ReceivedAt      time.Time      `json:"received_at" gorm:"not null"`
	ProcessedAt     *time.Time     `json:"processed_at"`
}

// TableName sets the database table name.
func (EventRecord) TableName() string { return "payment_events" }

const (
	EventTypePaymentSucceeded = "payment_succeeded"
	EventTypePaymentFailed    = "payment_failed"
	EventTypePaymentExpired   = "payment_expired"
)

// PaymentEvent is the canonical payment event parsed by provider adapters.
type PaymentEvent struct {
	Provider          string
	ProviderEventID   string
	ProviderPaymentID string
	Type              string
	OrgID             snowflake.ID
	Amount            int64
	Currency          string
	OccurredAt        time.Time
	RawPayload        []byte
	InvoiceID         *snowflake.ID
}

// CheckoutInput carries everything an adapter needs to create a hosted
// checkout for an invoice.
type CheckoutInput struct {
	InvoiceID      snowflake.ID
	InvoiceNumber  string
	OrgID          snowflake.ID
	Amount         int64
	Currency       string
	Description    string
	RedirectURL    string
	WebhookURL     string
	IdempotencyKey string
}

// CheckoutSession is the provider's answer to a checkout request.
type CheckoutSession struct {
	ProviderPaymentID string
	CheckoutURL       string
}

// AdapterConfig carries the organization-scoped provider credentials.
type AdapterConfig struct {
	OrgID  snowflake.ID
	Config map[string]any
}

// PaymentProvider is the capability every payment gateway integration
// implements. Unknown provider identifiers never reach an adapter; the
// registry rejects them with ErrProviderNotFound.
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, input CheckoutInput) (CheckoutSession, error)
	Verify(ctx context.Context, payload []byte, headers http.Header) error
	Parse(ctx context.Context, payload []byte) (*PaymentEvent, error)
}

// AdapterFactory builds a PaymentProvider from per-organization config.
type AdapterFactory interface {
	Provider() string
	NewAdapter(cfg AdapterConfig) (PaymentProvider, error)
}

var (
	ErrProviderNotFound      = errors.New("provider_not_found")
	ErrProviderUnavailable   = errors.New("provider_unavailable")
	ErrInvalidConfig         = errors.New("invalid_provider_config")
	ErrInvalidPayload        = errors.New("invalid_payload")
	ErrInvalidEvent          = errors.New("invalid_event")
	ErrInvalidSignature      = errors.New("invalid_signature")
	ErrEventIgnored          = errors.New("event_ignored")
	ErrEventAlreadyProcessed = errors.New("event_already_processed")
	ErrPaymentNotFound       = errors.New("payment_not_found")
)
