package domain

import (
	"context"
	"net/http"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
)

// Service drives checkout creation for freshly issued invoices and ingests
// provider webhook events.
type Service interface {
	// CreateCheckout creates a hosted checkout with the organization's first
	// active payment service and attaches its URL to the invoice. The invoice
	// is mutated in place so callers can render it immediately.
	CreateCheckout(ctx context.Context, invoice *invoicedomain.Invoice) error

	// IngestWebhook verifies, parses and applies a provider webhook event.
	// Redelivered events return ErrEventAlreadyProcessed.
	IngestWebhook(ctx context.Context, orgID snowflake.ID, provider string, payload []byte, headers http.Header) (*PaymentEvent, error)

	// List returns the organization's payment records, newest first.
	List(ctx context.Context, orgID snowflake.ID) ([]Payment, error)
}
