package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fakturo/fakturo/internal/config"
	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
	"github.com/fakturo/fakturo/internal/payment/providers"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
	"github.com/fakturo/fakturo/internal/providers/email"
	"github.com/fakturo/fakturo/pkg/telemetry"
	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	Cfg      config.Config
	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Repo     paymentdomain.Repository
	Registry *providers.Registry
	Services servicedomain.Service
	Invoices invoicedomain.Service
	Email    email.Provider
}

type Service struct {
	cfg      config.Config
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	repo     paymentdomain.Repository
	registry *providers.Registry
	services servicedomain.Service
	invoices invoicedomain.Service
	email    email.Provider
}

func New(p Params) paymentdomain.Service {
	return &Service{
		cfg:      p.Cfg,
		db:       p.DB,
		log:      p.Log.Named("payment.service"),
		genID:    p.GenID,
		repo:     p.Repo,
		registry: p.Registry,
		services: p.Services,
		invoices: p.Invoices,
		email:    p.Email,
	}
}

// CreateCheckout creates a hosted checkout with the organization's first
// active payment service and attaches its URL to the invoice.
func (s *Service) CreateCheckout(ctx context.Context, invoice *invoicedomain.Invoice) error {
	svcCfg, err := s.services.FirstActive(ctx, invoice.OrgID)
	if err != nil {
		return err
	}

	adapter, err := s.newAdapter(invoice.OrgID, svcCfg)
	if err != nil {
		return err
	}

	input := paymentdomain.CheckoutInput{
		InvoiceID:      invoice.ID,
		InvoiceNumber:  invoice.Number,
		OrgID:          invoice.OrgID,
		Amount:         invoice.TotalAmount,
		Currency:       invoice.Currency,
		Description:    fmt.Sprintf("Invoice %s", invoice.Number),
		RedirectURL:    fmt.Sprintf("%s/invoices/%s", s.cfg.PublicBaseURL, invoice.ID),
		WebhookURL:     fmt.Sprintf("%s/api/payments/webhooks/%s/%s", s.cfg.PublicBaseURL, svcCfg.Provider, invoice.OrgID),
		IdempotencyKey: uuid.NewString(),
	}

	session, err := adapter.CreateCheckout(ctx, input)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	payment := &paymentdomain.Payment{
		ID:                s.genID.Generate(),
		OrgID:             invoice.OrgID,
		InvoiceID:         invoice.ID,
		Provider:          svcCfg.Provider,
		ProviderPaymentID: session.ProviderPaymentID,
		Status:            paymentdomain.PaymentStatusPending,
		Amount:            invoice.TotalAmount,
		Currency:          invoice.Currency,
		CheckoutURL:       session.CheckoutURL,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.InsertPayment(ctx, s.db, payment); err != nil {
		return err
	}

	if err := s.invoices.AttachPaymentURL(ctx, invoice.OrgID, invoice.ID, session.CheckoutURL); err != nil {
		return err
	}
	invoice.PaymentURL = session.CheckoutURL

	telemetry.PaymentLinksCreated.WithLabelValues(svcCfg.Provider).Inc()
	s.log.Info("payment link created",
		zap.String("org_id", invoice.OrgID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("provider", svcCfg.Provider),
	)

	s.notifyCustomer(ctx, invoice)
	return nil
}

// notifyCustomer mails the payment link. Failures are logged, never returned:
// mail must not fail invoice creation.
func (s *Service) notifyCustomer(ctx context.Context, invoice *invoicedomain.Invoice) {
	if invoice.CustomerEmail == "" || invoice.PaymentURL == "" {
		return
	}
	msg := email.Message{
		To:      invoice.CustomerEmail,
		Subject: fmt.Sprintf("Invoice %s", invoice.Number),
		HTML: fmt.Sprintf(
			"<p>Hello %s,</p><p>your invoice %s is ready. You can pay it online:</p><p><a href=%q>%s</a></p>",
			invoice.CustomerName, invoice.Number, invoice.PaymentURL, invoice.PaymentURL,
		),
	}
	if err := s.email.Send(ctx, msg); err != nil {
		s.log.Warn("payment link mail failed",
			zap.String("invoice_id", invoice.ID.String()),
			zap.Error(err),
		)
	}
}

// IngestWebhook verifies, parses and applies a provider webhook event.
func (s *Service) IngestWebhook(ctx context.Context, orgID snowflake.ID, provider string, payload []byte, headers http.Header) (*paymentdomain.PaymentEvent, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if !s.registry.ProviderExists(provider) {
		return nil, paymentdomain.ErrProviderNotFound
	}

	svcCfg, err := s.services.GetConfig(ctx, orgID, provider)
	if err != nil {
		if errors.Is(err, servicedomain.ErrNotFound) {
			return nil, paymentdomain.ErrProviderNotFound
		}
		return nil, err
	}

	adapter, err := s.newAdapter(orgID, svcCfg)
	if err != nil {
		return nil, err
	}

	if err := adapter.Verify(ctx, payload, headers); err != nil {
		return nil, err
	}
	event, err := adapter.Parse(ctx, payload)
	if err != nil {
		return nil, err
	}

	record := &paymentdomain.EventRecord{
		ID:              s.genID.Generate(),
		OrgID:           orgID,
		Provider:        event.Provider,
		ProviderEventID: event.ProviderEventID,
		EventType:       event.Type,
		Payload:         datatypes.JSON(eventPayload(event.RawPayload)),
		ReceivedAt:      time.Now().UTC(),
	}
	inserted, err := s.repo.InsertEvent(ctx, s.db, record)
	if err != nil {
		return nil, err
	}
	if !inserted {
		telemetry.WebhookEvents.WithLabelValues(provider, "duplicate").Inc()
		if prior, perr := s.repo.FindEvent(ctx, s.db, event.Provider, event.ProviderEventID); perr == nil && prior != nil {
			s.log.Info("webhook event redelivered",
				zap.String("provider", provider),
				zap.String("event_id", event.ProviderEventID),
				zap.Time("first_received_at", prior.ReceivedAt),
			)
		}
		return event, paymentdomain.ErrEventAlreadyProcessed
	}

	if err := s.applyEvent(ctx, event); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.repo.MarkEventProcessed(ctx, s.db, record.ID, now); err != nil {
		s.log.Warn("event processed marker failed",
			zap.String("provider", provider),
			zap.String("event_id", event.ProviderEventID),
			zap.Error(err),
		)
	}

	telemetry.WebhookEvents.WithLabelValues(provider, event.Type).Inc()
	s.log.Info("webhook event applied",
		zap.String("org_id", orgID.String()),
		zap.String("provider", provider),
		zap.String("type", event.Type),
		zap.String("provider_payment_id", event.ProviderPaymentID),
	)
	return event, nil
}

func (s *Service) applyEvent(ctx context.Context, event *paymentdomain.PaymentEvent) error {
	payment, err := s.repo.FindPaymentByProviderID(ctx, s.db, event.Provider, event.ProviderPaymentID)
	if err != nil {
		return err
	}
	if payment == nil {
		return paymentdomain.ErrPaymentNotFound
	}

	now := event.OccurredAt
	if now.IsZero() {
		now = time.Now().UTC()
	}

	switch event.Type {
	case paymentdomain.EventTypePaymentSucceeded:
		if err := s.repo.UpdatePaymentStatus(ctx, s.db, payment.ID, paymentdomain.PaymentStatusPaid, now); err != nil {
			return err
		}
		return s.invoices.MarkPaid(ctx, payment.OrgID, payment.InvoiceID, now)
	case paymentdomain.EventTypePaymentFailed:
		return s.repo.UpdatePaymentStatus(ctx, s.db, payment.ID, paymentdomain.PaymentStatusFailed, now)
	case paymentdomain.EventTypePaymentExpired:
		return s.repo.UpdatePaymentStatus(ctx, s.db, payment.ID, paymentdomain.PaymentStatusExpired, now)
	default:
		return paymentdomain.ErrInvalidEvent
	}
}

func (s *Service) List(ctx context.Context, orgID snowflake.ID) ([]paymentdomain.Payment, error) {
	return s.repo.ListByOrg(ctx, s.db, orgID)
}

func (s *Service) newAdapter(orgID snowflake.ID, svcCfg *servicedomain.ServiceConfig) (paymentdomain.PaymentProvider, error) {
	var credentials map[string]any
	if len(svcCfg.Config) > 0 {
		if err := json.Unmarshal(svcCfg.Config, &credentials); err != nil {
			return nil, paymentdomain.ErrInvalidConfig
		}
	}
	return s.registry.NewAdapter(svcCfg.Provider, paymentdomain.AdapterConfig{
		OrgID:  orgID,
		Config: credentials,
	})
}

// eventPayload normalizes the raw webhook body into valid JSON for storage.
// Form-encoded bodies (Mollie) are wrapped as a JSON string.
func eventPayload(raw []byte) []byte {
	if json.Valid(raw) {
		return raw
	}
	wrapped, err := json.Marshal(string(raw))
	if err != nil {
		return []byte(`null`)
	}
	return wrapped
}
