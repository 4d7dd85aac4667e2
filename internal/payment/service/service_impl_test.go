package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fakturo/fakturo/internal/config"
	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	invoicerepo "github.com/fakturo/fakturo/internal/invoice/repository"
	invoiceservice "github.com/fakturo/fakturo/internal/invoice/service"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
	"github.com/fakturo/fakturo/internal/payment/providers"
	paymentrepo "github.com/fakturo/fakturo/internal/payment/repository"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
	servicerepo "github.com/fakturo/fakturo/internal/paymentservice/repository"
	serviceservice "github.com/fakturo/fakturo/internal/paymentservice/service"
	"github.com/fakturo/fakturo/internal/providers/email"
)

type stubFactory struct{}

func (f *stubFactory) Provider() string { return "stub" }

func (f *stubFactory) NewAdapter(cfg paymentdomain.AdapterConfig) (paymentdomain.PaymentProvider, error) {
	return &stubAdapter{orgID: cfg.OrgID}, nil
}

type stubAdapter struct {
	orgID snowflake.ID
}

func (a *stubAdapter) CreateCheckout(ctx context.Context, input paymentdomain.CheckoutInput) (paymentdomain.CheckoutSession, error) {
	return paymentdomain.CheckoutSession{
		ProviderPaymentID: "stub_" + input.InvoiceID.String(),
		CheckoutURL:       fmt.Sprintf("https://stub.example.com/checkout/%s", input.InvoiceID),
	}, nil
}

func (a *stubAdapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	return nil
}

func (a *stubAdapter) Parse(ctx context.Context, payload []byte) (*paymentdomain.PaymentEvent, error) {
	var hook struct {
		PaymentID string `json:"payment_id"`
		Status    string `json:"status"`
	}
	if err := json.Unmarshal(payload, &hook); err != nil || hook.PaymentID == "" {
		return nil, paymentdomain.ErrInvalidPayload
	}

	var eventType string
	switch hook.Status {
	case "paid":
		eventType = paymentdomain.EventTypePaymentSucceeded
	case "failed":
		eventType = paymentdomain.EventTypePaymentFailed
	default:
		return nil, paymentdomain.ErrEventIgnored
	}
	return &paymentdomain.PaymentEvent{
		Provider:          "stub",
		ProviderEventID:   hook.PaymentID + ":" + hook.Status,
		ProviderPaymentID: hook.PaymentID,
		Type:              eventType,
		OrgID:             a.orgID,
		RawPayload:        payload,
	}, nil
}

type testEnv struct {
	db       *gorm.DB
	node     *snowflake.Node
	orgID    snowflake.ID
	invoices invoicedomain.Service
	payments paymentdomain.Service
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&orgdomain.Organization{},
		&servicedomain.ServiceConfig{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&paymentdomain.Payment{},
		&paymentdomain.EventRecord{},
	))

	node, err := snowflake.NewNode(2)
	require.NoError(t, err)
	log := zap.NewNop()

	orgID := node.Generate()
	services := serviceservice.New(serviceservice.Params{DB: db, Log: log, GenID: node, Repo: servicerepo.Provide()})
	invoices := invoiceservice.NewService(invoiceservice.Params{DB: db, Log: log, GenID: node, Repo: invoicerepo.Provide()})

	_, err = services.UpsertConfig(context.Background(), servicedomain.UpsertRequest{
		OrgID:    orgID,
		Provider: "stub",
		Config:   map[string]any{"api_key": "k"},
	})
	require.NoError(t, err)

	payments := New(Params{
		Cfg:      config.Config{PublicBaseURL: "http://localhost:8080"},
		DB:       db,
		Log:      log,
		GenID:    node,
		Repo:     paymentrepo.Provide(),
		Registry: providers.NewRegistry(&stubFactory{}),
		Services: services,
		Invoices: invoices,
		Email:    email.NoOp{},
	})

	return &testEnv{db: db, node: node, orgID: orgID, invoices: invoices, payments: payments}
}

func (e *testEnv) createInvoiceWithCheckout(t *testing.T) *invoicedomain.Invoice {
	t.Helper()
	invoice, err := e.invoices.Create(context.Background(), invoicedomain.CreateRequest{
		OrgID:        e.orgID,
		CustomerName: "Jane Doe",
		Currency:     "EUR",
		Items: []invoicedomain.CreateItemRequest{
			{Name: "Hosting", Offer: "https://shop.example.com/offers/hosting", Quantity: 1, UnitAmount: 10_00},
		},
	})
	require.NoError(t, err)
	require.NoError(t, e.payments.CreateCheckout(context.Background(), invoice))
	return invoice
}

func TestCreateCheckoutAttachesAndPersists(t *testing.T) {
	env := setupEnv(t)

	invoice := env.createInvoiceWithCheckout(t)
	assert.Equal(t, "https://stub.example.com/checkout/"+invoice.ID.String(), invoice.PaymentURL)

	stored, err := env.invoices.GetByID(context.Background(), env.orgID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoice.PaymentURL, stored.PaymentURL)

	payments, err := env.payments.List(context.Background(), env.orgID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, paymentdomain.PaymentStatusPending, payments[0].Status)
	assert.Equal(t, invoice.TotalAmount, payments[0].Amount)
}

func TestCreateCheckoutNoServiceConfigured(t *testing.T) {
	env := setupEnv(t)

	invoice, err := env.invoices.Create(context.Background(), invoicedomain.CreateRequest{
		OrgID:        env.node.Generate(), // org without any service config
		CustomerName: "Jane Doe",
		Currency:     "EUR",
		Items: []invoicedomain.CreateItemRequest{
			{Name: "Hosting", Offer: "https://shop.example.com/offers/hosting", Quantity: 1, UnitAmount: 10_00},
		},
	})
	require.NoError(t, err)

	err = env.payments.CreateCheckout(context.Background(), invoice)
	assert.True(t, errors.Is(err, servicedomain.ErrNoServiceConfigured))
	assert.Empty(t, invoice.PaymentURL)
}

func TestIngestWebhookMarksInvoicePaid(t *testing.T) {
	env := setupEnv(t)
	invoice := env.createInvoiceWithCheckout(t)

	payload := []byte(fmt.Sprintf(`{"payment_id": "stub_%s", "status": "paid"}`, invoice.ID))
	event, err := env.payments.IngestWebhook(context.Background(), env.orgID, "stub", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.EventTypePaymentSucceeded, event.Type)

	stored, err := env.invoices.GetByID(context.Background(), env.orgID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, stored.Status)
	require.NotNil(t, stored.PaidAt)

	payments, err := env.payments.List(context.Background(), env.orgID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, paymentdomain.PaymentStatusPaid, payments[0].Status)
}

func TestIngestWebhookIsIdempotent(t *testing.T) {
	env := setupEnv(t)
	invoice := env.createInvoiceWithCheckout(t)

	payload := []byte(fmt.Sprintf(`{"payment_id": "stub_%s", "status": "paid"}`, invoice.ID))
	_, err := env.payments.IngestWebhook(context.Background(), env.orgID, "stub", payload, nil)
	require.NoError(t, err)

	_, err = env.payments.IngestWebhook(context.Background(), env.orgID, "stub", payload, nil)
	assert.True(t, errors.Is(err, paymentdomain.ErrEventAlreadyProcessed))
}

func TestIngestWebhookFailedPayment(t *testing.T) {
	env := setupEnv(t)
	invoice := env.createInvoiceWithCheckout(t)

	payload := []byte(fmt.Sprintf(`{"payment_id": "stub_%s", "status": "failed"}`, invoice.ID))
	event, err := env.payments.IngestWebhook(context.Background(), env.orgID, "stub", payload, nil)
	require.NoError(t, err)
	assert.Equal(t, paymentdomain.EventTypePaymentFailed, event.Type)

	// The invoice stays open when the payment fails.
	stored, err := env.invoices.GetByID(context.Background(), env.orgID, invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusOpen, stored.Status)
}

func TestIngestWebhookUnknownProvider(t *testing.T) {
	env := setupEnv(t)

	_, err := env.payments.IngestWebhook(context.Background(), env.orgID, "paypal", []byte(`{}`), nil)
	assert.True(t, errors.Is(err, paymentdomain.ErrProviderNotFound))
}

func TestIngestWebhookUnknownPayment(t *testing.T) {
	env := setupEnv(t)

	payload := []byte(`{"payment_id": "stub_999", "status": "paid"}`)
	_, err := env.payments.IngestWebhook(context.Background(), env.orgID, "stub", payload, nil)
	assert.True(t, errors.Is(err, paymentdomain.ErrPaymentNotFound))
}
