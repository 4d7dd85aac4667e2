package providers

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fakturo/fakturo/internal/payment/domain"
)

type stubFactory struct {
	name string
}

func (f *stubFactory) Provider() string { return f.name }

func (f *stubFactory) NewAdapter(cfg domain.AdapterConfig) (domain.PaymentProvider, error) {
	return &stubAdapter{}, nil
}

type stubAdapter struct{}

func (a *stubAdapter) CreateCheckout(ctx context.Context, input domain.CheckoutInput) (domain.CheckoutSession, error) {
	return domain.CheckoutSession{}, nil
}

func (a *stubAdapter) Verify(ctx context.Context, payload []byte, headers http.Header) error {
	return nil
}

func (a *stubAdapter) Parse(ctx context.Context, payload []byte) (*domain.PaymentEvent, error) {
	return nil, domain.ErrEventIgnored
}

func TestRegistryLookup(t *testing.T) {
	registry := NewRegistry(&stubFactory{name: "mollie"}, &stubFactory{name: "SumUp"})

	assert.True(t, registry.ProviderExists("mollie"))
	assert.True(t, registry.ProviderExists("sumup"))
	assert.True(t, registry.ProviderExists("  Mollie "))
	assert.False(t, registry.ProviderExists("paypal"))

	adapter, err := registry.NewAdapter("sumup", domain.AdapterConfig{})
	assert.NoError(t, err)
	assert.NotNil(t, adapter)
}

func TestRegistryUnknownProvider(t *testing.T) {
	registry := NewRegistry(&stubFactory{name: "mollie"})

	adapter, err := registry.NewAdapter("paypal", domain.AdapterConfig{})
	assert.Nil(t, adapter)
	assert.True(t, errors.Is(err, domain.ErrProviderNotFound))
}
