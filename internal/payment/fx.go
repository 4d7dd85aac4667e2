package payment

import (
	"github.com/fakturo/fakturo/internal/payment/providers"
	"github.com/fakturo/fakturo/internal/payment/providers/mollie"
	"github.com/fakturo/fakturo/internal/payment/providers/sumup"
	"github.com/fakturo/fakturo/internal/payment/repository"
	"github.com/fakturo/fakturo/internal/payment/service"
	"go.uber.org/fx"
)

func newRegistry() *providers.Registry {
	return providers.NewRegistry(
		mollie.NewFactory(),
		sumup.NewFactory(),
	)
}

var Module = fx.Module("payment.service",
	fx.Provide(newRegistry),
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
