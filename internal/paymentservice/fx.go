package paymentservice

import (
	"github.com/fakturo/fakturo/internal/paymentservice/repository"
	"github.com/fakturo/fakturo/internal/paymentservice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("paymentservice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
