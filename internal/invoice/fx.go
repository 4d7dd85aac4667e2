package invoice

import (
	"github.com/fakturo/fakturo/internal/invoice/repository"
	"github.com/fakturo/fakturo/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
