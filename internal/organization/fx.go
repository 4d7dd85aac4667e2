package organization

import (
	"github.com/fakturo/fakturo/internal/organization/repository"
	"github.com/fakturo/fakturo/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
