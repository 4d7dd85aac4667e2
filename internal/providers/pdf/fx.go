package pdf

import "go.uber.org/fx"

func NewProvider() Provider { return NewMaroto() }

var Module = fx.Module("providers.pdf",
	fx.Provide(NewProvider),
)
