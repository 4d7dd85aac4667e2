package config

import "go.uber.org/fx"

// Module wires the application configuration.
var Module = fx.Module("config",
	fx.Provide(Load),
)
