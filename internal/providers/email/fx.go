package email

import (
	"github.com/fakturo/fakturo/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewProvider(cfg config.Config, log *zap.Logger) Provider {
	if cfg.Email.SMTPHost == "" {
		log.Named("email").Info("smtp not configured, outbound mail disabled")
		return NoOp{}
	}
	return NewSMTP(cfg.Email)
}

var Module = fx.Module("providers.email",
	fx.Provide(NewProvider),
)
