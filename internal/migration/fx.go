package migration

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/fakturo/fakturo/internal/config"
	"github.com/fakturo/fakturo/internal/seed"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func run(db *gorm.DB, cfg config.Config, log *zap.Logger, genID *snowflake.Node) error {
	if err := Run(db, cfg, log); err != nil {
		return err
	}
	return seed.EnsureMainOrg(context.Background(), db, genID, cfg, log)
}

var Module = fx.Module("migration",
	fx.Invoke(run),
)
