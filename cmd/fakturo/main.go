package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/fakturo/fakturo/internal/config"
	"github.com/fakturo/fakturo/internal/invoice"
	"github.com/fakturo/fakturo/internal/logger"
	"github.com/fakturo/fakturo/internal/migration"
	"github.com/fakturo/fakturo/internal/organization"
	"github.com/fakturo/fakturo/internal/payment"
	"github.com/fakturo/fakturo/internal/paymentservice"
	"github.com/fakturo/fakturo/internal/providers/email"
	"github.com/fakturo/fakturo/internal/providers/pdf"
	"github.com/fakturo/fakturo/internal/server"
	"github.com/fakturo/fakturo/pkg/db"
)

func newSnowflakeNode() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(newSnowflakeNode),
		db.Module,
		migration.Module,
		organization.Module,
		paymentservice.Module,
		invoice.Module,
		payment.Module,
		email.Module,
		pdf.Module,
		server.Module,
		fx.WithLogger(logger.FxLogger),
	)
	app.Run()
}
