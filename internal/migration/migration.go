// Package migration applies the database schema on startup. Postgres goes
// through versioned SQL migrations; other dialects fall back to schema
// auto-migration so local sqlite setups keep working.
package migration

import (
	"errors"

	"github.com/fakturo/fakturo/internal/config"
	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Run brings the schema up to date.
func Run(db *gorm.DB, cfg config.Config, log *zap.Logger) error {
	log = log.Named("migration")

	if cfg.DBType != "postgres" {
		log.Info("auto-migrating schema", zap.String("db_type", cfg.DBType))
		return autoMigrate(db)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return err
	}
	source, err := iofs.New(migrationFS, "sql")
	if err != nil {
		return err
	}

	m, err := migrate.NewWithInstance("iofs", source, cfg.DBName, driver)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info("schema up to date")
			return nil
		}
		return err
	}

	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	log.Info("schema migrated", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&orgdomain.Organization{},
		&servicedomain.ServiceConfig{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceItem{},
		&paymentdomain.Payment{},
		&paymentdomain.EventRecord{},
	)
}
