// Package seed guarantees the default organization exists so single-tenant
// deployments work without an onboarding step.
package seed

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/fakturo/fakturo/internal/config"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// EnsureMainOrg inserts the default organization when none exists. When
// DEFAULT_ORG is set, that id is used so restored environments keep their
// references stable.
func EnsureMainOrg(ctx context.Context, db *gorm.DB, genID *snowflake.Node, cfg config.Config, log *zap.Logger) error {
	log = log.Named("seed")

	var existing orgdomain.Organization
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM organizations WHERE is_default = ? LIMIT 1`,
		true,
	).Scan(&existing).Error
	if err != nil {
		return err
	}
	if existing.ID != 0 {
		return nil
	}

	id := genID.Generate()
	if cfg.DefaultOrgID != 0 {
		id = snowflake.ID(cfg.DefaultOrgID)
	}

	now := time.Now().UTC()
	org := &orgdomain.Organization{
		ID:        id,
		Name:      "Main",
		Slug:      "main",
		IsDefault: true,
		Metadata:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(org).Error; err != nil {
		return err
	}

	log.Info("default organization created", zap.String("org_id", org.ID.String()))
	return nil
}
