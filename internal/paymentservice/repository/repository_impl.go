package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() servicedomain.Repository {
	return &repo{}
}

func (r *repo) ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]servicedomain.ServiceConfig, error) {
	var configs []servicedomain.ServiceConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, provider, config, position, is_active, created_at, updated_at
		 FROM payment_services
		 WHERE org_id = ?
		 ORDER BY position ASC, created_at ASC`,
		orgID,
	).Scan(&configs).Error
	if err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *repo) FindByOrgProvider(ctx context.Context, db *gorm.DB, orgID snowflake.ID, provider string) (*servicedomain.ServiceConfig, error) {
	var cfg servicedomain.ServiceConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, provider, config, position, is_active, created_at, updated_at
		 FROM payment_services
		 WHERE org_id = ? AND provider = ?`,
		orgID,
		provider,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) FindFirstActive(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*servicedomain.ServiceConfig, error) {
	var cfg servicedomain.ServiceConfig
	err := db.WithContext(ctx).Raw(
		`SELECT id, org_id, provider, config, position, is_active, created_at, updated_at
		 FROM payment_services
		 WHERE org_id = ? AND is_active = TRUE
		 ORDER BY position ASC, created_at ASC
		 LIMIT 1`,
		orgID,
	).Scan(&cfg).Error
	if err != nil {
		return nil, err
	}
	if cfg.ID == 0 {
		return nil, nil
	}
	return &cfg, nil
}

func (r *repo) Upsert(ctx context.Context, db *gorm.DB, cfg *servicedomain.ServiceConfig) error {
	existing, err := r.FindByOrgProvider(ctx, db, cfg.OrgID, cfg.Provider)
	if err != nil {
		return err
	}
	if existing == nil {
		return db.WithContext(ctx).Exec(
			`INSERT INTO payment_services (id, org_id, provider, config, position, is_active, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			cfg.ID,
			cfg.OrgID,
			cfg.Provider,
			cfg.Config,
			cfg.Position,
			cfg.IsActive,
			cfg.CreatedAt,
			cfg.UpdatedAt,
		).Error
	}

	cfg.ID = existing.ID
	cfg.CreatedAt = existing.CreatedAt
	return db.WithContext(ctx).Exec(
		`UPDATE payment_services
		 SET config = ?, position = ?, is_active = ?, updated_at = ?
		 WHERE org_id = ? AND provider = ?`,
		cfg.Config,
		cfg.Position,
		cfg.IsActive,
		cfg.UpdatedAt,
		cfg.OrgID,
		cfg.Provider,
	).Error
}

func (r *repo) UpdateStatus(ctx context.Context, db *gorm.DB, orgID snowflake.ID, provider string, isActive bool, updatedAt time.Time) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE payment_services
		 SET is_active = ?, updated_at = ?
		 WHERE org_id = ? AND provider = ?`,
		isActive,
		updatedAt,
		orgID,
		provider,
	)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
