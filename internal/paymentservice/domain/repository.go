package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListByOrg(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]ServiceConfig, error)
	FindByOrgProvider(ctx context.Context, db *gorm.DB, orgID snowflake.ID, provider string) (*ServiceConfig, error)
	FindFirstActive(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*ServiceConfig, error)
	Upsert(ctx context.Context, db *gorm.DB, cfg *ServiceConfig) error
	UpdateStatus(ctx context.Context, db *gorm.DB, orgID snowflake.ID, provider string, isActive bool, updatedAt time.Time) (bool, error)
}
