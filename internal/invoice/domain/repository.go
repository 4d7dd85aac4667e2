package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]Invoice, error)
	Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error)
	SetPaymentURL(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, url string, updatedAt time.Time) error
	MarkPaid(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, paidAt time.Time) error
	LastNumber(ctx context.Context, db *gorm.DB, orgID snowflake.ID, prefix string) (string, error)
}
