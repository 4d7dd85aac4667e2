package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	InsertPayment(ctx context.Context, tx *gorm.DB, payment *Payment) error
	FindPaymentByProviderID(ctx context.Context, tx *gorm.DB, provider, providerPaymentID string) (*Payment, error)
	ListByOrg(ctx context.Context, tx *gorm.DB, orgID snowflake.ID) ([]Payment, error)
	UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, id snowflake.ID, status PaymentStatus, updatedAt time.Time) error
	InsertEvent(ctx context.Context, tx *gorm.DB, record *EventRecord) (bool, error)
	FindEvent(ctx context.Context, tx *gorm.DB, provider, providerEventID string) (*EventRecord, error)
	MarkEventProcessed(ctx context.Context, tx *gorm.DB, id snowflake.ID, processedAt time.Time) error
}
