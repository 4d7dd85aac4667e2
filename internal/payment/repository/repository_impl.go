package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
	"github.com/fakturo/fakturo/pkg/db"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() paymentdomain.Repository {
	return &repo{}
}

func (r *repo) InsertPayment(ctx context.Context, tx *gorm.DB, payment *paymentdomain.Payment) error {
	return tx.WithContext(ctx).Create(payment).Error
}

func (r *repo) FindPaymentByProviderID(ctx context.Context, tx *gorm.DB, provider, providerPaymentID string) (*paymentdomain.Payment, error) {
	var payment paymentdomain.Payment
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM payments WHERE provider = ? AND provider_payment_id = ?`,
		provider,
		providerPaymentID,
	).Scan(&payment).Error
	if err != nil {
		return nil, err
	}
	if payment.ID == 0 {
		return nil, nil
	}
	return &payment, nil
}

func (r *repo) ListByOrg(ctx context.Context, tx *gorm.DB, orgID snowflake.ID) ([]paymentdomain.Payment, error) {
	var payments []paymentdomain.Payment
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM payments WHERE org_id = ? ORDER BY created_at DESC`,
		orgID,
	).Scan(&payments).Error
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *repo) UpdatePaymentStatus(ctx context.Context, tx *gorm.DB, id snowflake.ID, status paymentdomain.PaymentStatus, updatedAt time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE payments SET status = ?, updated_at = ? WHERE id = ?`,
		status,
		updatedAt,
		id,
	).Error
}

// InsertEvent stores a webhook event record. A duplicate
// (provider, provider_event_id) pair reports inserted=false so redeliveries
// become no-ops.
func (r *repo) InsertEvent(ctx context.Context, tx *gorm.DB, record *paymentdomain.EventRecord) (bool, error) {
	err := tx.WithContext(ctx).Create(record).Error
	if err != nil {
		if db.IsDuplicateKeyErr(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *repo) FindEvent(ctx context.Context, tx *gorm.DB, provider, providerEventID string) (*paymentdomain.EventRecord, error) {
	var record paymentdomain.EventRecord
	err := tx.WithContext(ctx).Raw(
		`SELECT * FROM payment_events WHERE provider = ? AND provider_event_id = ?`,
		provider,
		providerEventID,
	).Scan(&record).Error
	if err != nil {
		return nil, err
	}
	if record.ID == 0 {
		return nil, nil
	}
	return &record, nil
}

func (r *repo) MarkEventProcessed(ctx context.Context, tx *gorm.DB, id snowflake.ID, processedAt time.Time) error {
	return tx.WithContext(ctx).Exec(
		`UPDATE payment_events SET processed_at = ? WHERE id = ?`,
		processedAt,
		id,
	).Error
}
