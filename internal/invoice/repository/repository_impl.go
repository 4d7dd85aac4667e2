package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() invoicedomain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, invoice *invoicedomain.Invoice) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		items := invoice.Items
		invoice.Items = nil
		if err := tx.Create(invoice).Error; err != nil {
			return err
		}
		invoice.Items = items
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoices WHERE org_id = ? AND id = ?`,
		orgID,
		id,
	).Scan(&invoice).Error
	if err != nil {
		return nil, err
	}
	if invoice.ID == 0 {
		return nil, nil
	}

	if err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoice_items WHERE invoice_id = ? ORDER BY created_at ASC, id ASC`,
		invoice.ID,
	).Scan(&invoice.Items).Error; err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]invoicedomain.Invoice, error) {
	var invoices []invoicedomain.Invoice
	err := db.WithContext(ctx).Raw(
		`SELECT * FROM invoices WHERE org_id = ? ORDER BY created_at DESC`,
		orgID,
	).Scan(&invoices).Error
	if err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID) (bool, error) {
	var affected int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(
			`DELETE FROM invoice_items WHERE org_id = ? AND invoice_id = ?`,
			orgID,
			id,
		).Error; err != nil {
			return err
		}
		res := tx.Exec(
			`DELETE FROM invoices WHERE org_id = ? AND id = ?`,
			orgID,
			id,
		)
		if res.Error != nil {
			return res.Error
		}
		affected = res.RowsAffected
		return nil
	})
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func (r *repo) SetPaymentURL(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, url string, updatedAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET payment_url = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		url,
		updatedAt,
		orgID,
		id,
	).Error
}

func (r *repo) MarkPaid(ctx context.Context, db *gorm.DB, orgID, id snowflake.ID, paidAt time.Time) error {
	return db.WithContext(ctx).Exec(
		`UPDATE invoices SET status = ?, paid_at = ?, updated_at = ? WHERE org_id = ? AND id = ?`,
		invoicedomain.InvoiceStatusPaid,
		paidAt,
		paidAt,
		orgID,
		id,
	).Error
}

// LastNumber returns the highest invoice number with the given prefix.
// Numbers are zero-padded, so lexicographic order matches numeric order.
func (r *repo) LastNumber(ctx context.Context, db *gorm.DB, orgID snowflake.ID, prefix string) (string, error) {
	var number string
	err := db.WithContext(ctx).Raw(
		`SELECT number FROM invoices WHERE org_id = ? AND number LIKE ? ORDER BY number DESC LIMIT 1`,
		orgID,
		prefix+"%",
	).Scan(&number).Error
	if err != nil {
		return "", err
	}
	return number, nil
}
