// Package domain contains persistence models for invoicing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// InvoiceStatus represents invoice lifecycle states.
type InvoiceStatus string

const (
	InvoiceStatusDraft InvoiceStatus = "DRAFT"
	InvoiceStatusOpen  InvoiceStatus = "OPEN"
	InvoiceStatusPaid  InvoiceStatus = "PAID"
	InvoiceStatusVoid  InvoiceStatus = "VOID"
)

// Invoice represents a billable document grouping line items.
type Invoice struct {
	ID            snowflake.ID      `gorm:"primaryKey" json:"id"`
	OrgID         snowflake.ID      `gorm:"not null;index;uniqueIndex:ux_invoices_org_number,priority:1" json:"org_id"`
	Number        string            `gorm:"type:text;not null;uniqueIndex:ux_invoices_org_number,priority:2" json:"number"`
	CustomerName  string            `gorm:"type:text;not null" json:"customer_name"`
	CustomerEmail string            `gorm:"type:text" json:"customer_email"`
	Status        InvoiceStatus     `gorm:"type:text;not null;default:'OPEN'" json:"status"`
	Currency      string            `gorm:"type:text;not null" json:"currency"`
	TotalAmount   int64             `gorm:"not null;default:0" json:"total_amount"`
	PaymentURL    string            `gorm:"type:text;column:payment_url" json:"payment_url,omitempty"`
	IssuedAt      *time.Time        `gorm:"" json:"issued_at,omitempty"`
	DueAt         *time.Time        `gorm:"" json:"due_at,omitempty"`
	PaidAt        *time.Time        `gorm:"" json:"paid_at,omitempty"`
	Metadata      datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata"`
	CreatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID;constraint:OnDelete:CASCADE" json:"items"`
}

// TableName sets the database table name.
func (Invoice) TableName() string { return "invoices" }

// InvoiceItem represents a priced line on an invoice.
type InvoiceItem struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"org_id"`
	InvoiceID   snowflake.ID `gorm:"not null;index" json:"invoice_id"`
	Name        string       `gorm:"type:text;not null" json:"name"`
	Description string       `gorm:"type:text" json:"description,omitempty"`
	// Offer is the URL of the offer this line was created from.
	Offer string `gorm:"type:text;not null" json:"offer"`
	// Product is the legacy product reference. New writers leave it empty;
	// readers go through ProductRef which falls back to Offer.
	Product    *string   `gorm:"type:text" json:"product,omitempty"`
	Quantity   int64     `gorm:"not null" json:"quantity"`
	UnitAmount int64     `gorm:"not null" json:"unit_amount"`
	Currency   string    `gorm:"type:text;not null" json:"currency"`
	TaxPercent int64     `gorm:"not null;default:0" json:"tax_percent"`
	CreatedAt  time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (InvoiceItem) TableName() string { return "invoice_items" }

// ProductRef returns the legacy product reference, falling back to the offer
// URL when no explicit product value was ever set.
func (i InvoiceItem) ProductRef() string {
	if i.Product != nil && *i.Product != "" {
		return *i.Product
	}
	return i.Offer
}

// Amount is the line total in minor units, tax excluded.
func (i InvoiceItem) Amount() int64 {
	return i.Quantity * i.UnitAmount
}
