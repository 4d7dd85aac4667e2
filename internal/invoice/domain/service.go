package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type CreateItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Offer       string  `json:"offer"`
	Product     *string `json:"product"`
	Quantity    int64   `json:"quantity"`
	UnitAmount  int64   `json:"unit_amount"`
	Currency    string  `json:"currency"`
	TaxPercent  int64   `json:"tax_percent"`
}

type CreateRequest struct {
	OrgID         snowflake.ID
	CustomerName  string
	CustomerEmail string
	Currency      string
	DueAt         *time.Time
	Items         []CreateItemRequest
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Invoice, error)
	GetByID(ctx context.Context, orgID, id snowflake.ID) (*Invoice, error)
	List(ctx context.Context, orgID snowflake.ID) ([]Invoice, error)
	Delete(ctx context.Context, orgID, id snowflake.ID) error
	AttachPaymentURL(ctx context.Context, orgID, id snowflake.ID, url string) error
	MarkPaid(ctx context.Context, orgID, id snowflake.ID, paidAt time.Time) error
}

var (
	ErrNotFound        = errors.New("invoice_not_found")
	ErrInvalidCurrency = errors.New("invalid_currency")
	ErrInvalidCustomer = errors.New("invalid_customer")
	ErrNoItems         = errors.New("no_items")
)

// ValidationErrors carries the structured result of item validation.
type ValidationErrors struct {
	Errors []FieldError
}

func (v *ValidationErrors) Error() string { return "validation error" }
