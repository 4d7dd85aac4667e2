package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	"github.com/fakturo/fakturo/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  invoicedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  invoicedomain.Repository
}

func NewService(p Params) invoicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("invoice.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req invoicedomain.CreateRequest) (*invoicedomain.Invoice, error) {
	if req.OrgID == 0 {
		return nil, invoicedomain.ErrNotFound
	}
	customerName := strings.TrimSpace(req.CustomerName)
	if customerName == "" {
		return nil, invoicedomain.ErrInvalidCustomer
	}
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if !invoicedomain.ValidCurrency(currency) {
		return nil, invoicedomain.ErrInvalidCurrency
	}
	if len(req.Items) == 0 {
		return nil, invoicedomain.ErrNoItems
	}

	now := time.Now().UTC()
	invoice := &invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		OrgID:         req.OrgID,
		CustomerName:  customerName,
		CustomerEmail: strings.TrimSpace(req.CustomerEmail),
		Status:        invoicedomain.InvoiceStatusOpen,
		Currency:      currency,
		IssuedAt:      &now,
		DueAt:         req.DueAt,
		Metadata:      datatypes.JSONMap{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var fieldErrs []invoicedomain.FieldError
	var total int64
	for idx, line := range req.Items {
		itemCurrency := strings.ToUpper(strings.TrimSpace(line.Currency))
		if itemCurrency == "" {
			itemCurrency = currency
		}
		item := invoicedomain.InvoiceItem{
			ID:          s.genID.Generate(),
			OrgID:       req.OrgID,
			InvoiceID:   invoice.ID,
			Name:        strings.TrimSpace(line.Name),
			Description: strings.TrimSpace(line.Description),
			Offer:       strings.TrimSpace(line.Offer),
			Product:     line.Product,
			Quantity:    line.Quantity,
			UnitAmount:  line.UnitAmount,
			Currency:    itemCurrency,
			TaxPercent:  line.TaxPercent,
			CreatedAt:   now,
		}
		for _, fe := range item.Validate() {
			fe.Field = fmt.Sprintf("items[%d].%s", idx, fe.Field)
			fieldErrs = append(fieldErrs, fe)
		}
		total += item.Amount()
		invoice.Items = append(invoice.Items, item)
	}
	if len(fieldErrs) > 0 {
		return nil, &invoicedomain.ValidationErrors{Errors: fieldErrs}
	}

	invoice.TotalAmount = total

	// Regenerate the number on a duplicate-key failure: concurrent creates can
	// race the (org_id, number) index.
	for attempt := 0; ; attempt++ {
		number, err := s.nextNumber(ctx, req.OrgID, now)
		if err != nil {
			return nil, err
		}
		invoice.Number = number

		err = s.repo.Insert(ctx, s.db, invoice)
		if err == nil {
			break
		}
		if attempt >= 2 || !db.IsDuplicateKeyErr(err) {
			return nil, err
		}
	}

	s.log.Info("invoice created",
		zap.String("org_id", invoice.OrgID.String()),
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("number", invoice.Number),
		zap.Int64("total_amount", invoice.TotalAmount),
	)
	return invoice, nil
}

// nextNumber continues the year's sequence from the highest number on record,
// so deleted invoices never cause a later create to reuse a taken number.
func (s *Service) nextNumber(ctx context.Context, orgID snowflake.ID, now time.Time) (string, error) {
	prefix := fmt.Sprintf("INV-%s-", now.Format("2006"))
	last, err := s.repo.LastNumber(ctx, s.db, orgID, prefix)
	if err != nil {
		return "", err
	}

	seq := 0
	if last != "" {
		n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
		if err != nil {
			return "", fmt.Errorf("malformed invoice number %q: %w", last, err)
		}
		seq = n
	}
	return fmt.Sprintf("%s%05d", prefix, seq+1), nil
}

func (s *Service) GetByID(ctx context.Context, orgID, id snowflake.ID) (*invoicedomain.Invoice, error) {
	invoice, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return nil, err
	}
	if invoice == nil {
		return nil, invoicedomain.ErrNotFound
	}
	return invoice, nil
}

func (s *Service) List(ctx context.Context, orgID snowflake.ID) ([]invoicedomain.Invoice, error) {
	return s.repo.List(ctx, s.db, orgID)
}

func (s *Service) Delete(ctx context.Context, orgID, id snowflake.ID) error {
	deleted, err := s.repo.Delete(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return invoicedomain.ErrNotFound
	}
	return nil
}

func (s *Service) AttachPaymentURL(ctx context.Context, orgID, id snowflake.ID, url string) error {
	return s.repo.SetPaymentURL(ctx, s.db, orgID, id, url, time.Now().UTC())
}

func (s *Service) MarkPaid(ctx context.Context, orgID, id snowflake.ID, paidAt time.Time) error {
	return s.repo.MarkPaid(ctx, s.db, orgID, id, paidAt)
}
