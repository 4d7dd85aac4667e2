package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	invoicerepo "github.com/fakturo/fakturo/internal/invoice/repository"
)

func setupService(t *testing.T) (invoicedomain.Service, snowflake.ID) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&invoicedomain.Invoice{}, &invoicedomain.InvoiceItem{}))

	node, err := snowflake.NewNode(3)
	require.NoError(t, err)

	svc := NewService(Params{DB: db, Log: zap.NewNop(), GenID: node, Repo: invoicerepo.Provide()})
	return svc, node.Generate()
}

func createInvoice(t *testing.T, svc invoicedomain.Service, orgID snowflake.ID) *invoicedomain.Invoice {
	t.Helper()
	invoice, err := svc.Create(context.Background(), invoicedomain.CreateRequest{
		OrgID:        orgID,
		CustomerName: "Jane Doe",
		Currency:     "EUR",
		Items: []invoicedomain.CreateItemRequest{
			{Name: "Hosting", Offer: "https://shop.example.com/offers/hosting", Quantity: 1, UnitAmount: 10_00},
		},
	})
	require.NoError(t, err)
	return invoice
}

func TestNumberingIsSequential(t *testing.T) {
	svc, orgID := setupService(t)
	year := time.Now().UTC().Format("2006")

	first := createInvoice(t, svc, orgID)
	second := createInvoice(t, svc, orgID)

	assert.Equal(t, fmt.Sprintf("INV-%s-00001", year), first.Number)
	assert.Equal(t, fmt.Sprintf("INV-%s-00002", year), second.Number)
}

func TestNumberingSurvivesDelete(t *testing.T) {
	svc, orgID := setupService(t)
	year := time.Now().UTC().Format("2006")

	first := createInvoice(t, svc, orgID)
	second := createInvoice(t, svc, orgID)

	// Deleting an earlier invoice must not make the next create reuse a
	// number that is still taken.
	require.NoError(t, svc.Delete(context.Background(), orgID, first.ID))

	third := createInvoice(t, svc, orgID)
	assert.Equal(t, fmt.Sprintf("INV-%s-00003", year), third.Number)
	assert.NotEqual(t, second.Number, third.Number)
}

func TestNumberingIsPerOrganization(t *testing.T) {
	svc, orgID := setupService(t)
	otherOrg := orgID + 1
	year := time.Now().UTC().Format("2006")

	createInvoice(t, svc, orgID)
	other := createInvoice(t, svc, otherOrg)

	assert.Equal(t, fmt.Sprintf("INV-%s-00001", year), other.Number)
}
