package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceItemValidate(t *testing.T) {
	valid := InvoiceItem{
		Name:       "Hosting",
		Offer:      "https://shop.example.com/offers/hosting",
		Quantity:   2,
		UnitAmount: 4_99,
		Currency:   "EUR",
	}
	assert.Empty(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*InvoiceItem)
		field  string
		code   string
	}{
		{
			name:   "missing name",
			mutate: func(i *InvoiceItem) { i.Name = " " },
			field:  "name",
			code:   "required",
		},
		{
			name:   "negative quantity",
			mutate: func(i *InvoiceItem) { i.Quantity = -1 },
			field:  "quantity",
			code:   "negative",
		},
		{
			name:   "negative tax",
			mutate: func(i *InvoiceItem) { i.TaxPercent = -5 },
			field:  "tax_percent",
			code:   "negative",
		},
		{
			name:   "offer not a url",
			mutate: func(i *InvoiceItem) { i.Offer = "not a url" },
			field:  "offer",
			code:   "invalid_url",
		},
		{
			name:   "bogus currency",
			mutate: func(i *InvoiceItem) { i.Currency = "EURO" },
			field:  "currency",
			code:   "invalid_currency",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := valid
			tt.mutate(&item)

			errs := item.Validate()
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Equal(t, tt.code, errs[0].Code)
		})
	}
}

func TestProductRefFallsBackToOffer(t *testing.T) {
	item := InvoiceItem{Offer: "https://shop.example.com/offers/hosting"}
	assert.Equal(t, "https://shop.example.com/offers/hosting", item.ProductRef())

	legacy := "SKU-1042"
	item.Product = &legacy
	assert.Equal(t, "SKU-1042", item.ProductRef())

	empty := ""
	item.Product = &empty
	assert.Equal(t, "https://shop.example.com/offers/hosting", item.ProductRef())
}

func TestItemAmount(t *testing.T) {
	item := InvoiceItem{Quantity: 3, UnitAmount: 12_50}
	assert.Equal(t, int64(37_50), item.Amount())
}

func TestValidCurrency(t *testing.T) {
	assert.True(t, ValidCurrency("EUR"))
	assert.True(t, ValidCurrency("usd"))
	assert.False(t, ValidCurrency(""))
	assert.False(t, ValidCurrency("EU"))
	assert.False(t, ValidCurrency("EURO"))
}
