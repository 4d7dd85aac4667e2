package server

import (
	"fmt"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
)

// ContentTypeHAL is the media type used for invoice responses that carry
// hypermedia links.
const ContentTypeHAL = "application/json+hal"

type halLink struct {
	Href string `json:"href"`
}

type invoiceResource struct {
	*invoicedomain.Invoice
	Links map[string]halLink `json:"_links"`
}

func invoiceHAL(invoice *invoicedomain.Invoice) invoiceResource {
	links := map[string]halLink{
		"self": {Href: fmt.Sprintf("/api/invoices/%s", invoice.ID)},
		"pdf":  {Href: fmt.Sprintf("/api/invoices/%s/pdf", invoice.ID)},
	}
	if invoice.PaymentURL != "" {
		links["payment"] = halLink{Href: invoice.PaymentURL}
	}
	return invoiceResource{Invoice: invoice, Links: links}
}

// writeInvoiceHAL renders the invoice as a HAL resource. The header is set
// before the body so gin keeps the HAL media type instead of plain JSON.
func writeInvoiceHAL(c *gin.Context, status int, invoice *invoicedomain.Invoice) {
	c.Header("Content-Type", ContentTypeHAL)
	c.JSON(status, invoiceHAL(invoice))
}
