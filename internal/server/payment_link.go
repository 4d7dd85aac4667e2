package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
)

// invoiceResultKey carries a freshly created invoice from the handler to the
// payment-link interceptor.
const invoiceResultKey = "invoice_result"

func setInvoiceResult(c *gin.Context, invoice *invoicedomain.Invoice) {
	c.Set(invoiceResultKey, invoice)
}

func invoiceResult(c *gin.Context) (*invoicedomain.Invoice, bool) {
	v, ok := c.Get(invoiceResultKey)
	if !ok {
		return nil, false
	}
	invoice, ok := v.(*invoicedomain.Invoice)
	return invoice, ok && invoice != nil
}

// PaymentLinkInterceptor runs after invoice handlers. When a handler produced
// a newly created invoice it asks the organization's first active payment
// service for a hosted checkout, attaches the URL and renders the invoice as
// a HAL resource with status 200.
//
// DELETE requests and requests that wrote their own response pass through
// untouched. A missing or unknown payment service never fails invoice
// creation: the invoice is rendered without a payment link.
func (s *Server) PaymentLinkInterceptor() gin.HandlerFunc {
	log := s.log.Named("payment.link")
	return func(c *gin.Context) {
		c.Next()

		if c.IsAborted() || c.Writer.Written() {
			return
		}
		if c.Request.Method == http.MethodDelete {
			return
		}
		invoice, ok := invoiceResult(c)
		if !ok {
			return
		}

		err := s.payments.CreateCheckout(c.Request.Context(), invoice)
		switch {
		case err == nil:
		case errors.Is(err, servicedomain.ErrNoServiceConfigured),
			errors.Is(err, paymentdomain.ErrProviderNotFound),
			errors.Is(err, paymentdomain.ErrInvalidConfig):
			log.Warn("payment link skipped",
				zap.String("org_id", invoice.OrgID.String()),
				zap.String("invoice_id", invoice.ID.String()),
				zap.Error(err),
			)
		default:
			AbortWithError(c, err)
			return
		}

		writeInvoiceHAL(c, http.StatusOK, invoice)
	}
}
