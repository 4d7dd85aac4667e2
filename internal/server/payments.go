package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	paymentdomain "github.com/fakturo/fakturo/internal/payment/domain"
)

func (s *Server) ListPayments(c *gin.Context) {
	orgID, err := s.resolveOrg(c, c.Query("org_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	payments, err := s.payments.List(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": payments})
}

// PaymentWebhook ingests a provider callback. The route carries the provider
// and organization so webhook processing can load the right credentials.
// Providers only care about the status code, so the body stays minimal.
func (s *Server) PaymentWebhook(c *gin.Context) {
	orgID, err := snowflake.ParseString(c.Param("org_id"))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrProviderNotFound)
		return
	}

	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		AbortWithError(c, paymentdomain.ErrInvalidPayload)
		return
	}

	event, err := s.payments.IngestWebhook(c.Request.Context(), orgID, c.Param("provider"), payload, c.Request.Header)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "processed", "type": event.Type})
	case errors.Is(err, paymentdomain.ErrEventAlreadyProcessed),
		errors.Is(err, paymentdomain.ErrEventIgnored):
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
	default:
		AbortWithError(c, err)
	}
}
