package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	invoicedomain "github.com/fakturo/fakturo/internal/invoice/domain"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
)

type createInvoiceBody struct {
	OrgID         string                            `json:"org_id"`
	CustomerName  string                            `json:"customer_name"`
	CustomerEmail string                            `json:"customer_email"`
	Currency      string                            `json:"currency"`
	DueAt         *time.Time                        `json:"due_at"`
	Items         []invoicedomain.CreateItemRequest `json:"items"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var body createInvoiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", errMalformedBody, err))
		return
	}

	orgID, err := s.resolveOrg(c, body.OrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.invoices.Create(c.Request.Context(), invoicedomain.CreateRequest{
		OrgID:         orgID,
		CustomerName:  body.CustomerName,
		CustomerEmail: body.CustomerEmail,
		Currency:      body.Currency,
		DueAt:         body.DueAt,
		Items:         body.Items,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	// The payment-link interceptor writes the response.
	setInvoiceResult(c, invoice)
}

func (s *Server) ListInvoices(c *gin.Context) {
	orgID, err := s.resolveOrg(c, c.Query("org_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	invoices, err := s.invoices.List(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoices})
}

func (s *Server) GetInvoice(c *gin.Context) {
	orgID, id, err := s.resolveInvoice(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	invoice, err := s.invoices.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	writeInvoiceHAL(c, http.StatusOK, invoice)
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	orgID, id, err := s.resolveInvoice(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.invoices.Delete(c.Request.Context(), orgID, id); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (s *Server) GetInvoicePDF(c *gin.Context) {
	orgID, id, err := s.resolveInvoice(c)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	invoice, err := s.invoices.GetByID(c.Request.Context(), orgID, id)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	org, err := s.orgs.GetByID(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.pdf.RenderInvoice(c.Request.Context(), org, invoice)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", invoice.Number+".pdf"))
	c.Data(http.StatusOK, "application/pdf", doc)
}

func (s *Server) resolveInvoice(c *gin.Context) (snowflake.ID, snowflake.ID, error) {
	orgID, err := s.resolveOrg(c, c.Query("org_id"))
	if err != nil {
		return 0, 0, err
	}
	id, err := snowflake.ParseString(c.Param("id"))
	if err != nil {
		return 0, 0, invoicedomain.ErrNotFound
	}
	return orgID, id, nil
}

// resolveOrg picks the organization for a request: the explicit id when
// present, otherwise the default organization.
func (s *Server) resolveOrg(c *gin.Context, raw string) (snowflake.ID, error) {
	if raw != "" {
		id, err := snowflake.ParseString(raw)
		if err != nil {
			return 0, orgdomain.ErrNotFound
		}
		return id, nil
	}
	if s.cfg.DefaultOrgID != 0 {
		return snowflake.ID(s.cfg.DefaultOrgID), nil
	}
	org, err := s.orgs.GetDefault(c.Request.Context())
	if err != nil {
		return 0, err
	}
	return org.ID, nil
}
