package server

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
)

func (s *Server) ListServiceCatalog(c *gin.Context) {
	catalog, err := s.services.ListCatalog(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": catalog})
}

func (s *Server) ListServiceConfigs(c *gin.Context) {
	orgID, err := s.resolveOrg(c, c.Query("org_id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	configs, err := s.services.ListConfigs(c.Request.Context(), orgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": configs})
}

type upsertServiceBody struct {
	OrgID    string         `json:"org_id"`
	Provider string         `json:"type"`
	Config   map[string]any `json:"config"`
	Position *int           `json:"position"`
}

func (s *Server) UpsertServiceConfig(c *gin.Context) {
	var body upsertServiceBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", errMalformedBody, err))
		return
	}
	orgID, err := s.resolveOrg(c, body.OrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	cfg, err := s.services.UpsertConfig(c.Request.Context(), servicedomain.UpsertRequest{
		OrgID:    orgID,
		Provider: body.Provider,
		Config:   body.Config,
		Position: body.Position,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

type serviceStatusBody struct {
	OrgID    string `json:"org_id"`
	IsActive bool   `json:"is_active"`
}

func (s *Server) SetServiceStatus(c *gin.Context) {
	var body serviceStatusBody
	if err := c.ShouldBindJSON(&body); err != nil {
		AbortWithError(c, fmt.Errorf("%w: %v", errMalformedBody, err))
		return
	}
	orgID, err := s.resolveOrg(c, body.OrgID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	cfg, err := s.services.SetActive(c.Request.Context(), orgID, c.Param("provider"), body.IsActive)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}
