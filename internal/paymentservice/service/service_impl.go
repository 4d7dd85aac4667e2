package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	servicedomain "github.com/fakturo/fakturo/internal/paymentservice/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// catalog lists the provider integrations this build ships with.
var catalog = []servicedomain.CatalogProvider{
	{Provider: "mollie", DisplayName: "Mollie"},
	{Provider: "sumup", DisplayName: "SumUp"},
}

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  servicedomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  servicedomain.Repository
}

func New(p Params) servicedomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("paymentservice.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) ListCatalog(ctx context.Context) ([]servicedomain.CatalogProvider, error) {
	_ = ctx
	out := make([]servicedomain.CatalogProvider, len(catalog))
	copy(out, catalog)
	return out, nil
}

func (s *Service) ListConfigs(ctx context.Context, orgID snowflake.ID) ([]servicedomain.ServiceConfig, error) {
	return s.repo.ListByOrg(ctx, s.db, orgID)
}

func (s *Service) UpsertConfig(ctx context.Context, req servicedomain.UpsertRequest) (*servicedomain.ServiceConfig, error) {
	provider := strings.ToLower(strings.TrimSpace(req.Provider))
	if provider == "" || req.OrgID == 0 {
		return nil, servicedomain.ErrInvalidProvider
	}
	if len(req.Config) == 0 {
		return nil, servicedomain.ErrInvalidConfig
	}

	raw, err := json.Marshal(req.Config)
	if err != nil {
		return nil, servicedomain.ErrInvalidConfig
	}

	now := time.Now().UTC()
	position := 0
	if req.Position != nil {
		position = *req.Position
	}
	cfg := &servicedomain.ServiceConfig{
		ID:        s.genID.Generate(),
		OrgID:     req.OrgID,
		Provider:  provider,
		Config:    datatypes.JSON(raw),
		Position:  position,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Upsert(ctx, s.db, cfg); err != nil {
		return nil, err
	}

	s.log.Info("payment service configured",
		zap.String("org_id", cfg.OrgID.String()),
		zap.String("provider", cfg.Provider),
	)
	return cfg, nil
}

func (s *Service) SetActive(ctx context.Context, orgID snowflake.ID, provider string, isActive bool) (*servicedomain.ServiceConfig, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || orgID == 0 {
		return nil, servicedomain.ErrInvalidProvider
	}

	updated, err := s.repo.UpdateStatus(ctx, s.db, orgID, provider, isActive, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, servicedomain.ErrNotFound
	}
	return s.repo.FindByOrgProvider(ctx, s.db, orgID, provider)
}

func (s *Service) GetConfig(ctx context.Context, orgID snowflake.ID, provider string) (*servicedomain.ServiceConfig, error) {
	provider = strings.ToLower(strings.TrimSpace(provider))
	if provider == "" || orgID == 0 {
		return nil, servicedomain.ErrInvalidProvider
	}
	cfg, err := s.repo.FindByOrgProvider(ctx, s.db, orgID, provider)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, servicedomain.ErrNotFound
	}
	return cfg, nil
}

// FirstActive returns the organization's first configured payment service.
// This is the config consulted by the payment-link flow after invoice
// creation.
func (s *Service) FirstActive(ctx context.Context, orgID snowflake.ID) (*servicedomain.ServiceConfig, error) {
	cfg, err := s.repo.FindFirstActive(ctx, s.db, orgID)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, servicedomain.ErrNoServiceConfigured
	}
	return cfg, nil
}
