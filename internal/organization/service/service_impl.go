package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	orgdomain "github.com/fakturo/fakturo/internal/organization/domain"
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
	Repo  orgdomain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  orgdomain.Repository
}

func NewService(p Params) orgdomain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("organization.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req orgdomain.CreateRequest) (*orgdomain.Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, orgdomain.ErrInvalidName
	}
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if slug == "" {
		return nil, orgdomain.ErrInvalidSlug
	}

	now := time.Now().UTC()
	org := &orgdomain.Organization{
		ID:           s.genID.Generate(),
		Name:         name,
		Slug:         slug,
		SupportEmail: strings.TrimSpace(req.SupportEmail),
		CountryCode:  strings.ToUpper(strings.TrimSpace(req.CountryCode)),
		Metadata:     datatypes.JSONMap{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Insert(ctx, s.db, org); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, orgdomain.ErrSlugTaken
		}
		return nil, err
	}

	s.log.Info("organization created",
		zap.String("org_id", org.ID.String()),
		zap.String("slug", org.Slug),
	)
	return org, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*orgdomain.Organization, error) {
	org, err := s.repo.FindByID(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, orgdomain.ErrNotFound
	}
	return org, nil
}

func (s *Service) GetDefault(ctx context.Context) (*orgdomain.Organization, error) {
	org, err := s.repo.FindDefault(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, orgdomain.ErrNotFound
	}
	return org, nil
}

func (s *Service) List(ctx context.Context) ([]orgdomain.Organization, error) {
	return s.repo.List(ctx, s.db)
}
