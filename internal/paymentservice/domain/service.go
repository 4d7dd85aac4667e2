package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type UpsertRequest struct {
	OrgID    snowflake.ID
	Provider string
	Config   map[string]any
	Position *int
}

type Service interface {
	ListCatalog(ctx context.Context) ([]CatalogProvider, error)
	ListConfigs(ctx context.Context, orgID snowflake.ID) ([]ServiceConfig, error)
	UpsertConfig(ctx context.Context, req UpsertRequest) (*ServiceConfig, error)
	SetActive(ctx context.Context, orgID snowflake.ID, provider string, isActive bool) (*ServiceConfig, error)
	GetConfig(ctx context.Context, orgID snowflake.ID, provider string) (*ServiceConfig, error)
	FirstActive(ctx context.Context, orgID snowflake.ID) (*ServiceConfig, error)
}

var (
	ErrNotFound            = errors.New("payment_service_not_found")
	ErrNoServiceConfigured = errors.New("no_payment_service_configured")
	ErrInvalidProvider     = errors.New("invalid_provider")
	ErrInvalidConfig       = errors.New("invalid_config")
)
