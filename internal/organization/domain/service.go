package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type CreateRequest struct {
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	SupportEmail string `json:"support_email"`
	CountryCode  string `json:"country_code"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Organization, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	GetDefault(ctx context.Context) (*Organization, error)
	List(ctx context.Context) ([]Organization, error)
}

var (
	ErrNotFound    = errors.New("organization_not_found")
	ErrInvalidName = errors.New("invalid_name")
	ErrInvalidSlug = errors.New("invalid_slug")
	ErrSlugTaken   = errors.New("slug_taken")
)
