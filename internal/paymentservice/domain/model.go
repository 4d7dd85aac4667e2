// Package domain contains models for per-organization payment service
// configuration. A ServiceConfig is the record the invoice flow consults to
// decide which provider issues hosted payment URLs for an organization.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// CatalogProvider describes a provider integration the platform supports.
type CatalogProvider struct {
	Provider    string `json:"provider"`
	DisplayName string `json:"display_name"`
}

// ServiceConfig is an organization's configuration for one payment provider.
// The config column carries provider credentials (API key, merchant code).
// Position orders configs; the active config with the lowest position is the
// one used when creating payment links.
type ServiceConfig struct {
	ID        snowflake.ID   `json:"id" gorm:"primaryKey"`
	OrgID     snowflake.ID   `json:"org_id" gorm:"column:org_id;not null;uniqueIndex:ux_payment_services_org_provider,priority:1"`
	Provider  string         `json:"type" gorm:"type:text;not null;uniqueIndex:ux_payment_services_org_provider,priority:2"`
	Config    datatypes.JSON `json:"config" gorm:"type:jsonb;not null"`
	Position  int            `json:"position" gorm:"not null;default:0"`
	IsActive  bool           `json:"is_active" gorm:"not null;default:true"`
	CreatedAt time.Time      `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName sets the database table name.
func (ServiceConfig) TableName() string { return "payment_services" }
