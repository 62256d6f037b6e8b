package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SiteConfig is a single-row table. Reads merge stored values over the
// defaults so a fresh database serves a usable storefront immediately.
type SiteConfig struct {
	ID               int             `gorm:"primary_key" json:"id"`
	SiteName         string          `gorm:"size:255" json:"site_name"`
	ContactPhone     string          `gorm:"size:32" json:"contact_phone"`
	ContactEmail     string          `gorm:"size:255" json:"contact_email"`
	WorkingHours     string          `gorm:"size:100" json:"working_hours"`
	DeliveryFee      decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"delivery_fee"`
	FreeDeliveryFrom decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"free_delivery_from"`
	MinOrderAmount   decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"min_order_amount"`
	InstagramUrl     string          `gorm:"size:512" json:"instagram_url"`
	FacebookUrl      string          `gorm:"size:512" json:"facebook_url"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// DefaultSiteConfig returns the values served before an admin saves any.
func DefaultSiteConfig() SiteConfig {
	return SiteConfig{
		ID:           1,
		SiteName:     "Opillia Shop",
		ContactPhone: "+38 (097) 324 46 68",
		WorkingHours: "10:00-22:00 щодня",
	}
}

type UpdateSiteConfig struct {
	SiteName         *string          `json:"site_name"`
	ContactPhone     *string          `json:"contact_phone"`
	ContactEmail     *string          `json:"contact_email"`
	WorkingHours     *string          `json:"working_hours"`
	DeliveryFee      *decimal.Decimal `json:"delivery_fee"`
	FreeDeliveryFrom *decimal.Decimal `json:"free_delivery_from"`
	MinOrderAmount   *decimal.Decimal `json:"min_order_amount"`
	InstagramUrl     *string          `json:"instagram_url"`
	FacebookUrl      *string          `json:"facebook_url"`
}
