package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID              int                 `gorm:"primary_key" json:"id"`
	PosterProductId string              `gorm:"uniqueIndex;size:32;not null" json:"poster_product_id"`
	IngredientId    string              `gorm:"index;size:32" json:"ingredient_id"`
	CategoryId      int                 `gorm:"index;not null" json:"category_id"`
	Category        *Category           `gorm:"foreignKey:CategoryId" json:"-"`
	Name            string              `gorm:"size:255;not null" json:"name" binding:"required"`
	DisplayName     string              `gorm:"size:255" json:"display_name"`
	Description     string              `gorm:"type:text" json:"description"`
	Price           decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"price"`
	OriginalPrice   decimal.Decimal     `gorm:"type:decimal(20,4);default:0" json:"original_price"`
	ImageUrl        string              `gorm:"size:512" json:"image_url"`
	DisplayImageUrl string              `gorm:"size:512" json:"display_image_url"`
	IsActive        *bool               `gorm:"not null;default:true" json:"is_active"`
	AttributesJSON  []byte              `gorm:"type:json" json:"attributes"`
	CustomQuantity  decimal.NullDecimal `gorm:"type:decimal(20,4)" json:"custom_quantity"`
	CustomUnit      string              `gorm:"size:16" json:"custom_unit"`
	QuantityStep    *int                `json:"quantity_step"`
	SortOrder       int                 `gorm:"index;default:0" json:"sort_order"`
	CreatedAt       time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}

// ProductAttributes is the structured bag persisted in AttributesJSON. It
// keeps the raw remote fields the storefront occasionally needs
// (ingredient_unit drives the stock unit shown next to the price).
type ProductAttributes struct {
	IngredientUnit string `json:"ingredient_unit"`
	IngredientId   string `json:"ingredient_id,omitempty"`
	Out            string `json:"out,omitempty"`
	Photo          string `json:"photo,omitempty"`
	PhotoOrigin    string `json:"photo_origin,omitempty"`
}

func (p *Product) Attributes() ProductAttributes {
	var attrs ProductAttributes
	if len(p.AttributesJSON) > 0 {
		_ = json.Unmarshal(p.AttributesJSON, &attrs)
	}
	return attrs
}

type NewProduct struct {
	CategoryId     int             `json:"category_id" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	DisplayName    string          `json:"display_name"`
	Description    string          `json:"description"`
	Price          decimal.Decimal `json:"price"`
	OriginalPrice  decimal.Decimal `json:"original_price"`
	ImageUrl       string          `json:"image_url"`
	IsActive       *bool           `json:"is_active"`
	CustomQuantity *float64        `json:"custom_quantity"`
	CustomUnit     string          `json:"custom_unit"`
	QuantityStep   *int            `json:"quantity_step"`
	SortOrder      int             `json:"sort_order"`
}

// ProductSyncData is the fully resolved, unit-normalized form of one remote
// product: category already mapped to a local id, price already converted to
// the display unit, image already cached.
type ProductSyncData struct {
	PosterProductId string
	IngredientId    string
	CategoryId      int
	Name            string
	Description     string
	Price           decimal.Decimal
	ImageUrl        string
	IsActive        bool
	Attributes      ProductAttributes
	CustomQuantity  decimal.NullDecimal
	CustomUnit      string
	QuantityStep    *int
}

type ProductResponse struct {
	ID              int                 `json:"id"`
	PosterProductId string              `json:"poster_product_id"`
	IngredientId    string              `json:"ingredient_id"`
	CategoryId      int                 `json:"category_id"`
	Name            string              `json:"name"`
	DisplayName     string              `json:"display_name"`
	Description     string              `json:"description"`
	Price           decimal.Decimal     `json:"price"`
	OriginalPrice   decimal.Decimal     `json:"original_price"`
	ImageUrl        string              `json:"image_url"`
	DisplayImageUrl string              `json:"display_image_url"`
	Quantity        decimal.Decimal     `json:"quantity"`
	Unit            string              `json:"unit"`
	Available       bool                `json:"available"`
	IsActive        bool                `json:"is_active"`
	Attributes      ProductAttributes   `json:"attributes"`
	CustomQuantity  decimal.NullDecimal `json:"custom_quantity"`
	CustomUnit      string              `json:"custom_unit"`
	QuantityStep    *int                `json:"quantity_step"`
	CategoryName    string              `json:"category_name"`
	Category        *CategorySummary    `json:"category"`
	CreatedAt       time.Time           `json:"created_at"`
	UpdatedAt       time.Time           `json:"updated_at"`
}

type CategorySummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
}
