package models

import "time"

type Category struct {
	ID               int       `gorm:"primary_key" json:"id"`
	PosterCategoryId string    `gorm:"uniqueIndex;size:32" json:"poster_category_id"`
	Name             string    `gorm:"size:255;not null" json:"name" binding:"required"`
	DisplayName      string    `gorm:"size:255" json:"display_name"`
	Description      string    `gorm:"type:text" json:"description"`
	ImageUrl         string    `gorm:"size:512" json:"image_url"`
	SortOrder        int       `gorm:"index;default:0" json:"sort_order"`
	IsActive         *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewCategory struct {
	Name        string `json:"name" binding:"required"`
	DisplayName string `json:"display_name"`
	Description string `json:"description"`
	ImageUrl    string `json:"image_url"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

// CategorySyncData carries one remote category through the reconciliation
// engine. Only the mutable fields listed here are touched on update.
type CategorySyncData struct {
	PosterCategoryId string
	Name             string
	DisplayName      string
	SortOrder        int
	IsActive         bool
}

type CategoryResponse struct {
	Category
	ProductCount int `json:"product_count"`
}
