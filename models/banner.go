package models

import "time"

type Banner struct {
	ID           int       `gorm:"primary_key" json:"id"`
	Title        string    `gorm:"size:255" json:"title"`
	ImageUrl     string    `gorm:"size:512;not null" json:"image_url"`
	ThumbnailUrl string    `gorm:"size:512" json:"thumbnail_url"`
	LinkUrl      string    `gorm:"size:512" json:"link_url"`
	SortOrder    int       `gorm:"not null;default:0;index" json:"sort_order"`
	IsActive     *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type UpdateBanner struct {
	Title     string `json:"title"`
	LinkUrl   string `json:"link_url"`
	SortOrder *int   `json:"sort_order"`
	IsActive  *bool  `json:"is_active"`
}
