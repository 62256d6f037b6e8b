package models

import "time"

type Branch struct {
	ID                int       `gorm:"primary_key" json:"id"`
	PosterStorageId   string    `gorm:"uniqueIndex;size:32;not null" json:"poster_storage_id"`
	Name              string    `gorm:"size:255;not null" json:"name" binding:"required"`
	Address           string    `gorm:"type:text" json:"address"`
	Phone             string    `gorm:"size:32" json:"phone"`
	Email             string    `gorm:"size:255" json:"email"`
	WorkingHours      string    `gorm:"size:100" json:"working_hours"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	DeliveryAvailable *bool     `gorm:"not null;default:true" json:"delivery_available"`
	PickupAvailable   *bool     `gorm:"not null;default:true" json:"pickup_available"`
	IsActive          *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

type UpdateBranch struct {
	Name              string   `json:"name" binding:"required"`
	Address           string   `json:"address"`
	Phone             string   `json:"phone"`
	Email             string   `json:"email"`
	WorkingHours      string   `json:"working_hours"`
	Latitude          *float64 `json:"latitude"`
	Longitude         *float64 `json:"longitude"`
	DeliveryAvailable *bool    `json:"delivery_available"`
	PickupAvailable   *bool    `json:"pickup_available"`
	IsActive          *bool    `json:"is_active"`
}

// BranchSyncData carries one remote storage through the reconciliation
// engine. Address/phone/coordinates are fixed fallbacks when the remote
// record omits them; admins adjust them afterwards.
type BranchSyncData struct {
	PosterStorageId string
	Name            string
	Address         string
	Phone           string
	WorkingHours    string
	Latitude        float64
	Longitude       float64
}
