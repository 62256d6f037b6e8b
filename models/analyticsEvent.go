package models

import "time"

type AnalyticsEvent struct {
	ID        int       `gorm:"primary_key" json:"id"`
	EventType string    `gorm:"size:64;not null;index" json:"event_type"`
	SessionId string    `gorm:"size:64;index" json:"session_id"`
	ProductId *int      `gorm:"index" json:"product_id,omitempty"`
	Payload   []byte    `gorm:"type:json" json:"payload,omitempty"`
	ClientIP  string    `gorm:"size:64" json:"client_ip"`
	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

type NewAnalyticsEvent struct {
	EventType string                 `json:"event_type" binding:"required"`
	SessionId string                 `json:"session_id"`
	ProductId *int                   `json:"product_id"`
	Payload   map[string]interface{} `json:"payload"`
}

type AnalyticsSummary struct {
	EventType string `json:"event_type"`
	Count     int64  `json:"count"`
}
