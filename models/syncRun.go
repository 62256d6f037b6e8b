package models

import "time"

// SyncRun records one synchronization attempt with its per-phase counters.
// Errors are stored as a JSON array of strings so partial runs stay
// inspectable after the fact.
type SyncRun struct {
	ID          int        `gorm:"primary_key" json:"id"`
	Kind        string     `gorm:"size:16;not null;index" json:"kind"`
	Status      string     `gorm:"size:16;not null;index" json:"status"`
	TriggeredBy string     `gorm:"size:16;not null" json:"triggered_by"`
	Categories  int        `gorm:"not null;default:0" json:"categories"`
	Products    int        `gorm:"not null;default:0" json:"products"`
	Branches    int        `gorm:"not null;default:0" json:"branches"`
	Inventory   int        `gorm:"not null;default:0" json:"inventory"`
	Images      int        `gorm:"not null;default:0" json:"images"`
	ErrorCount  int        `gorm:"not null;default:0" json:"error_count"`
	ErrorsJSON  []byte     `gorm:"type:json" json:"errors,omitempty"`
	StartedAt   time.Time  `gorm:"not null;index" json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	DurationMs  int64      `gorm:"not null;default:0" json:"duration_ms"`
}
