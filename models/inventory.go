package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductInventory tracks per-branch stock levels. Rows are keyed by the
// product/branch pair so repeated snapshots rewrite in place.
type ProductInventory struct {
	ProductId int             `gorm:"primaryKey" json:"product_id"`
	BranchId  int             `gorm:"primaryKey" json:"branch_id"`
	Quantity  decimal.Decimal `gorm:"type:decimal(20,4);not null;default:0" json:"quantity"`
	Unit      string          `gorm:"size:16" json:"unit"`
	UpdatedAt time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}
