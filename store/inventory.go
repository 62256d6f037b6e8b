package store

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

// UpsertInventory rewrites the stock row for one product/branch pair.
func (s *Store) UpsertInventory(ctx context.Context, productId, branchId int, quantity decimal.Decimal, unit string) error {
	db := s.db.WithContext(ctx)

	var existing models.ProductInventory
	err := db.Where("product_id = ? AND branch_id = ?", productId, branchId).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row := models.ProductInventory{
			ProductId: productId,
			BranchId:  branchId,
			Quantity:  quantity,
			Unit:      unit,
		}
		return db.Create(&row).Error
	}
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"quantity": quantity}
	if unit != "" {
		updates["unit"] = unit
	}
	return db.Model(&models.ProductInventory{}).
		Where("product_id = ? AND branch_id = ?", productId, branchId).
		Updates(updates).Error
}

func (s *Store) BranchInventory(ctx context.Context, branchId int) ([]models.ProductInventory, error) {
	var rows []models.ProductInventory
	err := s.db.WithContext(ctx).
		Where("branch_id = ?", branchId).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
