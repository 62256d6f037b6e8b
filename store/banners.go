package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

func (s *Store) ListBanners(ctx context.Context, includeInactive bool) ([]models.Banner, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Banner{}).Order("sort_order asc, id asc")
	if !includeInactive {
		query = query.Where("is_active = true")
	}

	var banners []models.Banner
	if err := query.Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

func (s *Store) CreateBanner(ctx context.Context, banner *models.Banner) error {
	return s.db.WithContext(ctx).Create(banner).Error
}

func (s *Store) UpdateBanner(ctx context.Context, id int, input *models.UpdateBanner) (*models.Banner, error) {
	db := s.db.WithContext(ctx)

	var banner models.Banner
	err := db.Where("id = ?", id).Take(&banner).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"title":    input.Title,
		"link_url": input.LinkUrl,
	}
	if input.SortOrder != nil {
		updates["sort_order"] = *input.SortOrder
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := db.Model(&banner).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (s *Store) DeleteBanner(ctx context.Context, id int) (bool, error) {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Banner{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
