package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

func (s *Store) ListCategories(ctx context.Context, includeInactive bool) ([]models.CategoryResponse, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Category{}).
		Select("categories.*, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.is_active = true").
		Group("categories.id").
		Order("categories.sort_order asc, categories.id asc")
	if !includeInactive {
		query = query.Where("categories.is_active = true")
	}

	var results []models.CategoryResponse
	if err := query.Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Store) GetCategory(ctx context.Context, id int) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Store) CreateCategory(ctx context.Context, input *models.NewCategory) (*models.Category, error) {
	category := models.Category{
		Name:        strings.TrimSpace(input.Name),
		DisplayName: strings.TrimSpace(input.DisplayName),
		Description: strings.TrimSpace(input.Description),
		ImageUrl:    strings.TrimSpace(input.ImageUrl),
		SortOrder:   input.SortOrder,
		IsActive:    input.IsActive,
	}
	if category.DisplayName == "" {
		category.DisplayName = category.Name
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (s *Store) UpdateCategory(ctx context.Context, id int, input *models.NewCategory) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	var category models.Category
	err := db.Where("id = ?", id).Take(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         strings.TrimSpace(input.Name),
		"display_name": strings.TrimSpace(input.DisplayName),
		"description":  strings.TrimSpace(input.Description),
		"image_url":    strings.TrimSpace(input.ImageUrl),
		"sort_order":   input.SortOrder,
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := db.Model(&category).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// UpsertCategory writes one remote category keyed by its external id and
// returns the local row. The stored display name is only overwritten when
// it still mirrors the remote name, so manual renames survive resyncs.
func (s *Store) UpsertCategory(ctx context.Context, data *models.CategorySyncData) (*models.Category, error) {
	db := s.db.WithContext(ctx)

	var existing models.Category
	err := db.Where("poster_category_id = ?", data.PosterCategoryId).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		category := models.Category{
			PosterCategoryId: data.PosterCategoryId,
			Name:             data.Name,
			DisplayName:      data.DisplayName,
			SortOrder:        data.SortOrder,
			IsActive:         boolPtr(data.IsActive),
		}
		if createErr := db.Create(&category).Error; createErr != nil {
			return nil, createErr
		}
		return &category, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":       data.Name,
		"sort_order": data.SortOrder,
		"is_active":  data.IsActive,
	}
	if existing.DisplayName == "" || existing.DisplayName == existing.Name {
		updates["display_name"] = data.DisplayName
	}
	if err := db.Model(&existing).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

// FallbackCategory returns the category with the lowest sort order, or
// nil when the table is empty.
func (s *Store) FallbackCategory(ctx context.Context) (*models.Category, error) {
	var category models.Category
	err := s.db.WithContext(ctx).
		Order("sort_order asc, id asc").
		First(&category).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}

func boolPtr(b bool) *bool {
	return &b
}
