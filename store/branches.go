package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

func (s *Store) ListBranches(ctx context.Context, includeInactive bool) ([]models.Branch, error) {
	db := s.db.WithContext(ctx)

	query := db.Model(&models.Branch{}).Order("id asc")
	if !includeInactive {
		query = query.Where("is_active = true")
	}

	var branches []models.Branch
	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

func (s *Store) GetBranch(ctx context.Context, id int) (*models.Branch, error) {
	var branch models.Branch
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(&branch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &branch, nil
}

func (s *Store) UpdateBranch(ctx context.Context, id int, input *models.UpdateBranch) (*models.Branch, error) {
	db := s.db.WithContext(ctx)

	var branch models.Branch
	err := db.Where("id = ?", id).Take(&branch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":          strings.TrimSpace(input.Name),
		"address":       strings.TrimSpace(input.Address),
		"phone":         strings.TrimSpace(input.Phone),
		"email":         strings.TrimSpace(input.Email),
		"working_hours": strings.TrimSpace(input.WorkingHours),
	}
	if input.Latitude != nil {
		updates["latitude"] = *input.Latitude
	}
	if input.Longitude != nil {
		updates["longitude"] = *input.Longitude
	}
	if input.DeliveryAvailable != nil {
		updates["delivery_available"] = *input.DeliveryAvailable
	}
	if input.PickupAvailable != nil {
		updates["pickup_available"] = *input.PickupAvailable
	}
	if input.IsActive != nil {
		updates["is_active"] = *input.IsActive
	}
	if err := db.Model(&branch).Updates(updates).Error; err != nil {
		return nil, err
	}
	return &branch, nil
}

// UpsertBranch writes one remote storage keyed by its external id. On
// update only the name is refreshed, so locally edited contact details
// and coordinates survive resyncs.
func (s *Store) UpsertBranch(ctx context.Context, data *models.BranchSyncData) (*models.Branch, error) {
	db := s.db.WithContext(ctx)

	var existing models.Branch
	err := db.Where("poster_storage_id = ?", data.PosterStorageId).Take(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		branch := models.Branch{
			PosterStorageId:   data.PosterStorageId,
			Name:              data.Name,
			Address:           data.Address,
			Phone:             data.Phone,
			WorkingHours:      data.WorkingHours,
			Latitude:          data.Latitude,
			Longitude:         data.Longitude,
			DeliveryAvailable: boolPtr(true),
			PickupAvailable:   boolPtr(true),
			IsActive:          boolPtr(true),
		}
		if createErr := db.Create(&branch).Error; createErr != nil {
			return nil, createErr
		}
		return &branch, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Model(&existing).Update("name", data.Name).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}
