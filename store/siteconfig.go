package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

// GetSiteConfig returns the stored row merged over the defaults.
func (s *Store) GetSiteConfig(ctx context.Context) (*models.SiteConfig, error) {
	config := models.DefaultSiteConfig()

	var stored models.SiteConfig
	err := s.db.WithContext(ctx).Where("id = ?", 1).Take(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &config, nil
	}
	if err != nil {
		return nil, err
	}

	if stored.SiteName != "" {
		config.SiteName = stored.SiteName
	}
	if stored.ContactPhone != "" {
		config.ContactPhone = stored.ContactPhone
	}
	if stored.ContactEmail != "" {
		config.ContactEmail = stored.ContactEmail
	}
	if stored.WorkingHours != "" {
		config.WorkingHours = stored.WorkingHours
	}
	config.DeliveryFee = stored.DeliveryFee
	config.FreeDeliveryFrom = stored.FreeDeliveryFrom
	config.MinOrderAmount = stored.MinOrderAmount
	config.InstagramUrl = stored.InstagramUrl
	config.FacebookUrl = stored.FacebookUrl
	config.UpdatedAt = stored.UpdatedAt
	return &config, nil
}

func (s *Store) UpdateSiteConfig(ctx context.Context, input *models.UpdateSiteConfig) (*models.SiteConfig, error) {
	db := s.db.WithContext(ctx)

	var stored models.SiteConfig
	err := db.Where("id = ?", 1).Take(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		stored = models.SiteConfig{ID: 1}
		if createErr := db.Create(&stored).Error; createErr != nil {
			return nil, createErr
		}
	} else if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if input.SiteName != nil {
		updates["site_name"] = *input.SiteName
	}
	if input.ContactPhone != nil {
		updates["contact_phone"] = *input.ContactPhone
	}
	if input.ContactEmail != nil {
		updates["contact_email"] = *input.ContactEmail
	}
	if input.WorkingHours != nil {
		updates["working_hours"] = *input.WorkingHours
	}
	if input.DeliveryFee != nil {
		updates["delivery_fee"] = *input.DeliveryFee
	}
	if input.FreeDeliveryFrom != nil {
		updates["free_delivery_from"] = *input.FreeDeliveryFrom
	}
	if input.MinOrderAmount != nil {
		updates["min_order_amount"] = *input.MinOrderAmount
	}
	if input.InstagramUrl != nil {
		updates["instagram_url"] = *input.InstagramUrl
	}
	if input.FacebookUrl != nil {
		updates["facebook_url"] = *input.FacebookUrl
	}
	if len(updates) > 0 {
		if err := db.Model(&stored).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetSiteConfig(ctx)
}
