package store

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

func (s *Store) RecordAnalyticsEvent(ctx context.Context, input *models.NewAnalyticsEvent, clientIP string) (*models.AnalyticsEvent, error) {
	event := models.AnalyticsEvent{
		EventType: input.EventType,
		SessionId: input.SessionId,
		ProductId: input.ProductId,
		ClientIP:  clientIP,
	}
	if len(input.Payload) > 0 {
		payload, err := json.Marshal(input.Payload)
		if err != nil {
			return nil, err
		}
		event.Payload = payload
	}
	if err := s.db.WithContext(ctx).Create(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// AnalyticsSummary counts events per type within the window.
func (s *Store) AnalyticsSummary(ctx context.Context, from, to time.Time) ([]models.AnalyticsSummary, error) {
	var results []models.AnalyticsSummary
	err := s.db.WithContext(ctx).
		Model(&models.AnalyticsEvent{}).
		Select("event_type, COUNT(*) AS count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("event_type").
		Order("count desc").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
