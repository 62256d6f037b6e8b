package store

import (
	"context"
	"encoding/json"
	"time"

	"bitbucket.org/opilliashop/storefront_backend/models"
)

func (s *Store) CreateSyncRun(ctx context.Context, kind, triggeredBy string) (*models.SyncRun, error) {
	run := models.SyncRun{
		Kind:        kind,
		Status:      models.SyncRunStatusRunning,
		TriggeredBy: triggeredBy,
		StartedAt:   time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

type SyncRunResult struct {
	Status     string
	Categories int
	Products   int
	Branches   int
	Inventory  int
	Images     int
	Errors     []string
}

func (s *Store) FinishSyncRun(ctx context.Context, runId int, result SyncRunResult) error {
	finishedAt := time.Now()

	var run models.SyncRun
	if err := s.db.WithContext(ctx).Where("id = ?", runId).Take(&run).Error; err != nil {
		return err
	}

	updates := map[string]interface{}{
		"status":      result.Status,
		"categories":  result.Categories,
		"products":    result.Products,
		"branches":    result.Branches,
		"inventory":   result.Inventory,
		"images":      result.Images,
		"error_count": len(result.Errors),
		"finished_at": finishedAt,
		"duration_ms": finishedAt.Sub(run.StartedAt).Milliseconds(),
	}
	if len(result.Errors) > 0 {
		errorsJSON, err := json.Marshal(result.Errors)
		if err != nil {
			return err
		}
		updates["errors_json"] = errorsJSON
	}
	return s.db.WithContext(ctx).Model(&run).Updates(updates).Error
}

func (s *Store) ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var runs []models.SyncRun
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, err
	}
	return runs, nil
}
