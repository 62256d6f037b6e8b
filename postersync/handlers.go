package postersync

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/store"
)

const (
	fullSyncLockKey = "postersync:run"
	syncLockTTL     = 15 * time.Minute
)

// RunStore persists run bookkeeping. The concrete adapter lives in the
// store package; tests inject fakes.
type RunStore interface {
	CreateSyncRun(ctx context.Context, kind, triggeredBy string) (*models.SyncRun, error)
	FinishSyncRun(ctx context.Context, runId int, result store.SyncRunResult) error
	ListSyncRuns(ctx context.Context, limit int) ([]models.SyncRun, error)
}

// Handler exposes the sync pipeline over HTTP. A redis lock keeps runs
// exclusive across replicas; the local mutex covers single-instance
// deployments without redis.
type Handler struct {
	engine *Engine
	store  RunStore
	locker *redislock.Client
	logger *logrus.Logger

	afterRun func()

	mu sync.Mutex
}

func NewHandler(engine *Engine, st RunStore, locker *redislock.Client, logger *logrus.Logger) *Handler {
	return &Handler{
		engine: engine,
		store:  st,
		locker: locker,
		logger: logger,
	}
}

// SetAfterRun registers a callback invoked once a run ends, successful or
// not. Used to drop cached catalog responses that the run may have outdated.
func (h *Handler) SetAfterRun(fn func()) {
	h.afterRun = fn
}

func (h *Handler) RegisterRoutes(group *gin.RouterGroup) {
	group.POST("/sync/full", h.FullSync)
	group.POST("/sync/inventory", h.InventorySync)
	group.POST("/sync/images", h.ImagesSync)
	group.GET("/sync/runs", h.SyncRuns)
}

func (h *Handler) FullSync(c *gin.Context) {
	h.runGuarded(c, models.SyncKindFull, h.engine.RunFull)
}

func (h *Handler) InventorySync(c *gin.Context) {
	h.runGuarded(c, models.SyncKindInventory, h.engine.RunInventory)
}

func (h *Handler) ImagesSync(c *gin.Context) {
	h.runGuarded(c, models.SyncKindImages, h.engine.RunImages)
}

func (h *Handler) SyncRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	runs, err := h.store.ListSyncRuns(c.Request.Context(), limit)
	if err != nil {
		config.LogError(h.logger, "postersync", "SyncRuns", "list sync runs", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list sync runs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (h *Handler) runGuarded(c *gin.Context, kind string, run func(context.Context) (*Summary, error)) {
	if !h.mu.TryLock() {
		c.JSON(http.StatusConflict, gin.H{"error": "a sync run is already in progress"})
		return
	}
	defer h.mu.Unlock()

	ctx := c.Request.Context()

	if h.locker != nil {
		lock, err := h.locker.Obtain(ctx, fullSyncLockKey, syncLockTTL, nil)
		if errors.Is(err, redislock.ErrNotObtained) {
			c.JSON(http.StatusConflict, gin.H{"error": "a sync run is already in progress"})
			return
		}
		if err != nil {
			config.LogError(h.logger, "postersync", "runGuarded", "obtain sync lock", kind, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot obtain sync lock"})
			return
		}
		defer lock.Release(context.Background())
	}

	runRow, err := h.store.CreateSyncRun(ctx, kind, models.SyncTriggeredManual)
	if err != nil {
		config.LogError(h.logger, "postersync", "runGuarded", "create sync run", kind, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot record sync run"})
		return
	}

	// A started run proceeds to completion. Detach from the request
	// context so a client disconnect or proxy timeout cannot abort
	// catalog fetches or writes mid-run.
	summary, runErr := run(context.WithoutCancel(ctx))
	status := runStatus(summary, runErr)
	h.finishRun(runRow.ID, kind, status, summary)
	if h.afterRun != nil {
		h.afterRun()
	}

	if runErr != nil {
		h.logger.WithFields(logrus.Fields{
			"kind":   kind,
			"run_id": runRow.ID,
		}).WithError(runErr).Error("sync run aborted")
		c.JSON(http.StatusBadGateway, gin.H{
			"success": false,
			"message": runErr.Error(),
			"results": summary,
		})
		return
	}

	h.logger.WithFields(logrus.Fields{
		"kind":       kind,
		"run_id":     runRow.ID,
		"categories": summary.Categories,
		"products":   summary.Products,
		"branches":   summary.Branches,
		"inventory":  summary.Inventory,
		"errors":     len(summary.Errors),
	}).Info("sync run finished")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "sync completed",
		"results": summary,
	})
}

func (h *Handler) finishRun(runId int, kind, status string, summary *Summary) {
	result := store.SyncRunResult{
		Status:     status,
		Categories: summary.Categories,
		Products:   summary.Products,
		Branches:   summary.Branches,
		Inventory:  summary.Inventory,
		Images:     summary.Images,
		Errors:     summary.Errors,
	}
	if err := h.store.FinishSyncRun(context.Background(), runId, result); err != nil {
		config.LogError(h.logger, "postersync", "finishRun", "finish sync run", kind, err)
	}
}

func runStatus(summary *Summary, runErr error) string {
	switch {
	case runErr != nil:
		return models.SyncRunStatusFailed
	case len(summary.Errors) > 0:
		return models.SyncRunStatusPartial
	default:
		return models.SyncRunStatusSuccess
	}
}
