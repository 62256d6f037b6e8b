package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/utils"
)

func (a *API) RecordAnalyticsEvent(c *gin.Context) {
	var input models.NewAnalyticsEvent
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.SessionId == "" {
		if sessionId, ok := utils.GetSessionIdFromContext(c.Request.Context()); ok {
			input.SessionId = sessionId
		}
	}

	clientIP, ok := utils.GetClientIPFromContext(c.Request.Context())
	if !ok {
		clientIP = c.ClientIP()
	}

	event, err := a.store.RecordAnalyticsEvent(c.Request.Context(), &input, clientIP)
	if err != nil {
		config.LogError(a.logger, "handlers", "RecordAnalyticsEvent", "record event", input.EventType, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot record event"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": event.ID})
}

func (a *API) AnalyticsSummary(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)
	if parsed, err := time.Parse("2006-01-02", c.Query("from")); err == nil {
		from = parsed
	}
	if parsed, err := time.Parse("2006-01-02", c.Query("to")); err == nil {
		to = parsed.AddDate(0, 0, 1)
	}

	summary, err := a.store.AnalyticsSummary(c.Request.Context(), from, to)
	if err != nil {
		config.LogError(a.logger, "handlers", "AnalyticsSummary", "aggregate events", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot aggregate events"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
