package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"bitbucket.org/opilliashop/storefront_backend/utils"
)

// CorrelationMiddleware tags every request with an id that follows it
// through the logs. An incoming X-Correlation-Id header is honored so
// upstream callers can stitch traces together.
func CorrelationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationId := c.Request.Header.Get("X-Correlation-Id")
		if correlationId == "" {
			correlationId = uuid.NewString()
		}

		ctx := utils.SetCorrelationIdInContext(c.Request.Context(), correlationId)
		ctx = utils.SetClientIPInContext(ctx, c.ClientIP())
		if sessionId := c.Request.Header.Get("X-Session-Id"); sessionId != "" {
			ctx = utils.SetSessionIdInContext(ctx, sessionId)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Writer.Header().Set("X-Correlation-Id", correlationId)
		c.Next()
	}
}

func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		correlationId, _ := utils.GetCorrelationIdFromContext(c.Request.Context())
		logger.WithFields(logrus.Fields{
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"duration_ms":    time.Since(start).Milliseconds(),
			"correlation_id": correlationId,
		}).Info("request")
	}
}
