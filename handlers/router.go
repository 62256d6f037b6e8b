package handlers

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"bitbucket.org/opilliashop/storefront_backend/notify"
	"bitbucket.org/opilliashop/storefront_backend/postersync"
	"bitbucket.org/opilliashop/storefront_backend/store"
	"bitbucket.org/opilliashop/storefront_backend/utils"
)

// API bundles the dependencies every route handler needs.
type API struct {
	store      *store.Store
	rdb        *redis.Client
	dispatcher *notify.Dispatcher
	logger     *logrus.Logger
}

func NewAPI(st *store.Store, rdb *redis.Client, dispatcher *notify.Dispatcher, logger *logrus.Logger) *API {
	return &API{
		store:      st,
		rdb:        rdb,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func BuildRouter(api *API, sync *postersync.Handler, logger *logrus.Logger) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(CorrelationMiddleware())
	r.Use(RequestLogger(logger))

	corsConfig := cors.DefaultConfig()
	allowedOrigins := strings.TrimSpace(os.Getenv("ALLOWED_ORIGINS"))
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = utils.SplitAndTrim(allowedOrigins)
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AddAllowMethods("GET", "POST", "PUT", "DELETE", "OPTIONS")
	corsConfig.AddAllowHeaders("Origin", "Content-Type", "Authorization", "X-Correlation-Id", "X-Session-Id")
	corsConfig.AddExposeHeaders("Content-Length", "X-Correlation-Id")
	r.Use(cors.New(corsConfig))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.Static("/images/products", utils.EnvOrDefault("PRODUCT_IMAGES_DIR", "public/images/products"))
	r.Static("/uploads", utils.EnvOrDefault("UPLOADS_DIR", "public/uploads"))

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/categories", api.ListCategories)
		apiGroup.POST("/categories", api.CreateCategory)
		apiGroup.PUT("/categories/:id", api.UpdateCategory)

		apiGroup.GET("/products", api.ListProducts)
		apiGroup.GET("/products/:id", api.GetProduct)
		apiGroup.POST("/products", api.CreateProduct)
		apiGroup.PUT("/products/:id", api.UpdateProduct)

		apiGroup.GET("/branches", api.ListBranches)
		apiGroup.GET("/branches/:id/inventory", api.BranchInventory)
		apiGroup.PUT("/branches/:id", api.UpdateBranch)

		apiGroup.GET("/orders", api.ListOrders)
		apiGroup.GET("/orders/export", api.ExportOrders)
		apiGroup.GET("/orders/:id", api.GetOrder)
		apiGroup.POST("/orders", api.CreateOrder)
		apiGroup.PUT("/orders/:id/status", api.UpdateOrderStatus)

		apiGroup.GET("/banners", api.ListBanners)
		apiGroup.POST("/banners", api.CreateBanner)
		apiGroup.PUT("/banners/:id", api.UpdateBanner)
		apiGroup.DELETE("/banners/:id", api.DeleteBanner)

		apiGroup.GET("/site-config", api.GetSiteConfig)
		apiGroup.PUT("/site-config", api.UpdateSiteConfig)

		apiGroup.POST("/analytics/events", api.RecordAnalyticsEvent)
		apiGroup.GET("/analytics/summary", api.AnalyticsSummary)

		if sync != nil {
			sync.SetAfterRun(api.invalidateCatalogCache)
			sync.RegisterRoutes(apiGroup)
		}
	}

	return r
}

func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("uaphone", func(fl validator.FieldLevel) bool {
			_, err := utils.NormalizePhone(fl.Field().String())
			return err == nil
		})
	}
}
