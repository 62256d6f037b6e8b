package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
)

const categoriesCacheKey = "cache:categories"
const listCacheTTL = 5 * time.Minute

func (a *API) ListCategories(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	if !includeInactive {
		var cached []models.CategoryResponse
		if found, _ := config.GetRedisObject(a.rdb, categoriesCacheKey, &cached); found {
			c.JSON(http.StatusOK, gin.H{"categories": cached})
			return
		}
	}

	categories, err := a.store.ListCategories(c.Request.Context(), includeInactive)
	if err != nil {
		config.LogError(a.logger, "handlers", "ListCategories", "list categories", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list categories"})
		return
	}

	if !includeInactive {
		_ = config.SetRedisObject(a.rdb, categoriesCacheKey, categories, listCacheTTL)
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func (a *API) CreateCategory(c *gin.Context) {
	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := a.store.CreateCategory(c.Request.Context(), &input)
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateCategory", "create category", input, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create category"})
		return
	}

	a.invalidateCatalogCache()
	c.JSON(http.StatusCreated, category)
}

func (a *API) UpdateCategory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	var input models.NewCategory
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := a.store.UpdateCategory(c.Request.Context(), id, &input)
	if err != nil {
		config.LogError(a.logger, "handlers", "UpdateCategory", "update category", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update category"})
		return
	}
	if category == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "category not found"})
		return
	}

	a.invalidateCatalogCache()
	c.JSON(http.StatusOK, category)
}

func (a *API) invalidateCatalogCache() {
	_ = config.RemoveRedisKey(a.rdb, categoriesCacheKey)
	_ = config.RemoveRedisKeysByPrefix(a.rdb, productsCachePrefix)
}
