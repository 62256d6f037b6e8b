package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/store"
)

const productsCachePrefix = "cache:products:"

func (a *API) ListProducts(c *gin.Context) {
	categoryId, _ := strconv.Atoi(c.Query("category_id"))
	branchId, _ := strconv.Atoi(c.Query("branch_id"))
	search := c.Query("search")
	includeInactive := c.Query("include_inactive") == "true"

	cacheable := search == "" && !includeInactive
	cacheKey := fmt.Sprintf("%sc%d:b%d", productsCachePrefix, categoryId, branchId)
	if cacheable {
		var cached []models.ProductResponse
		if found, _ := config.GetRedisObject(a.rdb, cacheKey, &cached); found {
			c.JSON(http.StatusOK, gin.H{"products": cached})
			return
		}
	}

	products, err := a.store.ListProducts(c.Request.Context(), store.ProductFilter{
		CategoryId:      categoryId,
		BranchId:        branchId,
		Search:          search,
		IncludeInactive: includeInactive,
	})
	if err != nil {
		config.LogError(a.logger, "handlers", "ListProducts", "list products", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list products"})
		return
	}

	if cacheable {
		_ = config.SetRedisObject(a.rdb, cacheKey, products, listCacheTTL)
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (a *API) GetProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}
	branchId, _ := strconv.Atoi(c.Query("branch_id"))

	product, err := a.store.GetProduct(c.Request.Context(), id, branchId)
	if err != nil {
		config.LogError(a.logger, "handlers", "GetProduct", "get product", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (a *API) CreateProduct(c *gin.Context) {
	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := a.store.GetCategory(c.Request.Context(), input.CategoryId)
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateProduct", "check category", input.CategoryId, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create product"})
		return
	}
	if category == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "category does not exist"})
		return
	}

	product, err := a.store.CreateProduct(c.Request.Context(), &input)
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateProduct", "create product", input.Name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create product"})
		return
	}

	a.invalidateCatalogCache()
	c.JSON(http.StatusCreated, product)
}

func (a *API) UpdateProduct(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product id"})
		return
	}

	var input models.NewProduct
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := a.store.UpdateProduct(c.Request.Context(), id, &input)
	if err != nil {
		config.LogError(a.logger, "handlers", "UpdateProduct", "update product", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update product"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	a.invalidateCatalogCache()
	c.JSON(http.StatusOK, product)
}
