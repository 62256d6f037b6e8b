package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
)

func (a *API) GetSiteConfig(c *gin.Context) {
	siteConfig, err := a.store.GetSiteConfig(c.Request.Context())
	if err != nil {
		config.LogError(a.logger, "handlers", "GetSiteConfig", "load site config", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load site config"})
		return
	}
	c.JSON(http.StatusOK, siteConfig)
}

func (a *API) UpdateSiteConfig(c *gin.Context) {
	var input models.UpdateSiteConfig
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	siteConfig, err := a.store.UpdateSiteConfig(c.Request.Context(), &input)
	if err != nil {
		config.LogError(a.logger, "handlers", "UpdateSiteConfig", "update site config", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update site config"})
		return
	}
	c.JSON(http.StatusOK, siteConfig)
}
