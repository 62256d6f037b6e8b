package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
)

func (a *API) ListBranches(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	branches, err := a.store.ListBranches(c.Request.Context(), includeInactive)
	if err != nil {
		config.LogError(a.logger, "handlers", "ListBranches", "list branches", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list branches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"branches": branches})
}

func (a *API) BranchInventory(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	branch, err := a.store.GetBranch(c.Request.Context(), id)
	if err != nil {
		config.LogError(a.logger, "handlers", "BranchInventory", "get branch", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load branch"})
		return
	}
	if branch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "branch not found"})
		return
	}

	inventory, err := a.store.BranchInventory(c.Request.Context(), id)
	if err != nil {
		config.LogError(a.logger, "handlers", "BranchInventory", "list inventory", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot load inventory"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"branch": branch, "inventory": inventory})
}

func (a *API) UpdateBranch(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid branch id"})
		return
	}

	var input models.UpdateBranch
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	branch, err := a.store.UpdateBranch(c.Request.Context(), id, &input)
	if err != nil {
		config.LogError(a.logger, "handlers", "UpdateBranch", "update branch", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update branch"})
		return
	}
	if branch == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "branch not found"})
		return
	}
	c.JSON(http.StatusOK, branch)
}
