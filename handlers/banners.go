package handlers

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/models"
	"bitbucket.org/opilliashop/storefront_backend/utils"
)

const maxBannerSize = 5 << 20

const thumbnailWidth = 400

var allowedBannerTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

func (a *API) ListBanners(c *gin.Context) {
	includeInactive := c.Query("include_inactive") == "true"

	banners, err := a.store.ListBanners(c.Request.Context(), includeInactive)
	if err != nil {
		config.LogError(a.logger, "handlers", "ListBanners", "list banners", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot list banners"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"banners": banners})
}

// CreateBanner accepts a multipart form with an image file plus optional
// title/link fields. A 400px thumbnail is generated alongside the
// original.
func (a *API) CreateBanner(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image file is required"})
		return
	}
	if fileHeader.Size > maxBannerSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image exceeds 5MB limit"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot read image"})
		return
	}

	contentType := http.DetectContentType(data)
	ext, ok := allowedBannerTypes[contentType]
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image type"})
		return
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "corrupt image"})
		return
	}
	thumbnail := imaging.Resize(src, thumbnailWidth, 0, imaging.Lanczos)

	var thumbBuf bytes.Buffer
	if err := imaging.Encode(&thumbBuf, thumbnail, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		config.LogError(a.logger, "handlers", "CreateBanner", "encode thumbnail", nil, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot process image"})
		return
	}

	name := "banner-" + uuid.NewString()
	imageUrl, thumbnailUrl, err := a.saveBannerFiles(c, name, ext, contentType, data, thumbBuf.Bytes())
	if err != nil {
		config.LogError(a.logger, "handlers", "CreateBanner", "save banner files", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot store image"})
		return
	}

	sortOrder, _ := strconv.Atoi(c.PostForm("sort_order"))
	banner := models.Banner{
		Title:        strings.TrimSpace(c.PostForm("title")),
		ImageUrl:     imageUrl,
		ThumbnailUrl: thumbnailUrl,
		LinkUrl:      strings.TrimSpace(c.PostForm("link_url")),
		SortOrder:    sortOrder,
		IsActive:     utils.NewTrue(),
	}
	if err := a.store.CreateBanner(c.Request.Context(), &banner); err != nil {
		config.LogError(a.logger, "handlers", "CreateBanner", "persist banner", name, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot create banner"})
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (a *API) saveBannerFiles(c *gin.Context, name, ext, contentType string, original, thumbnail []byte) (string, string, error) {
	imageName := name + ext
	thumbName := name + "_thumb.jpg"

	if utils.GetStorageProvider() == utils.StorageProviderGCS {
		ctx := c.Request.Context()
		if err := utils.SaveBytesToGCS(ctx, "banners/"+imageName, original, contentType); err != nil {
			return "", "", err
		}
		if err := utils.SaveBytesToGCS(ctx, "banners/"+thumbName, thumbnail, "image/jpeg"); err != nil {
			return "", "", err
		}
		return utils.GetGCSPublicURL("banners/" + imageName), utils.GetGCSPublicURL("banners/" + thumbName), nil
	}

	bannersDir := filepath.Join(utils.EnvOrDefault("UPLOADS_DIR", "public/uploads"), "banners")
	if err := os.MkdirAll(bannersDir, 0o755); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(filepath.Join(bannersDir, imageName), original, 0o644); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(filepath.Join(bannersDir, thumbName), thumbnail, 0o644); err != nil {
		return "", "", err
	}
	return fmt.Sprintf("/uploads/banners/%s", imageName), fmt.Sprintf("/uploads/banners/%s", thumbName), nil
}

func (a *API) UpdateBanner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid banner id"})
		return
	}

	var input models.UpdateBanner
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	banner, err := a.store.UpdateBanner(c.Request.Context(), id, &input)
	if err != nil {
		config.LogError(a.logger, "handlers", "UpdateBanner", "update banner", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot update banner"})
		return
	}
	if banner == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "banner not found"})
		return
	}
	c.JSON(http.StatusOK, banner)
}

func (a *API) DeleteBanner(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid banner id"})
		return
	}

	deleted, err := a.store.DeleteBanner(c.Request.Context(), id)
	if err != nil {
		config.LogError(a.logger, "handlers", "DeleteBanner", "delete banner", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "cannot delete banner"})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "banner not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
