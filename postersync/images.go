package postersync

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"bitbucket.org/opilliashop/storefront_backend/config"
	"bitbucket.org/opilliashop/storefront_backend/utils"
)

// imageExtensions are the accepted cached-file extensions, checked in
// this order.
var imageExtensions = []string{"jpg", "jpeg", "png", "webp"}

// probeTimestamps are the historical upload timestamps the remote CDN has
// used in product image filenames. Probing stops at the first hit.
var probeTimestamps = []string{
	"1617",
	"1618",
	"1619",
	"1620",
	"1621",
	"1622",
}

const imageBatchSize = 5

// ImageCache downloads remote product images once and serves them from a
// local directory afterwards.
type ImageCache struct {
	dir          string
	publicPrefix string
	probeBase    string
	probe        *http.Client
	download     *http.Client
	logger       *logrus.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewImageCache(logger *logrus.Logger) *ImageCache {
	dir := utils.EnvOrDefault("PRODUCT_IMAGES_DIR", "public/images/products")
	probeBase := utils.EnvOrDefault("POSTER_IMAGE_BASE_URL", "https://joinposter.com/upload/pos_cdb_214175/menu")

	return &ImageCache{
		dir:          dir,
		publicPrefix: "/images/products",
		probeBase:    strings.TrimRight(probeBase, "/"),
		probe:        &http.Client{Timeout: 5 * time.Second},
		download:     &http.Client{Timeout: 10 * time.Second},
		logger:       logger,
		inFlight:     map[string]struct{}{},
	}
}

// Resolve returns the public path of the cached image for the product, or
// "" when no image could be obtained. The empty result is not an error;
// image failures never fail a sync item.
func (c *ImageCache) Resolve(ctx context.Context, remoteProductId string, hasRemotePhoto bool, knownRemoteUrl string) string {
	remoteProductId = strings.TrimSpace(remoteProductId)
	if remoteProductId == "" {
		return ""
	}

	if cached := c.cachedPath(remoteProductId); cached != "" {
		return cached
	}

	remoteUrl := strings.TrimSpace(knownRemoteUrl)
	if remoteUrl == "" {
		if !hasRemotePhoto {
			return ""
		}
		remoteUrl = c.probeCandidates(ctx, remoteProductId)
	}
	if remoteUrl == "" {
		return ""
	}

	return c.downloadOnce(ctx, remoteProductId, remoteUrl)
}

// ResolveBatch resolves a set of product images with bounded concurrency
// and returns remote product id to public path for the ones that
// succeeded.
func (c *ImageCache) ResolveBatch(ctx context.Context, requests []ImageRequest) map[string]string {
	results := make(map[string]string, len(requests))
	var resultsMu sync.Mutex

	sem := make(chan struct{}, imageBatchSize)
	var wg sync.WaitGroup
	for _, req := range requests {
		wg.Add(1)
		sem <- struct{}{}
		go func(req ImageRequest) {
			defer wg.Done()
			defer func() { <-sem }()
			if path := c.Resolve(ctx, req.RemoteProductId, req.HasRemotePhoto, req.KnownRemoteUrl); path != "" {
				resultsMu.Lock()
				results[req.RemoteProductId] = path
				resultsMu.Unlock()
			}
		}(req)
	}
	wg.Wait()
	return results
}

type ImageRequest struct {
	RemoteProductId string
	HasRemotePhoto  bool
	KnownRemoteUrl  string
}

func (c *ImageCache) cachedPath(remoteProductId string) string {
	for _, ext := range imageExtensions {
		name := fmt.Sprintf("product_%s.%s", remoteProductId, ext)
		if _, err := os.Stat(filepath.Join(c.dir, name)); err == nil {
			return c.publicPrefix + "/" + name
		}
	}
	return ""
}

func (c *ImageCache) probeCandidates(ctx context.Context, remoteProductId string) string {
	for _, ts := range probeTimestamps {
		for _, ext := range imageExtensions {
			candidate := fmt.Sprintf("%s/product_%s_%s.%s", c.probeBase, ts, remoteProductId, ext)
			if c.exists(ctx, candidate) {
				return candidate
			}
		}
	}
	return ""
}

func (c *ImageCache) exists(ctx context.Context, url string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// downloadOnce fetches the remote file and writes it under the
// deterministic name. An existing cached file is never overwritten; two
// concurrent callers for the same id collapse into one download.
func (c *ImageCache) downloadOnce(ctx context.Context, remoteProductId, remoteUrl string) string {
	c.mu.Lock()
	if _, busy := c.inFlight[remoteProductId]; busy {
		c.mu.Unlock()
		return ""
	}
	c.inFlight[remoteProductId] = struct{}{}
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		delete(c.inFlight, remoteProductId)
		c.mu.Unlock()
	}()

	if cached := c.cachedPath(remoteProductId); cached != "" {
		return cached
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, remoteUrl, nil)
	if err != nil {
		return ""
	}
	resp, err := c.download.Do(req)
	if err != nil {
		c.logger.WithFields(logrus.Fields{
			"product_id": remoteProductId,
			"url":        remoteUrl,
		}).Debug("product image download failed")
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	ext := extensionFor(remoteUrl, resp.Header.Get("Content-Type"))
	name := fmt.Sprintf("product_%s.%s", remoteProductId, ext)

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		config.LogError(c.logger, "postersync", "downloadOnce", "create image dir", c.dir, err)
		return ""
	}

	target := filepath.Join(c.dir, name)
	tmp := target + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return ""
	}
	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(tmp)
		return ""
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return ""
	}
	if err := os.Rename(tmp, target); err != nil {
		os.Remove(tmp)
		return ""
	}
	return c.publicPrefix + "/" + name
}

func extensionFor(remoteUrl, contentType string) string {
	lower := strings.ToLower(remoteUrl)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, "."+ext) {
			return ext
		}
	}
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	default:
		return "jpg"
	}
}
