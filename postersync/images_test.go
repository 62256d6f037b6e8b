package postersync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"bitbucket.org/opilliashop/storefront_backend/config"
)

func newTestCache(t *testing.T, probeBase string) *ImageCache {
	t.Helper()
	t.Setenv("PRODUCT_IMAGES_DIR", t.TempDir())
	t.Setenv("POSTER_IMAGE_BASE_URL", probeBase)
	return NewImageCache(config.GetLogger())
}

func TestImageCacheShortCircuit(t *testing.T) {
	var downloads int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			atomic.AddInt32(&downloads, 1)
		}
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("jpegbytes"))
	}))
	defer srv.Close()

	cache := newTestCache(t, srv.URL)
	ctx := context.Background()

	first := cache.Resolve(ctx, "77", true, srv.URL+"/product.jpg")
	if first != "/images/products/product_77.jpg" {
		t.Fatalf("first Resolve = %q", first)
	}

	second := cache.Resolve(ctx, "77", true, srv.URL+"/product.jpg")
	if second != first {
		t.Fatalf("second Resolve = %q, want %q", second, first)
	}
	if n := atomic.LoadInt32(&downloads); n != 1 {
		t.Fatalf("downloads = %d, want exactly 1", n)
	}

	data, err := os.ReadFile(filepath.Join(cache.dir, "product_77.jpg"))
	if err != nil {
		t.Fatalf("cached file missing: %v", err)
	}
	if string(data) != "jpegbytes" {
		t.Fatalf("cached content = %q", data)
	}
}

func TestImageCacheProbing(t *testing.T) {
	// Only one historical timestamp pattern exists on the remote side.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/product_1619_55.jpg" {
			w.Header().Set("Content-Type", "image/jpeg")
			w.Write([]byte("found"))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache := newTestCache(t, srv.URL)

	path := cache.Resolve(context.Background(), "55", true, "")
	if path != "/images/products/product_55.jpg" {
		t.Fatalf("Resolve = %q", path)
	}
}

func TestImageCacheNoPhotoNoProbe(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}))
	defer srv.Close()

	cache := newTestCache(t, srv.URL)

	if path := cache.Resolve(context.Background(), "9", false, ""); path != "" {
		t.Fatalf("Resolve without photo = %q, want empty", path)
	}
}

func TestImageCacheFailureIsSilent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	cache := newTestCache(t, srv.URL)

	if path := cache.Resolve(context.Background(), "404", true, ""); path != "" {
		t.Fatalf("Resolve = %q, want empty on failure", path)
	}
}

func TestImageCacheBatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png"))
	}))
	defer srv.Close()

	cache := newTestCache(t, srv.URL)

	requests := []ImageRequest{
		{RemoteProductId: "1", HasRemotePhoto: true, KnownRemoteUrl: srv.URL + "/a.png"},
		{RemoteProductId: "2", HasRemotePhoto: true, KnownRemoteUrl: srv.URL + "/b.png"},
		{RemoteProductId: "3", HasRemotePhoto: false},
	}
	resolved := cache.ResolveBatch(context.Background(), requests)
	if len(resolved) != 2 {
		t.Fatalf("resolved %d images, want 2", len(resolved))
	}
	if resolved["1"] != "/images/products/product_1.png" {
		t.Errorf("product 1 path = %q", resolved["1"])
	}
	if _, ok := resolved["3"]; ok {
		t.Error("product without photo should not resolve")
	}
}
