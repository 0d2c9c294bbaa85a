package product

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/cache"
	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeIndex struct {
	indexed []models.Catalog
	results []models.Product
	err     error
	queries []string
}

func (f *fakeIndex) IndexCatalog(_ context.Context, c models.Catalog) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.indexed = append(f.indexed, c)
	return len(c.Items), nil
}

func (f *fakeIndex) Search(_ context.Context, q string, _ int) ([]models.Product, error) {
	f.queries = append(f.queries, q)
	return f.results, f.err
}

func writeImages(t *testing.T, root string, rels ...string) {
	t.Helper()
	for _, rel := range rels {
		p := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("img"), 0o644))
	}
}

func testConfig(t *testing.T) config.CatalogConfig {
	dir := t.TempDir()
	images := filepath.Join(dir, "images")
	writeImages(t, images, "shoes/air-max-black.jpg", "shoes/air-max-white.jpg", "tees/classic-tee.png")
	return config.CatalogConfig{
		PublicDir:     dir,
		ImagesDir:     images,
		OutputFile:    filepath.Join(dir, "products.json"),
		OverridesFile: filepath.Join(dir, "price-overrides.v2.json"),
		Mode:          "live",
		CacheTTL:      time.Minute,
	}
}

func router(h *Handler) *gin.Engine {
	r := gin.New()
	r.GET("/api/products", h.GetProducts)
	r.GET("/api/products/search", h.SearchProducts)
	r.POST("/api/admin/catalog/refresh", h.RefreshCatalog)
	return r
}

func get(r http.Handler, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func decodeCatalog(t *testing.T, w *httptest.ResponseRecorder) models.Catalog {
	t.Helper()
	var c models.Catalog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &c), w.Body.String())
	return c
}

func TestGetProductsLiveScan(t *testing.T) {
	cfg := testConfig(t)
	r := router(NewHandler(cfg, catalog.DirSource{Root: cfg.ImagesDir}, nil, nil))

	w := get(r, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, w.Code)
	c := decodeCatalog(t, w)
	require.Len(t, c.Items, 2)
	assert.Equal(t, "Air Max", c.Items[0].Title)
	assert.Equal(t, "Shoes", c.Items[0].Category)
	assert.Equal(t, 149.0, c.Items[0].Price)
	assert.Len(t, c.Items[0].Variants, 2)
}

func TestGetProductsMissingRootIsEmpty(t *testing.T) {
	cfg := testConfig(t)
	r := router(NewHandler(cfg, catalog.DirSource{Root: filepath.Join(cfg.PublicDir, "absent")}, nil, nil))

	w := get(r, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items":[]}`, w.Body.String())
}

func TestGetProductsStaticMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Mode = "static"
	static := models.Catalog{Items: []models.Product{{Title: "Figé", Category: "Tees", Sizes: []string{}, Variants: []models.Variant{}}}}
	require.NoError(t, catalog.WriteFile(cfg.OutputFile, static))

	r := router(NewHandler(cfg, catalog.DirSource{Root: cfg.ImagesDir}, nil, nil))
	c := decodeCatalog(t, get(r, http.MethodGet, "/api/products"))
	require.Len(t, c.Items, 1)
	assert.Equal(t, "Figé", c.Items[0].Title)

	require.NoError(t, os.Remove(cfg.OutputFile))
	c = decodeCatalog(t, get(r, http.MethodGet, "/api/products"))
	assert.Len(t, c.Items, 2, "sans fichier, retour au scan live")
}

func TestGetProductsUsesRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := testConfig(t)
	store := cache.NewStore(rdb)
	r := router(NewHandler(cfg, catalog.DirSource{Root: cfg.ImagesDir}, store, nil))

	assert.Len(t, decodeCatalog(t, get(r, http.MethodGet, "/api/products")).Items, 2)
	assert.True(t, mr.Exists(cache.CatalogKey))

	writeImages(t, cfg.ImagesDir, "caps/logo-cap.jpg")
	assert.Len(t, decodeCatalog(t, get(r, http.MethodGet, "/api/products")).Items, 2, "servi depuis le cache")

	mr.FastForward(2 * time.Minute)
	assert.Len(t, decodeCatalog(t, get(r, http.MethodGet, "/api/products")).Items, 3)
}

func TestGetProductsRedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	cfg := testConfig(t)
	r := router(NewHandler(cfg, catalog.DirSource{Root: cfg.ImagesDir}, cache.NewStore(rdb), nil))

	w := get(r, http.MethodGet, "/api/products")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeCatalog(t, w).Items, 2)
}

func TestSearchProducts(t *testing.T) {
	cfg := testConfig(t)
	src := catalog.DirSource{Root: cfg.ImagesDir}

	w := get(router(NewHandler(cfg, src, nil, nil)), http.MethodGet, "/api/products/search?q=air")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	idx := &fakeIndex{results: []models.Product{{Title: "Air Max"}}}
	r := router(NewHandler(cfg, src, nil, idx))

	assert.Equal(t, http.StatusBadRequest, get(r, http.MethodGet, "/api/products/search?q=%20").Code)

	w = get(r, http.MethodGet, "/api/products/search?q=air+max&limit=500")
	require.Equal(t, http.StatusOK, w.Code)
	var body struct {
		Items []models.Product `json:"items"`
		Total int              `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Total)
	assert.Equal(t, []string{"air max"}, idx.queries)

	idx.err = errors.New("cluster rouge")
	assert.Equal(t, http.StatusBadGateway, get(r, http.MethodGet, "/api/products/search?q=air").Code)
}

func TestRefreshCatalog(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	cfg := testConfig(t)
	idx := &fakeIndex{}
	r := router(NewHandler(cfg, catalog.DirSource{Root: cfg.ImagesDir}, cache.NewStore(rdb), idx))

	get(r, http.MethodGet, "/api/products")
	require.True(t, mr.Exists(cache.CatalogKey))

	w := get(r, http.MethodPost, "/api/admin/catalog/refresh")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2.0, body["products"])
	assert.Equal(t, 2.0, body["indexed"])

	assert.False(t, mr.Exists(cache.CatalogKey))
	written, err := catalog.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	assert.Len(t, written.Items, 2)
	require.Len(t, idx.indexed, 1)

	idx.err = errors.New("cluster rouge")
	assert.Equal(t, http.StatusBadGateway, get(r, http.MethodPost, "/api/admin/catalog/refresh").Code)
}
