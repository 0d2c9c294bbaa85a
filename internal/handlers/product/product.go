package product

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

// CatalogCache garde le dernier scan live (Redis en production).
type CatalogCache interface {
	GetCatalog(ctx context.Context) (models.Catalog, bool, error)
	SetCatalog(ctx context.Context, c models.Catalog, ttl time.Duration) error
	InvalidateCatalog(ctx context.Context) error
}

// SearchIndex est l'index de recherche des produits (Elasticsearch).
type SearchIndex interface {
	IndexCatalog(ctx context.Context, c models.Catalog) (int, error)
	Search(ctx context.Context, query string, limit int) ([]models.Product, error)
}

// Handler sert le catalogue. cache et index sont optionnels (nil).
type Handler struct {
	cfg    config.CatalogConfig
	source catalog.Source
	cache  CatalogCache
	index  SearchIndex
}

func NewHandler(cfg config.CatalogConfig, source catalog.Source, cache CatalogCache, index SearchIndex) *Handler {
	return &Handler{cfg: cfg, source: source, cache: cache, index: index}
}

// GetProducts retourne le catalogue. Une erreur ne casse jamais le
// storefront : au pire la liste est vide.
func (h *Handler) GetProducts(c *gin.Context) {
	c.JSON(http.StatusOK, h.load(c.Request.Context()))
}

func (h *Handler) load(ctx context.Context) models.Catalog {
	if h.cfg.Mode == "static" {
		cat, err := catalog.ReadFile(h.cfg.OutputFile)
		if err == nil {
			return cat
		}
		if !errors.Is(err, os.ErrNotExist) {
			log.Printf("⚠️ Catalogue statique illisible, scan live : %v", err)
		}
	}

	if h.cache != nil {
		cat, ok, err := h.cache.GetCatalog(ctx)
		if err != nil {
			log.Printf("⚠️ Cache catalogue indisponible : %v", err)
		} else if ok {
			return cat
		}
	}

	cat, err := h.generate(ctx)
	if err != nil {
		log.Printf("❌ Scan du catalogue impossible : %v", err)
		return models.Catalog{Items: []models.Product{}}
	}

	if h.cache != nil {
		if err := h.cache.SetCatalog(ctx, cat, h.cfg.CacheTTL); err != nil {
			log.Printf("⚠️ Mise en cache du catalogue impossible : %v", err)
		}
	}
	return cat
}

func (h *Handler) generate(ctx context.Context) (models.Catalog, error) {
	overrides, err := catalog.LoadOverrides(h.cfg.OverridesFile)
	if err != nil {
		log.Printf("⚠️ Overrides ignorés : %v", err)
	}
	return catalog.Generate(ctx, h.source, overrides)
}
