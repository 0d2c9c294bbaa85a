package product

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/catalog"
)

// RefreshCatalog régénère le catalogue, l'écrit sur disque, vide le cache et
// réindexe la recherche si elle est configurée.
func (h *Handler) RefreshCatalog(c *gin.Context) {
	ctx := c.Request.Context()

	cat, err := h.generate(ctx)
	if err != nil {
		log.Printf("❌ Régénération du catalogue impossible : %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Régénération impossible"})
		return
	}

	if err := catalog.WriteFile(h.cfg.OutputFile, cat); err != nil {
		log.Printf("❌ Écriture de %s impossible : %v", h.cfg.OutputFile, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Écriture du catalogue impossible"})
		return
	}

	if h.cache != nil {
		if err := h.cache.InvalidateCatalog(ctx); err != nil {
			log.Printf("⚠️ Invalidation du cache impossible : %v", err)
		}
	}

	indexed := 0
	if h.index != nil {
		indexed, err = h.index.IndexCatalog(ctx, cat)
		if err != nil {
			log.Printf("❌ Indexation Elasticsearch : %v", err)
			c.JSON(http.StatusBadGateway, gin.H{"error": "Indexation impossible", "products": len(cat.Items)})
			return
		}
	}

	log.Printf("✅ Catalogue régénéré : %d produits, %d indexés", len(cat.Items), indexed)
	c.JSON(http.StatusOK, gin.H{
		"products": len(cat.Items),
		"indexed":  indexed,
		"file":     h.cfg.OutputFile,
	})
}
