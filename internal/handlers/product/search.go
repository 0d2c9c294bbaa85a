package product

import (
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// SearchProducts : recherche plein texte sur titre, catégorie et couleurs.
func (h *Handler) SearchProducts(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Paramètre q requis"})
		return
	}
	if h.index == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Recherche indisponible"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultSearchLimit)))
	if err != nil || limit < 1 || limit > maxSearchLimit {
		limit = defaultSearchLimit
	}

	items, err := h.index.Search(c.Request.Context(), query, limit)
	if err != nil {
		log.Printf("❌ Erreur recherche %q : %v", query, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Erreur de recherche"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}
