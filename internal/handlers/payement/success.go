package payement

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront_back_end/internal/services"
)

// GetCheckoutSuccess retourne le récapitulatif affiché sur la page de succès.
func (h *Handler) GetCheckoutSuccess(c *gin.Context) {
	id := c.Query("session_id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id manquant"})
		return
	}

	params := expandedParams()
	params.Context = c.Request.Context()
	s, err := h.sessions.Get(id, params)
	if err != nil {
		log.Printf("❌ Session %s introuvable : %v", id, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": services.StripeErrorMessage(err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":          OrderFromSession(s),
		"payment_status": string(s.PaymentStatus),
	})
}
