package payement

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// GetShippingOptions retourne la livraison proposée pour un total de panier.
func (h *Handler) GetShippingOptions(c *gin.Context) {
	cartTotal, _ := parseFloat(c.Query("cart_total"))
	c.JSON(http.StatusOK, h.policy.ShippingOptions(cartTotal))
}

// parseFloat : une valeur absente ou invalide vaut 0.
func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	return f, nil
}
