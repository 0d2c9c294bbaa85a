package payement

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/pricing"
)

// CreateOrder enregistre une commande directe (sans Stripe) : seuls les
// e-mails sont envoyés, rien n'est persisté.
func (h *Handler) CreateOrder(c *gin.Context) {
	var req models.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	customer := req.Customer
	if strings.TrimSpace(customer.Email) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "E-mail requis"})
		return
	}

	overrides, err := h.overrides()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": pricesUnavailable})
		return
	}

	quote, err := pricing.Quote(req.Cart, overrides, h.policy)
	switch {
	case errors.Is(err, pricing.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	case err != nil:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case quote.BelowMinimum:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Commande minimum : " + pricing.FormatCHF(pricing.ToMinor(h.policy.MinOrder)),
		})
		return
	}

	order := models.Order{
		Number:   strings.ToUpper(uuid.NewString()[:8]),
		Currency: h.stripe.Currency,
		Customer: models.Customer{
			Name:  strings.TrimSpace(customer.FirstName + " " + customer.LastName),
			Email: strings.TrimSpace(customer.Email),
			Phone: customer.Phone,
			Address: models.Address{
				Line1:      customer.Street,
				PostalCode: customer.Zip,
				City:       customer.City,
				Country:    customer.Country,
			},
		},
		Items:    quote.OrderItems(),
		Subtotal: pricing.FromMinor(quote.Subtotal),
		Shipping: pricing.FromMinor(quote.Shipping),
		Total:    pricing.FromMinor(quote.Total),
		Note:     strings.TrimSpace(customer.Notes),
	}

	if err := h.mailer.SendOrderEmails(c.Request.Context(), order); err != nil {
		log.Printf("❌ Commande directe %s : %v", order.Number, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Envoi de l'e-mail impossible"})
		return
	}

	log.Printf("📦 Commande directe %s (%s)", order.Number, pricing.FormatCHF(quote.Total))
	c.JSON(http.StatusOK, gin.H{"ok": true, "number": order.Number})
}
