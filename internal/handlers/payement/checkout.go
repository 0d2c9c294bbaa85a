package payement

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v83"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/pricing"
	"storefront_back_end/internal/services"
)

const (
	defaultOrigin    = "http://localhost:3000"
	maxOrderItemsLen = 500
)

// CreateCheckoutSession crée une session Stripe Checkout et retourne son URL.
// Les prix sont recalculés côté serveur.
func (h *Handler) CreateCheckoutSession(c *gin.Context) {
	var req models.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Requête invalide"})
		return
	}
	if len(req.Cart) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	overrides, err := h.overrides()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": pricesUnavailable})
		return
	}

	quote, err := pricing.Quote(req.Cart, overrides, h.policy)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if quote.BelowMinimum {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Commande minimum : " + pricing.FormatCHF(pricing.ToMinor(h.policy.MinOrder)),
		})
		return
	}

	origin := h.origin(c)
	params := h.sessionParams(origin, strings.TrimSpace(req.Email), quote)
	params.Context = c.Request.Context()
	params.SetIdempotencyKey(uuid.NewString())

	s, err := h.sessions.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe checkout:", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": services.StripeErrorMessage(err)})
		return
	}

	log.Printf("💳 Session Checkout créée : %s (%s)", s.ID, pricing.FormatCHF(quote.Total))
	c.JSON(http.StatusOK, models.CheckoutResponse{URL: s.URL})
}

func (h *Handler) sessionParams(origin, email string, quote pricing.Breakdown) *stripe.CheckoutSessionParams {
	currency := h.stripe.Currency

	params := &stripe.CheckoutSessionParams{
		Mode:                     stripe.String(string(stripe.CheckoutSessionModePayment)),
		BillingAddressCollection: stripe.String(string(stripe.CheckoutSessionBillingAddressCollectionRequired)),
		ShippingAddressCollection: &stripe.CheckoutSessionShippingAddressCollectionParams{
			AllowedCountries: stripe.StringSlice(h.stripe.AllowedCountries),
		},
		PhoneNumberCollection: &stripe.CheckoutSessionPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
		ShippingOptions: []*stripe.CheckoutSessionShippingOptionParams{
			{
				ShippingRateData: &stripe.CheckoutSessionShippingOptionShippingRateDataParams{
					Type:        stripe.String("fixed_amount"),
					DisplayName: stripe.String(shippingLabel(quote)),
					FixedAmount: &stripe.CheckoutSessionShippingOptionShippingRateDataFixedAmountParams{
						Amount:   stripe.Int64(quote.Shipping),
						Currency: stripe.String(currency),
					},
				},
			},
		},
		SuccessURL: stripe.String(origin + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:  stripe.String(origin + "/checkout?canceled=1"),
	}
	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}

	for _, line := range quote.Lines {
		product := &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name: stripe.String(line.Name),
		}
		if img := absoluteImageURL(origin, line.Item.Image); img != "" {
			product.Images = []*string{stripe.String(img)}
		}
		params.LineItems = append(params.LineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				UnitAmount:  stripe.Int64(line.UnitMinor),
				ProductData: product,
			},
			Quantity: stripe.Int64(line.Quantity),
		})
	}

	if summary, ok := orderItemsSummary(quote); ok {
		params.AddMetadata("order_items", summary)
	}
	return params
}

func shippingLabel(q pricing.Breakdown) string {
	if q.FreeShipping {
		return "Livraison gratuite"
	}
	return "Livraison standard"
}

type orderItemSummary struct {
	Title string  `json:"title"`
	Size  string  `json:"size"`
	Qty   int64   `json:"qty"`
	Price float64 `json:"price"`
}

// orderItemsSummary résume le panier pour les métadonnées Stripe, limitées
// à 500 caractères par valeur.
func orderItemsSummary(q pricing.Breakdown) (string, bool) {
	items := make([]orderItemSummary, 0, len(q.Lines))
	for _, l := range q.Lines {
		items = append(items, orderItemSummary{
			Title: l.Item.Title,
			Size:  l.Item.Size,
			Qty:   l.Quantity,
			Price: pricing.FromMinor(l.UnitMinor),
		})
	}
	data, err := json.Marshal(items)
	if err != nil || len(data) > maxOrderItemsLen {
		return "", false
	}
	return string(data), true
}

// origin : SITE_URL, sinon l'en-tête Origin, sinon localhost:3000.
func (h *Handler) origin(c *gin.Context) string {
	for _, candidate := range []string{h.siteURL, c.GetHeader("Origin")} {
		if o, err := originOf(candidate); err == nil {
			return o
		}
	}
	return defaultOrigin
}

func originOf(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", errors.New("origine invalide")
	}
	return u.Scheme + "://" + u.Host, nil
}

func absoluteImageURL(origin, image string) string {
	image = strings.TrimSpace(image)
	if image == "" {
		return ""
	}
	lower := strings.ToLower(image)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return image
	}
	if !strings.HasPrefix(image, "/") {
		image = "/" + image
	}
	return origin + image
}
