package payement

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

const maxWebhookBody = int64(65536)

// HandleStripeWebhook vérifie la signature Stripe puis envoie les e-mails de
// la commande. Une fois la signature validée, la réponse est toujours 200 :
// les erreurs sont journalisées.
func (h *Handler) HandleStripeWebhook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Lecture de la requête impossible"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature Stripe manquante"})
		return
	}

	event, err := webhook.ConstructEventWithOptions(payload, signature, h.stripe.WebhookSecret,
		webhook.ConstructEventOptions{IgnoreAPIVersionMismatch: true})
	if err != nil {
		log.Printf("❌ Signature webhook invalide : %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
		return
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		var s stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &s); err != nil {
			log.Printf("❌ Session illisible dans l'événement %s : %v", event.ID, err)
			break
		}
		if event.Type == stripe.EventTypeCheckoutSessionCompleted && !isPaid(s.PaymentStatus) {
			log.Printf("⏳ Session %s en attente de paiement (%s)", s.ID, s.PaymentStatus)
			break
		}
		h.processSession(c.Request.Context(), s.ID)
	default:
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *Handler) processSession(ctx context.Context, id string) {
	if id == "" {
		return
	}

	first, err := h.dedup.MarkProcessed(ctx, id, processedTTL)
	if err != nil {
		log.Printf("⚠️ Déduplication indisponible pour %s : %v", id, err)
	} else if !first {
		log.Printf("🔁 Session %s déjà traitée", id)
		return
	}

	params := expandedParams()
	params.Context = ctx
	s, err := h.sessions.Get(id, params)
	if err != nil {
		log.Printf("❌ Récupération de la session %s impossible : %v", id, err)
		if ferr := h.dedup.Forget(ctx, id); ferr != nil {
			log.Printf("⚠️ Impossible d'oublier la session %s : %v", id, ferr)
		}
		return
	}

	order := OrderFromSession(s)
	if err := h.mailer.SendOrderEmails(ctx, order); err != nil {
		log.Printf("❌ Commande %s : e-mails incomplets : %v", order.Number, err)
		return
	}
	log.Printf("✅ Commande %s traitée (%s)", order.Number, id)
}
