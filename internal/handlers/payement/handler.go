package payement

import (
	"context"
	"log"
	"time"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
	"storefront_back_end/internal/pricing"
	"storefront_back_end/internal/services"
)

// OrderMailer envoie les e-mails d'une commande.
type OrderMailer interface {
	SendOrderEmails(ctx context.Context, o models.Order) error
}

// Deduper retient les sessions Stripe déjà traitées.
type Deduper interface {
	MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error)
	Forget(ctx context.Context, id string) error
}

const processedTTL = 7 * 24 * time.Hour

// Handler regroupe les dépendances des routes de paiement.
type Handler struct {
	sessions      services.CheckoutSessions
	mailer        OrderMailer
	dedup         Deduper
	policy        pricing.Policy
	stripe        config.StripeConfig
	siteURL       string
	overridesFile string
}

func NewHandler(cfg config.Config, sessions services.CheckoutSessions, mailer OrderMailer, dedup Deduper) *Handler {
	return &Handler{
		sessions:      sessions,
		mailer:        mailer,
		dedup:         dedup,
		policy:        pricing.PolicyFrom(cfg.Shop),
		stripe:        cfg.Stripe,
		siteURL:       cfg.SiteURL,
		overridesFile: cfg.Catalog.OverridesFile,
	}
}

// overrides relit la table à chaque requête : une modification à la main
// s'applique sans redémarrage. Une table illisible bloque la commande.
func (h *Handler) overrides() (catalog.Overrides, error) {
	table, err := catalog.LoadOverrides(h.overridesFile)
	if err != nil {
		log.Printf("❌ Table de prix illisible : %v", err)
		return nil, err
	}
	return table, nil
}

const pricesUnavailable = "Prix indisponibles, réessayez plus tard"
