package pricing

import (
	"errors"
	"fmt"
	"strings"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/config"
	"storefront_back_end/internal/models"
)

var (
	ErrEmptyCart    = errors.New("panier vide")
	ErrInvalidPrice = errors.New("prix invalide")
	ErrInvalidQty   = errors.New("quantité invalide")
)

// Policy est la politique de livraison appliquée côté serveur.
type Policy struct {
	MinOrder         float64
	FreeShippingFrom float64
	ShippingFlat     float64
}

func PolicyFrom(cfg config.ShopConfig) Policy {
	return Policy{
		MinOrder:         cfg.MinOrder,
		FreeShippingFrom: cfg.FreeShippingFrom,
		ShippingFlat:     cfg.ShippingFlat,
	}
}

// ShippingFor retourne les frais de port (centimes) pour un sous-total.
func (p Policy) ShippingFor(subtotal int64) int64 {
	if subtotal >= ToMinor(p.FreeShippingFrom) {
		return 0
	}
	return ToMinor(p.ShippingFlat)
}

// BelowMinimum indique si le sous-total (centimes) est sous le minimum de commande.
func (p Policy) BelowMinimum(subtotal int64) bool {
	return subtotal < ToMinor(p.MinOrder)
}

// ShippingOptions décrit la livraison proposée pour un total de panier.
func (p Policy) ShippingOptions(cartTotal float64) models.ShippingCalculation {
	if !validAmount(cartTotal) {
		cartTotal = 0
	}
	subtotal := ToMinor(cartTotal)
	fee := p.ShippingFor(subtotal)

	option := models.ShippingOption{
		ID:            "standard",
		Name:          "Livraison Standard",
		Description:   "Livraison en 2-3 jours ouvrés",
		Price:         FromMinor(fee),
		EstimatedDays: 3,
	}
	if fee == 0 {
		option.Name = "Livraison Standard Gratuite"
	}

	return models.ShippingCalculation{
		Options:       []models.ShippingOption{option},
		FreeThreshold: p.FreeShippingFrom,
		MinOrder:      p.MinOrder,
		CartTotal:     cartTotal,
		IsFree:        fee == 0,
		BelowMinimum:  p.BelowMinimum(subtotal),
	}
}

// ResolveUnitPrice retourne le prix unitaire facturé : celui de la table
// d'overrides pour l'image de l'article s'il existe, sinon le prix annoncé
// par le client.
func ResolveUnitPrice(item models.CartItem, overrides catalog.Overrides) (float64, bool, error) {
	if price, ok := overrides.Price(item.Image); ok {
		return price, true, nil
	}
	if !validAmount(item.Price) {
		return 0, false, fmt.Errorf("%w pour %q", ErrInvalidPrice, item.Title)
	}
	return item.Price, false, nil
}

// LineName est le libellé affiché chez Stripe et dans les emails.
func LineName(item models.CartItem) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		title = "Article"
	}
	size := strings.TrimSpace(item.Size)
	if size == "" {
		size = "One Size"
	}
	return fmt.Sprintf("%s (Taille: %s)", title, size)
}

type Line struct {
	Item       models.CartItem
	Name       string
	Quantity   int64
	UnitMinor  int64
	TotalMinor int64
	Overridden bool
}

// Breakdown est le détail d'un panier, montants en centimes.
type Breakdown struct {
	Lines        []Line
	Subtotal     int64
	Shipping     int64
	Total        int64
	FreeShipping bool
	BelowMinimum bool
}

// MaxQuantity est la quantité maximale par ligne de panier.
const MaxQuantity = 99

// Quote recalcule le panier côté serveur.
func Quote(cart []models.CartItem, overrides catalog.Overrides, policy Policy) (Breakdown, error) {
	if len(cart) == 0 {
		return Breakdown{}, ErrEmptyCart
	}

	var b Breakdown
	for _, item := range cart {
		price, overridden, err := ResolveUnitPrice(item, overrides)
		if err != nil {
			return Breakdown{}, err
		}
		if item.Qty > MaxQuantity {
			return Breakdown{}, fmt.Errorf("%w pour %q (max %d)", ErrInvalidQty, item.Title, MaxQuantity)
		}
		qty := int64(item.Quantity())
		unit := ToMinor(price)
		line := Line{
			Item:       item,
			Name:       LineName(item),
			Quantity:   qty,
			UnitMinor:  unit,
			TotalMinor: unit * qty,
			Overridden: overridden,
		}
		b.Lines = append(b.Lines, line)
		b.Subtotal += line.TotalMinor
	}

	b.Shipping = policy.ShippingFor(b.Subtotal)
	b.Total = b.Subtotal + b.Shipping
	b.FreeShipping = b.Shipping == 0
	b.BelowMinimum = policy.BelowMinimum(b.Subtotal)
	return b, nil
}

// OrderItems convertit les lignes pour l'affichage d'une commande.
func (b Breakdown) OrderItems() []models.OrderItem {
	items := make([]models.OrderItem, 0, len(b.Lines))
	for _, l := range b.Lines {
		items = append(items, models.OrderItem{
			Name:     l.Name,
			Quantity: l.Quantity,
			Unit:     FromMinor(l.UnitMinor),
			Total:    FromMinor(l.TotalMinor),
		})
	}
	return items
}
