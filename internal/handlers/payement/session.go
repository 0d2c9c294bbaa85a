package payement

import (
	"strings"

	"github.com/stripe/stripe-go/v83"

	"storefront_back_end/internal/models"
	"storefront_back_end/internal/pricing"
)

// OrderNumber : les 8 derniers caractères de l'identifiant de session, en majuscules.
func OrderNumber(sessionID string) string {
	if len(sessionID) > 8 {
		sessionID = sessionID[len(sessionID)-8:]
	}
	return strings.ToUpper(sessionID)
}

// OrderFromSession reconstruit la commande depuis une session Stripe dont
// les line_items ont été étendus.
func OrderFromSession(s *stripe.CheckoutSession) models.Order {
	o := models.Order{
		Number:    OrderNumber(s.ID),
		SessionID: s.ID,
		Currency:  string(s.Currency),
		Subtotal:  pricing.FromMinor(s.AmountSubtotal),
		Total:     pricing.FromMinor(s.AmountTotal),
	}
	if shipping := s.AmountTotal - s.AmountSubtotal; shipping > 0 {
		o.Shipping = pricing.FromMinor(shipping)
	}
	if s.PaymentIntent != nil {
		o.PaymentIntentID = s.PaymentIntent.ID
	}

	o.Customer.Email = s.CustomerEmail
	if d := s.CustomerDetails; d != nil {
		if d.Email != "" {
			o.Customer.Email = d.Email
		}
		o.Customer.Name = d.Name
		o.Customer.Phone = d.Phone
		if a := d.Address; a != nil {
			o.Customer.Address = models.Address{
				Line1:      a.Line1,
				Line2:      a.Line2,
				PostalCode: a.PostalCode,
				City:       a.City,
				Country:    a.Country,
			}
		}
	}

	if s.LineItems != nil {
		for _, li := range s.LineItems.Data {
			if li == nil {
				continue
			}
			o.Items = append(o.Items, orderItemFromLine(li))
		}
	}
	return o
}

func orderItemFromLine(li *stripe.LineItem) models.OrderItem {
	qty := li.Quantity
	if qty < 1 {
		qty = 1
	}
	var unit int64
	if li.Price != nil {
		unit = li.Price.UnitAmount
	}
	if unit == 0 {
		unit = li.AmountTotal / qty
	}
	return models.OrderItem{
		Name:     li.Description,
		Quantity: qty,
		Unit:     pricing.FromMinor(unit),
		Total:    pricing.FromMinor(li.AmountTotal),
	}
}

func isPaid(status stripe.CheckoutSessionPaymentStatus) bool {
	return status == stripe.CheckoutSessionPaymentStatusPaid ||
		status == stripe.CheckoutSessionPaymentStatusNoPaymentRequired
}

func expandedParams() *stripe.CheckoutSessionParams {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("line_items")
	params.AddExpand("payment_intent")
	return params
}
