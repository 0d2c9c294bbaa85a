package utils

import (
	"context"
	"errors"
	"fmt"
	"log"

	"storefront_back_end/internal/models"
)

// OrderNotifier envoie les e-mails d'une commande : confirmation au client
// puis notification à la boutique.
type OrderNotifier struct {
	sender     Sender
	storeEmail string
	testMode   bool
}

// NewOrderNotifier : testMode fait pointer le QR code vers le dashboard Stripe de test.
func NewOrderNotifier(sender Sender, storeEmail string, testMode bool) *OrderNotifier {
	return &OrderNotifier{sender: sender, storeEmail: storeEmail, testMode: testMode}
}

func subjectSuffix(o models.Order) string {
	if o.Number == "" {
		return ""
	}
	return " #" + o.Number
}

// SendOrderEmails envoie les deux e-mails. La confirmation client est sautée
// sans adresse ; un échec n'empêche pas l'envoi de l'autre e-mail.
func (n *OrderNotifier) SendOrderEmails(ctx context.Context, o models.Order) error {
	var errs []error

	if o.Customer.Email != "" {
		if err := n.sendCustomer(ctx, o); err != nil {
			log.Printf("❌ Erreur envoi confirmation client %s: %v", o.Customer.Email, err)
			errs = append(errs, err)
		} else {
			log.Printf("📧 Confirmation envoyée: %s → %s", o.Number, o.Customer.Email)
		}
	} else {
		log.Printf("⚠️ Commande %s sans e-mail client : confirmation non envoyée", o.Number)
	}

	if err := n.sendAdmin(ctx, o); err != nil {
		log.Printf("❌ Erreur envoi notification boutique: %v", err)
		errs = append(errs, err)
	} else {
		log.Printf("📧 Notification boutique envoyée: %s", o.Number)
	}

	return errors.Join(errs...)
}

func (n *OrderNotifier) sendCustomer(ctx context.Context, o models.Order) error {
	html, text, err := RenderCustomerEmail(o)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		To:      o.Customer.Email,
		Subject: "Confirmation de commande" + subjectSuffix(o),
		HTML:    html,
		Text:    text,
		ReplyTo: n.storeEmail,
	})
}

func (n *OrderNotifier) sendAdmin(ctx context.Context, o models.Order) error {
	target := StripePaymentURL(o.PaymentIntentID, n.testMode)
	var qr string
	if target != "" {
		var err error
		if qr, err = QRCodeDataURI(target); err != nil {
			log.Printf("⚠️ QR code non généré pour %s: %v", o.Number, err)
			qr = ""
		}
	}

	html, text, err := RenderAdminEmail(o, qr, target)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, Message{
		To:      n.storeEmail,
		Subject: "Nouvelle commande" + subjectSuffix(o),
		HTML:    html,
		Text:    text,
		ReplyTo: o.Customer.Email,
	})
}

// SendTestEmail envoie un e-mail de test à l'adresse de la boutique.
func (n *OrderNotifier) SendTestEmail(ctx context.Context) error {
	if n.storeEmail == "" {
		return fmt.Errorf("STORE_EMAIL non configuré")
	}
	return n.sender.Send(ctx, Message{
		To:      n.storeEmail,
		Subject: "Test e-mail storefront",
		HTML:    "<h1>Ça marche 🎉</h1><p>Test envoyé via /api/admin/test-email.</p>",
		Text:    "Ça marche. Test envoyé via /api/admin/test-email.",
	})
}
