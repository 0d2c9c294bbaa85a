package utils

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"

	"github.com/shopspring/decimal"

	"storefront_back_end/internal/models"
)

type itemView struct {
	Name     string
	Quantity int64
	Unit     string
	Total    string
}

type orderView struct {
	Order    models.Order
	Items    []itemView
	Subtotal string
	Shipping string
	Total    string
	QRCode   htmltemplate.URL
	QRTarget string
}

// FormatAmount affiche un montant avec sa devise : "CHF 12.50".
func FormatAmount(currency string, amount float64) string {
	if currency == "" {
		currency = "chf"
	}
	return strings.ToUpper(currency) + " " + decimal.NewFromFloat(amount).StringFixed(2)
}

func newOrderView(o models.Order) orderView {
	v := orderView{
		Order:    o,
		Subtotal: FormatAmount(o.Currency, o.Subtotal),
		Shipping: FormatAmount(o.Currency, o.Shipping),
		Total:    FormatAmount(o.Currency, o.Total),
	}
	for _, it := range o.Items {
		name := it.Name
		if name == "" {
			name = "Article"
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		v.Items = append(v.Items, itemView{
			Name:     name,
			Quantity: qty,
			Unit:     FormatAmount(o.Currency, it.Unit),
			Total:    FormatAmount(o.Currency, it.Total),
		})
	}
	return v
}

const orderBlockHTML = `{{define "order"}}
<h3 style="margin: 24px 0 10px;">Récapitulatif</h3>
{{if .Items}}
<table role="presentation" style="width: 100%; border-collapse: collapse; border: 1px solid #eeeeee;">
	<thead>
		<tr style="background-color: #f8fafc;">
			<th style="padding: 10px 12px; text-align: left;">Article</th>
			<th style="padding: 10px 12px; text-align: center;">Quantité</th>
			<th style="padding: 10px 12px; text-align: right;">Prix unitaire</th>
			<th style="padding: 10px 12px; text-align: right;">Total</th>
		</tr>
	</thead>
	<tbody>
	{{range .Items}}
		<tr>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee;">{{.Name}}</td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee; text-align: center;">{{.Quantity}}</td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee; text-align: right;">{{.Unit}}</td>
			<td style="padding: 8px 12px; border-bottom: 1px solid #eeeeee; text-align: right;">{{.Total}}</td>
		</tr>
	{{end}}
	</tbody>
</table>
{{else}}
<p>(aucun article)</p>
{{end}}
<div style="margin-top: 12px; text-align: right;">
	<div>Sous-total : <strong>{{.Subtotal}}</strong></div>
	<div>Livraison : <strong>{{.Shipping}}</strong></div>
	<div style="font-size: 18px; margin-top: 6px;">Total : <strong>{{.Total}}</strong></div>
</div>
<h3 style="margin: 24px 0 10px;">Adresse de livraison</h3>
<div style="line-height: 1.5;">
	<div>{{.Order.Customer.Name}}</div>
	<div>{{.Order.Customer.Address.Line1}}</div>
	{{with .Order.Customer.Address.Line2}}<div>{{.}}</div>{{end}}
	<div>{{.Order.Customer.Address.PostalCode}} {{.Order.Customer.Address.City}}</div>
	<div>{{.Order.Customer.Address.Country}}</div>
	<div>{{.Order.Customer.Email}}</div>
	{{with .Order.Customer.Phone}}<div>Tél : {{.}}</div>{{end}}
</div>
{{with .Order.Note}}<p style="margin-top: 16px;"><em>Remarque : {{.}}</em></p>{{end}}
{{end}}`

const customerHTML = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Confirmation de commande</title></head>
<body style="font-family: Arial, sans-serif; background-color: #f9f9f9; padding: 20px; color: #0f172a;">
<div style="max-width: 600px; margin: auto; background-color: white; padding: 20px; border-radius: 10px;">
	<h2 style="margin: 0 0 12px;">Merci pour votre commande{{with .Order.Customer.Name}}, {{.}}{{end}} !</h2>
	<p style="margin: 0 0 16px;">Numéro de commande : <strong>{{or .Order.Number "-"}}</strong></p>
	{{template "order" .}}
	<p style="margin-top: 24px;">Nous vous prévenons dès que le colis est en route.</p>
</div>
</body>
</html>`

const adminHTML = `<!DOCTYPE html>
<html lang="fr">
<head><meta charset="UTF-8"><title>Nouvelle commande</title></head>
<body style="font-family: Arial, sans-serif; padding: 20px; color: #0f172a;">
<div style="max-width: 600px; margin: auto;">
	<h2 style="margin: 0 0 12px;">Nouvelle commande reçue</h2>
	<p style="margin: 0 0 12px;">Numéro de commande : <strong>{{or .Order.Number "-"}}</strong></p>
	<p style="margin: 0 0 12px;">Client : <strong>{{or .Order.Customer.Name "-"}}</strong> &lt;{{or .Order.Customer.Email "-"}}&gt;</p>
	{{with .Order.PaymentIntentID}}<p style="margin: 0 0 12px;">Paiement Stripe : {{.}}</p>{{end}}
	{{template "order" .}}
	{{if .QRCode}}
	<p style="margin-top: 24px;">Paiement dans le dashboard Stripe :</p>
	<img src="{{.QRCode}}" alt="QR code paiement" width="160" height="160">
	<p style="font-size: 12px; color: #64748b;">{{.QRTarget}}</p>
	{{end}}
</div>
</body>
</html>`

const customerText = `Merci pour votre commande{{with .Order.Customer.Name}}, {{.}}{{end}} !
Numéro de commande : {{or .Order.Number "-"}}
{{range .Items}}
- {{.Quantity}} × {{.Name}} : {{.Total}}{{end}}

Sous-total : {{.Subtotal}}
Livraison : {{.Shipping}}
Total : {{.Total}}
`

const adminText = `Nouvelle commande {{or .Order.Number "-"}}
Client : {{or .Order.Customer.Name "-"}} ({{or .Order.Customer.Email "-"}})
{{range .Items}}
- {{.Quantity}} × {{.Name}} : {{.Total}}{{end}}

Total : {{.Total}}
{{with .QRTarget}}Stripe : {{.}}{{end}}
`

var (
	customerHTMLTmpl = htmltemplate.Must(htmltemplate.Must(htmltemplate.New("customer").Parse(orderBlockHTML)).Parse(customerHTML))
	adminHTMLTmpl    = htmltemplate.Must(htmltemplate.Must(htmltemplate.New("admin").Parse(orderBlockHTML)).Parse(adminHTML))
	customerTextTmpl = texttemplate.Must(texttemplate.New("customer").Parse(customerText))
	adminTextTmpl    = texttemplate.Must(texttemplate.New("admin").Parse(adminText))
)

func render(html *htmltemplate.Template, text *texttemplate.Template, v orderView) (string, string, error) {
	var h, t bytes.Buffer
	if err := html.Execute(&h, v); err != nil {
		return "", "", fmt.Errorf("rendu HTML %s: %w", html.Name(), err)
	}
	if err := text.Execute(&t, v); err != nil {
		return "", "", fmt.Errorf("rendu texte %s: %w", text.Name(), err)
	}
	return h.String(), t.String(), nil
}

// RenderCustomerEmail retourne le HTML et le texte de la confirmation client.
func RenderCustomerEmail(o models.Order) (string, string, error) {
	return render(customerHTMLTmpl, customerTextTmpl, newOrderView(o))
}

// RenderAdminEmail retourne le HTML et le texte de la notification boutique.
// qrCode est une data URI (vide : pas de QR code), qrTarget l'URL encodée.
func RenderAdminEmail(o models.Order, qrCode, qrTarget string) (string, string, error) {
	v := newOrderView(o)
	v.QRCode = htmltemplate.URL(qrCode)
	v.QRTarget = qrTarget
	return render(adminHTMLTmpl, adminTextTmpl, v)
}
