package utils

import (
	"encoding/base64"

	"github.com/skip2/go-qrcode"
)

// QRCodeDataURI génère un QR code PNG prêt à mettre dans <img src="...">.
func QRCodeDataURI(content string) (string, error) {
	png, err := qrcode.Encode(content, qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// StripePaymentURL est la page du paiement dans le dashboard Stripe.
func StripePaymentURL(paymentIntentID string, testMode bool) string {
	if paymentIntentID == "" {
		return ""
	}
	base := "https://dashboard.stripe.com"
	if testMode {
		base += "/test"
	}
	return base + "/payments/" + paymentIntentID
}
