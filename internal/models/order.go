package models

// Address est l'adresse de livraison / facturation d'une commande.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	PostalCode string `json:"postal_code"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// OrderItem est une position de commande. Unit et Total sont en unités
// monétaires (CHF), pas en centimes.
type OrderItem struct {
	Name     string  `json:"name"`
	Quantity int64   `json:"quantity"`
	Unit     float64 `json:"unit"`
	Total    float64 `json:"total"`
}

// Order n'est jamais persistée : elle est reconstruite depuis la session
// Stripe (ou une commande directe) le temps d'envoyer les e-mails.
type Order struct {
	Number          string      `json:"number"`
	SessionID       string      `json:"session_id,omitempty"`
	PaymentIntentID string      `json:"payment_intent_id,omitempty"`
	Currency        string      `json:"currency"`
	Customer        Customer    `json:"customer"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	Shipping        float64     `json:"shipping"`
	Total           float64     `json:"total"`
	Note            string      `json:"note,omitempty"`
}
