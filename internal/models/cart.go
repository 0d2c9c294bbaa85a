package models

// CartItem est une ligne du panier telle qu'envoyée par le storefront.
// Price est le prix annoncé par le client : il n'est jamais utilisé seul pour
// le montant facturé.
type CartItem struct {
	Image string  `json:"image"`
	Title string  `json:"title"`
	Size  string  `json:"size"`
	Qty   int     `json:"qty"`
	Price float64 `json:"price"`
}

// Key identifie une ligne du panier (image + taille).
func (i CartItem) Key() string {
	size := i.Size
	if size == "" {
		size = "default"
	}
	return i.Image + "__" + size
}

// Quantity retourne la quantité normalisée (>= 1).
func (i CartItem) Quantity() int {
	if i.Qty < 1 {
		return 1
	}
	return i.Qty
}

type CheckoutRequest struct {
	Cart  []CartItem `json:"cart"`
	Email string     `json:"email"`
}

type CheckoutResponse struct {
	URL string `json:"url"`
}

// OrderCustomer correspond au formulaire de commande directe.
type OrderCustomer struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Street    string `json:"street"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Notes     string `json:"notes"`
}

type OrderRequest struct {
	Customer OrderCustomer `json:"customer"`
	Cart     []CartItem    `json:"cart"`
}
