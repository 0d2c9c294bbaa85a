package models

// Variant est une déclinaison (couleur / image) d'un modèle du catalogue.
type Variant struct {
	Color *string  `json:"color"`
	Image string   `json:"image"`
	Price float64  `json:"price"`
	Sizes []string `json:"sizes"`
}

// Product regroupe toutes les images d'un même modèle.
// Image, Price et Sizes viennent de la variante principale (Variants[0]).
type Product struct {
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Image    string    `json:"image"`
	Price    float64   `json:"price"`
	Sizes    []string  `json:"sizes"`
	Variants []Variant `json:"variants"`
}

// Catalog est le document servi au storefront.
type Catalog struct {
	Items []Product `json:"items"`
}
