package catalog

import (
	"strconv"
	"strings"
)

// Ces tables sont des littéraux en lecture seule : ne jamais les modifier à
// l'exécution.

// categoryAliases associe un nom de dossier (en minuscules) à la catégorie
// affichée.
var categoryAliases = map[string]string{
	"shoes":              "Shoes",
	"slides":             "Slides",
	"hoodies":            "Hoodies & Zippers",
	"hoodies & zippers":  "Hoodies & Zippers",
	"hoodies-zippers":    "Hoodies & Zippers",
	"hoodies_zippers":    "Hoodies & Zippers",
	"tees":               "Tees",
	"pants":              "Sweatpants & Jeans",
	"sweatpants":         "Sweatpants & Jeans",
	"sweatpants & jeans": "Sweatpants & Jeans",
	"sweatpants-jeans":   "Sweatpants & Jeans",
	"sweatpants_jeans":   "Sweatpants & Jeans",
	"jeans":              "Sweatpants & Jeans",
	"caps":               "Caps & Beanies",
	"beanies":            "Caps & Beanies",
	"caps & beanies":     "Caps & Beanies",
	"caps-beanies":       "Caps & Beanies",
	"caps_beanies":       "Caps & Beanies",
	"bags":               "Bags & Wallets",
	"wallets":            "Bags & Wallets",
	"bags & wallets":     "Bags & Wallets",
	"bags-wallets":       "Bags & Wallets",
	"bags_wallets":       "Bags & Wallets",
	"accessories":        "Accessories",
	"parfum":             "Parfum",
	"jackets":            "Jackets",
	"pullover":           "Pullover",
}

// Defaults est le prix / les tailles appliqués quand aucun override n'existe.
type Defaults struct {
	Price float64
	Sizes []string
}

var clothingSizes = []string{"S", "M", "L", "XL", "XXL"}

var categoryDefaults = map[string]Defaults{
	"Shoes":              {Price: 149, Sizes: numericSizes(36, 46)},
	"Slides":             {Price: 79, Sizes: numericSizes(38, 44)},
	"Jackets":            {Price: 129, Sizes: clothingSizes},
	"Pullover":           {Price: 99, Sizes: clothingSizes},
	"Hoodies & Zippers":  {Price: 89, Sizes: clothingSizes},
	"Tees":               {Price: 49, Sizes: clothingSizes},
	"Sweatpants & Jeans": {Price: 89, Sizes: clothingSizes},
	"Caps & Beanies":     {Price: 39, Sizes: []string{}},
	"Bags & Wallets":     {Price: 149, Sizes: []string{}},
	"Accessories":        {Price: 29, Sizes: []string{}},
	"Parfum":             {Price: 69, Sizes: []string{}},
}

// colorWords : un token de fin de nom de fichier présent ici est traité comme
// une couleur.
var colorWords = map[string]bool{
	"black": true, "white": true, "offwhite": true, "sail": true, "cream": true,
	"beige": true, "brown": true, "khaki": true, "tan": true, "ivory": true,
	"grey": true, "gray": true, "silver": true, "metallic": true, "chrome": true,
	"navy": true, "blue": true, "royal": true, "teal": true, "cyan": true,
	"lightblue": true, "darkblue": true, "denim": true,
	"red": true, "maroon": true, "pink": true, "rose": true, "magenta": true,
	"green": true, "olive": true, "lime": true, "forest": true,
	"yellow": true, "gold": true, "orange": true, "amber": true,
	"purple": true, "violet": true, "lilac": true,
	"bone": true, "sand": true, "stone": true, "smoke": true,
	"obsidian": true, "unc": true, "university": true, "eclipse": true,
	"prism": true, "monogram": true, "storm": true, "beam": true,
}

// imageExtensions : extensions reconnues par le générateur.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".gif":  true,
}

// FolderToCategory retourne la catégorie affichée pour un dossier d'images.
// Un dossier inconnu donne son nom en minuscules avec une majuscule initiale.
func FolderToCategory(folder string) string {
	f := strings.ToLower(folder)
	if c, ok := categoryAliases[f]; ok {
		return c
	}
	return capitalize(f)
}

// DefaultsFor retourne les valeurs par défaut d'une catégorie (0 et aucune
// taille si elle est inconnue). Le slice retourné est une copie.
func DefaultsFor(category string) Defaults {
	d, ok := categoryDefaults[category]
	if !ok {
		return Defaults{Price: 0, Sizes: []string{}}
	}
	return Defaults{Price: d.Price, Sizes: append([]string{}, d.Sizes...)}
}

// IsColorWord indique si un token (insensible à la casse) est une couleur.
func IsColorWord(token string) bool {
	return colorWords[strings.ToLower(token)]
}

// IsImageFile indique si le nom a une extension d'image reconnue.
func IsImageFile(name string) bool {
	return imageExtensions[strings.ToLower(extension(name))]
}

func isIgnored(name string) bool {
	return strings.HasPrefix(name, ".")
}

func numericSizes(from, to int) []string {
	sizes := make([]string, 0, to-from+1)
	for n := from; n <= to; n++ {
		sizes = append(sizes, strconv.Itoa(n))
	}
	return sizes
}
