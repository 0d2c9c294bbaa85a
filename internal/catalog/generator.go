package catalog

import (
	"context"
	"sort"
	"strings"

	"storefront_back_end/internal/models"
)

// Generate lit les images d'une source et construit le catalogue.
func Generate(ctx context.Context, src Source, overrides Overrides) (models.Catalog, error) {
	entries, err := src.Entries(ctx)
	if err != nil {
		return models.Catalog{Items: []models.Product{}}, err
	}
	return Build(entries, overrides), nil
}

type modelGroup struct {
	title    string
	category string
	variants []models.Variant
}

// Build regroupe les images par modèle (catégorie + slug) et produit un
// catalogue trié par catégorie puis titre. Le résultat ne dépend pas de
// l'ordre des entrées.
func Build(entries []Entry, overrides Overrides) models.Catalog {
	sorted := append([]Entry(nil), entries...)
	sortEntries(sorted)

	groups := make(map[string]*modelGroup)
	var keys []string

	for _, e := range sorted {
		if isIgnored(e.Folder) || isIgnored(e.File) || !IsImageFile(e.File) {
			continue
		}

		category := FolderToCategory(e.Folder)
		info := ParseFilename(e.File)
		image := ImagePath(e.Folder, e.File)
		price, sizes := overrides.Apply(image, DefaultsFor(category))

		key := category + "|" + info.Slug
		g, ok := groups[key]
		if !ok {
			g = &modelGroup{title: info.Title, category: category}
			groups[key] = g
			keys = append(keys, key)
		}
		g.variants = append(g.variants, models.Variant{
			Color: info.Color,
			Image: image,
			Price: price,
			Sizes: sizes,
		})
	}

	items := make([]models.Product, 0, len(keys))
	for _, key := range keys {
		g := groups[key]
		variants := SortVariants(g.variants)
		main := variants[0]
		items = append(items, models.Product{
			Title:    g.title,
			Category: g.category,
			Image:    main.Image,
			Price:    main.Price,
			Sizes:    append([]string{}, main.Sizes...),
			Variants: variants,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if c := compareFold(a.Category, b.Category); c != 0 {
			return c < 0
		}
		if c := compareFold(a.Title, b.Title); c != 0 {
			return c < 0
		}
		return a.Image < b.Image
	})

	return models.Catalog{Items: items}
}

// colorPriority : black d'abord, puis tout ce qui contient "white", puis le reste.
func colorPriority(color *string) int {
	if color == nil {
		return 2
	}
	c := strings.ToLower(*color)
	switch {
	case c == "black":
		return 0
	case strings.Contains(c, "white"):
		return 1
	}
	return 2
}

// SortVariants retourne une copie triée : priorité de couleur, puis couleur
// par ordre alphabétique (sans couleur en premier), puis chemin d'image.
func SortVariants(variants []models.Variant) []models.Variant {
	out := append([]models.Variant(nil), variants...)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := colorPriority(out[i].Color), colorPriority(out[j].Color)
		if pi != pj {
			return pi < pj
		}
		if c := compareFold(deref(out[i].Color), deref(out[j].Color)); c != 0 {
			return c < 0
		}
		return out[i].Image < out[j].Image
	})
	return out
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
