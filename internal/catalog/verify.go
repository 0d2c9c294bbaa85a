package catalog

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"storefront_back_end/internal/models"
)

type MissingImage struct {
	Title    string
	Category string
	Image    string
}

type CategoryCount struct {
	Category string
	Count    int
}

type VerifyReport struct {
	Products   int
	Categories []CategoryCount
	Missing    []MissingImage
}

// Verify compte les produits par catégorie et liste les images référencées
// (principale et variantes) absentes sous publicDir.
func Verify(c models.Catalog, publicDir string) VerifyReport {
	report := VerifyReport{Products: len(c.Items)}

	counts := map[string]int{}
	for _, p := range c.Items {
		cat := p.Category
		if cat == "" {
			cat = "Uncategorized"
		}
		counts[cat]++

		for _, img := range productImages(p) {
			if !imageExists(publicDir, img) {
				report.Missing = append(report.Missing, MissingImage{Title: p.Title, Category: p.Category, Image: img})
			}
		}
	}

	for cat, n := range counts {
		report.Categories = append(report.Categories, CategoryCount{Category: cat, Count: n})
	}
	sort.Slice(report.Categories, func(i, j int) bool {
		return report.Categories[i].Category < report.Categories[j].Category
	})
	return report
}

func productImages(p models.Product) []string {
	var list []string
	if p.Image != "" {
		list = append(list, p.Image)
	}
	for _, v := range p.Variants {
		if v.Image != "" {
			list = append(list, v.Image)
		}
	}
	return list
}

func imageExists(publicDir, rel string) bool {
	rel = strings.TrimPrefix(rel, "/")
	if rel == "" {
		return false
	}
	candidates := []string{rel}
	if decoded, err := url.PathUnescape(rel); err == nil && decoded != rel {
		candidates = append(candidates, decoded)
	}
	for _, c := range candidates {
		if _, err := os.Stat(filepath.Join(publicDir, filepath.FromSlash(c))); err == nil {
			return true
		}
	}
	return false
}
