package catalog

import (
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"storefront_back_end/internal/models"
)

var palette = []string{"black", "white", "red", "navy", "olive", "offwhite", "grey"}

var folders = []string{"shoes", "tees", "pants", "caps", "misc"}

func modelToken() gopter.Gen {
	return gen.Identifier().SuchThat(func(s string) bool { return !IsColorWord(s) })
}

func TestFilenameProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("les couleurs de fin forment la couleur, le reste le titre", prop.ForAll(
		func(head string, tail []string, colorIdx []int) bool {
			model := append([]string{head}, tail...)
			colors := make([]string, len(colorIdx))
			for i, idx := range colorIdx {
				colors[i] = palette[idx]
			}
			name := strings.Join(append(append([]string{}, model...), colors...), "-") + ".jpg"

			info := ParseFilename(name)
			if info.Title != TitleCase(strings.Join(model, " ")) {
				return false
			}
			if len(colors) == 0 {
				return info.Color == nil
			}
			return info.Color != nil && *info.Color == TitleCase(strings.Join(colors, " "))
		},
		modelToken(),
		gen.SliceOf(modelToken()),
		gen.SliceOf(gen.IntRange(0, len(palette)-1)),
	))

	properties.TestingRun(t)
}

func entriesGen() gopter.Gen {
	return gen.SliceOf(gopter.CombineGens(
		gen.IntRange(0, len(folders)-1),
		modelToken(),
		gen.IntRange(0, len(palette)-1),
	).Map(func(v []interface{}) Entry {
		return Entry{
			Folder: folders[v[0].(int)],
			File:   v[1].(string) + "-" + palette[v[2].(int)] + ".jpg",
		}
	}))
}

func TestBuildProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("même sortie quel que soit l'ordre des entrées", prop.ForAll(
		func(entries []Entry) bool {
			reversed := make([]Entry, len(entries))
			for i, e := range entries {
				reversed[len(entries)-1-i] = e
			}
			a, err1 := Marshal(Build(entries, nil))
			b, err2 := Marshal(Build(reversed, nil))
			return err1 == nil && err2 == nil && string(a) == string(b)
		},
		entriesGen(),
	))

	properties.Property("produits triés par catégorie puis titre", prop.ForAll(
		func(entries []Entry) bool {
			items := Build(entries, nil).Items
			for i := 1; i < len(items); i++ {
				a, b := items[i-1], items[i]
				if c := compareFold(a.Category, b.Category); c > 0 || (c == 0 && compareFold(a.Title, b.Title) > 0) {
					return false
				}
			}
			return true
		},
		entriesGen(),
	))

	properties.Property("la variante principale est noire si le modèle en a une", prop.ForAll(
		func(entries []Entry) bool {
			for _, p := range Build(entries, nil).Items {
				if p.Image != p.Variants[0].Image {
					return false
				}
				if hasColor(p.Variants, "Black") && deref(p.Variants[0].Color) != "Black" {
					return false
				}
			}
			return true
		},
		entriesGen(),
	))

	properties.Property("un override de prix l'emporte sur le défaut", prop.ForAll(
		func(entries []Entry, price float64) bool {
			if len(entries) == 0 {
				return true
			}
			target := ImagePath(entries[0].Folder, entries[0].File)
			table := Overrides{target: {Price: &price}}
			for _, p := range Build(entries, table).Items {
				for _, v := range p.Variants {
					if v.Image == target {
						return v.Price == price
					}
				}
			}
			return false
		},
		entriesGen(),
		gen.Float64Range(0, 5000),
	))

	properties.TestingRun(t)
}

func hasColor(variants []models.Variant, color string) bool {
	for _, v := range variants {
		if deref(v.Color) == color {
			return true
		}
	}
	return false
}
