package catalog

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// ModelInfo est le résultat de l'analyse d'un nom de fichier image.
type ModelInfo struct {
	Slug  string
	Title string
	Color *string
}

// ParseFilename déduit le modèle et la couleur d'un nom de fichier.
//
// Le nom (sans extension) est découpé sur "-" et "_". Les tokens de fin qui
// sont des couleurs sont retirés de droite à gauche jusqu'au premier token
// qui n'en est pas une : ils forment la couleur, le reste forme le modèle.
// "air-max-black-white.jpg" donne le modèle "Air Max" en "Black White".
func ParseFilename(filename string) ModelInfo {
	base := strings.TrimSuffix(filename, extension(filename))
	parts := splitTokens(base)

	if len(parts) <= 1 {
		return ModelInfo{
			Slug:  strings.ToLower(base),
			Title: TitleCase(strings.Join(strings.Fields(strings.Map(separatorToSpace, base)), " ")),
		}
	}

	n := len(parts)
	for n > 0 && IsColorWord(parts[n-1]) {
		n--
	}
	colorParts := parts[n:]
	modelParts := parts[:n]
	if len(modelParts) == 0 {
		// que des couleurs : le nom complet reste le titre
		modelParts = parts
	}

	info := ModelInfo{
		Slug:  strings.ToLower(strings.Join(modelParts, " ")),
		Title: TitleCase(strings.Join(modelParts, " ")),
	}
	if len(colorParts) > 0 {
		color := TitleCase(strings.ToLower(strings.Join(colorParts, " ")))
		info.Color = &color
	}
	return info
}

// TitleCase met en majuscule la première lettre de chaque mot sans toucher
// au reste ("air max 90" -> "Air Max 90").
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevWord := false
	for _, r := range s {
		word := isWordRune(r)
		if word && !prevWord {
			r = unicode.ToUpper(r)
		}
		b.WriteRune(r)
		prevWord = word
	}
	return b.String()
}

// isWordRune suit \w : ASCII seulement, "éclair" donne "éClair".
func isWordRune(r rune) bool {
	return r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9')
}

func splitTokens(base string) []string {
	return strings.FieldsFunc(base, func(r rune) bool { return r == '-' || r == '_' })
}

func separatorToSpace(r rune) rune {
	if r == '-' || r == '_' {
		return ' '
	}
	return r
}

// extension retourne ".ext" (dernier point suivi d'au moins un caractère),
// ou "" s'il n'y en a pas.
func extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return ""
	}
	return name[i:]
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
