package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Prix de base proposés par dossier quand on initialise un fichier d'overrides.
var seedBasePrices = map[string]float64{
	"shoes":            189,
	"sweatpants-jeans": 90,
	"hoodies":          85,
	"tees":             45,
	"caps":             69,
	"bags":             179,
	"accessories":      40,
	"parfum":           99,
}

const seedDefaultPrice = 129

var seedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true, ".avif": true,
}

// SeedOverrides parcourt imagesDir récursivement et propose un prix par
// image. Les entrées de existing sont conservées telles quelles : les valeurs
// saisies à la main gardent la priorité.
func SeedOverrides(imagesDir string, existing map[string]json.RawMessage) (map[string]json.RawMessage, int, error) {
	merged := make(map[string]json.RawMessage, len(existing))
	for k, v := range existing {
		merged[k] = v
	}

	added := 0
	err := filepath.WalkDir(imagesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !seedExtensions[strings.ToLower(filepath.Ext(d.Name()))] {
			return nil
		}

		rel, err := filepath.Rel(imagesDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		key := "/images/" + rel
		if _, ok := merged[key]; ok {
			return nil
		}

		price, ok := seedBasePrices[strings.ToLower(strings.SplitN(rel, "/", 2)[0])]
		if !ok || !strings.Contains(rel, "/") {
			price = seedDefaultPrice
		}
		raw, err := json.Marshal(price)
		if err != nil {
			return err
		}
		merged[key] = raw
		added++
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("parcours %s: %w", imagesDir, err)
	}
	return merged, added, nil
}

// SeedFile applique SeedOverrides sur le fichier outFile (créé s'il n'existe
// pas) et retourne le nombre d'entrées ajoutées et le total.
func SeedFile(imagesDir, outFile string) (int, int, error) {
	existing := map[string]json.RawMessage{}
	raw, err := os.ReadFile(outFile)
	switch {
	case err == nil:
		if err := json.Unmarshal(raw, &existing); err != nil {
			return 0, 0, fmt.Errorf("parse %s: %w", outFile, err)
		}
	case !errors.Is(err, fs.ErrNotExist):
		return 0, 0, err
	}

	merged, added, err := SeedOverrides(imagesDir, existing)
	if err != nil {
		return 0, 0, err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(merged); err != nil {
		return 0, 0, err
	}
	if err := os.WriteFile(outFile, buf.Bytes(), 0o644); err != nil {
		return 0, 0, err
	}
	return added, len(merged), nil
}
