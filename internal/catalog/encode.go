package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"storefront_back_end/internal/models"
)

// Marshal encode le catalogue en JSON indenté (2 espaces), sans échappement
// HTML, pour que deux générations identiques donnent les mêmes octets.
func Marshal(c models.Catalog) ([]byte, error) {
	if c.Items == nil {
		c.Items = []models.Product{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile écrit le catalogue, en créant le dossier parent si besoin.
func WriteFile(path string, c models.Catalog) error {
	data, err := Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("création dossier %s: %w", filepath.Dir(path), err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile lit un catalogue déjà généré.
func ReadFile(path string) (models.Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Catalog{}, err
	}
	var c models.Catalog
	if err := json.Unmarshal(raw, &c); err != nil {
		return models.Catalog{}, fmt.Errorf("parse catalogue %s: %w", path, err)
	}
	if c.Items == nil {
		c.Items = []models.Product{}
	}
	return c, nil
}
