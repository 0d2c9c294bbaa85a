package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
)

// Override corrige le prix et/ou les tailles d'une image précise.
// Dans le fichier, la valeur est soit un nombre (prix seul), soit un objet
// {"price": 129, "sizes": ["S","M"]}.
type Override struct {
	Price *float64
	Sizes []string
}

func (o *Override) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*o = Override{}
		return nil
	}

	if data[0] != '{' {
		// Une valeur illisible ("49", true...) vaut absence d'override : le
		// reste de la table reste utilisable.
		var price float64
		if err := json.Unmarshal(data, &price); err != nil {
			*o = Override{}
			return nil
		}
		*o = Override{Price: validPrice(price)}
		return nil
	}

	var raw struct {
		Price json.RawMessage `json:"price"`
		Sizes json.RawMessage `json:"sizes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*o = Override{}
	var price float64
	if len(raw.Price) > 0 && json.Unmarshal(raw.Price, &price) == nil {
		o.Price = validPrice(price)
	}
	var sizes []string
	if len(raw.Sizes) > 0 && !bytes.Equal(raw.Sizes, []byte("null")) && json.Unmarshal(raw.Sizes, &sizes) == nil {
		if sizes == nil {
			sizes = []string{}
		}
		o.Sizes = sizes
	}
	return nil
}

func (o Override) MarshalJSON() ([]byte, error) {
	if o.Sizes == nil && o.Price != nil {
		return json.Marshal(*o.Price)
	}
	out := map[string]any{}
	if o.Price != nil {
		out["price"] = *o.Price
	}
	if o.Sizes != nil {
		out["sizes"] = o.Sizes
	}
	return json.Marshal(out)
}

func validPrice(p float64) *float64 {
	if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return nil
	}
	return &p
}

// Overrides est la table maintenue à la main, indexée par chemin d'image
// (/images/<dossier>/<fichier>).
type Overrides map[string]Override

// Lookup cherche l'override d'une image en essayant les variantes de chemin
// de LookupKeys.
func (o Overrides) Lookup(image string) (Override, bool) {
	for _, key := range LookupKeys(image) {
		if ov, ok := o[key]; ok {
			return ov, true
		}
	}
	return Override{}, false
}

// Price retourne le prix imposé pour une image, s'il existe.
func (o Overrides) Price(image string) (float64, bool) {
	ov, ok := o.Lookup(image)
	if !ok || ov.Price == nil {
		return 0, false
	}
	return *ov.Price, true
}

// Apply retourne prix et tailles pour une image : override d'abord, défaut de
// la catégorie champ par champ sinon.
func (o Overrides) Apply(image string, d Defaults) (float64, []string) {
	price, sizes := d.Price, d.Sizes
	if ov, ok := o.Lookup(image); ok {
		if ov.Price != nil {
			price = *ov.Price
		}
		if ov.Sizes != nil {
			sizes = append([]string{}, ov.Sizes...)
		}
	}
	if sizes == nil {
		sizes = []string{}
	}
	return price, sizes
}

// LoadOverrides lit la table d'overrides. Un fichier absent donne une table
// vide sans erreur ; un fichier illisible donne une table vide et l'erreur.
func LoadOverrides(path string) (Overrides, error) {
	if path == "" {
		return Overrides{}, nil
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Overrides{}, nil
	}
	if err != nil {
		return Overrides{}, fmt.Errorf("lecture overrides %s: %w", path, err)
	}

	var table Overrides
	if err := json.Unmarshal(raw, &table); err != nil {
		return Overrides{}, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	if table == nil {
		table = Overrides{}
	}
	return table, nil
}
