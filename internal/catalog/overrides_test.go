package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverrideUnmarshal(t *testing.T) {
	var table Overrides
	err := json.Unmarshal([]byte(`{
		"/images/tees/a.jpg": 59,
		"/images/tees/b.jpg": {"price": 65, "sizes": ["M", "L"]},
		"/images/tees/c.jpg": {"sizes": ["XL"]},
		"/images/tees/d.jpg": {"price": -5},
		"/images/tees/e.jpg": {"price": 70, "sizes": null},
		"/images/tees/f.jpg": {"sizes": []}
	}`), &table)
	require.NoError(t, err)

	require.NotNil(t, table["/images/tees/a.jpg"].Price)
	assert.Equal(t, 59.0, *table["/images/tees/a.jpg"].Price)
	assert.Nil(t, table["/images/tees/a.jpg"].Sizes)

	assert.Equal(t, 65.0, *table["/images/tees/b.jpg"].Price)
	assert.Equal(t, []string{"M", "L"}, table["/images/tees/b.jpg"].Sizes)

	assert.Nil(t, table["/images/tees/c.jpg"].Price)
	assert.Nil(t, table["/images/tees/d.jpg"].Price, "prix négatif ignoré")
	assert.Nil(t, table["/images/tees/e.jpg"].Sizes)
	assert.Equal(t, []string{}, table["/images/tees/f.jpg"].Sizes)
}

func TestOverrideMarshal(t *testing.T) {
	p := 59.0
	out, err := json.Marshal(Override{Price: &p})
	require.NoError(t, err)
	assert.Equal(t, "59", string(out))

	out, err = json.Marshal(Override{Price: &p, Sizes: []string{"S"}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"price": 59, "sizes": ["S"]}`, string(out))
}

func TestApplyFieldByField(t *testing.T) {
	p := 65.0
	table := Overrides{
		"/images/tees/price-only.jpg": {Price: &p},
		"/images/tees/sizes-only.jpg": {Sizes: []string{"M"}},
	}
	d := DefaultsFor("Tees")

	price, sizes := table.Apply("/images/tees/price-only.jpg", d)
	assert.Equal(t, 65.0, price)
	assert.Equal(t, d.Sizes, sizes)

	price, sizes = table.Apply("/images/tees/sizes-only.jpg", d)
	assert.Equal(t, 49.0, price)
	assert.Equal(t, []string{"M"}, sizes)

	price, sizes = table.Apply("/images/tees/none.jpg", d)
	assert.Equal(t, 49.0, price)
	assert.Equal(t, d.Sizes, sizes)
}

func TestPriceLookupTriesEncodedForms(t *testing.T) {
	p := 210.0
	table := Overrides{"/images/shoes/zoom%20fly-black.jpg": {Price: &p}}

	for _, image := range []string{
		"/images/shoes/zoom%20fly-black.jpg",
		"/images/shoes/zoom fly-black.jpg",
		"images/shoes/zoom fly-black.jpg",
		"https://shop.example.ch/images/shoes/zoom%20fly-black.jpg",
	} {
		got, ok := table.Price(image)
		assert.True(t, ok, image)
		assert.Equal(t, 210.0, got, image)
	}

	_, ok := table.Price("/images/shoes/other.jpg")
	assert.False(t, ok)
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()

	table, err := LoadOverrides(filepath.Join(dir, "missing.json"))
	require.NoError(t, err)
	assert.Empty(t, table)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0o644))
	table, err = LoadOverrides(bad)
	assert.Error(t, err)
	assert.NotNil(t, table)
	assert.Empty(t, table)

	good := filepath.Join(dir, "good.json")
	require.NoError(t, os.WriteFile(good, []byte(`{"/images/tees/a.jpg": 59}`), 0o644))
	table, err = LoadOverrides(good)
	require.NoError(t, err)
	got, ok := table.Price("/images/tees/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, 59.0, got)
}

func TestUnreadableEntryIsIgnored(t *testing.T) {
	var table Overrides
	err := json.Unmarshal([]byte(`{
		"/images/shoes/air-max-black.jpg": 199,
		"/images/tees/x.jpg": "49",
		"/images/tees/y.jpg": true
	}`), &table)
	require.NoError(t, err)

	got, ok := table.Price("/images/shoes/air-max-black.jpg")
	assert.True(t, ok)
	assert.Equal(t, 199.0, got)

	_, ok = table.Price("/images/tees/x.jpg")
	assert.False(t, ok)
	_, ok = table.Price("/images/tees/y.jpg")
	assert.False(t, ok)

	path := filepath.Join(t.TempDir(), "overrides.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"/images/tees/a.jpg": 59, "/images/tees/b.jpg": "49"}`), 0o644))
	loaded, err := LoadOverrides(path)
	require.NoError(t, err)
	got, ok = loaded.Price("/images/tees/a.jpg")
	assert.True(t, ok)
	assert.Equal(t, 59.0, got)
}
