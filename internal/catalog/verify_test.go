package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	public := t.TempDir()
	touch(t, filepath.Join(public, "images"),
		"tees/logo-black.jpg",
		"shoes/zoom fly-black.jpg",
	)

	c := Build([]Entry{
		{Folder: "tees", File: "logo-black.jpg"},
		{Folder: "tees", File: "logo-white.jpg"},
		{Folder: "shoes", File: "zoom fly-black.jpg"},
	}, nil)

	report := Verify(c, public)
	assert.Equal(t, 2, report.Products)
	assert.Equal(t, []CategoryCount{{Category: "Shoes", Count: 1}, {Category: "Tees", Count: 1}}, report.Categories)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "/images/tees/logo-white.jpg", report.Missing[0].Image)
	assert.Equal(t, "Logo", report.Missing[0].Title)
}
