package pricing

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront_back_end/internal/catalog"
	"storefront_back_end/internal/models"
)

var testPolicy = Policy{MinOrder: 75, FreeShippingFrom: 200, ShippingFlat: 7}

func overrides(prices map[string]float64) catalog.Overrides {
	table := catalog.Overrides{}
	for k, v := range prices {
		p := v
		table[k] = catalog.Override{Price: &p}
	}
	return table
}

func TestToMinor(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinor(19.99))
	assert.Equal(t, int64(1005), ToMinor(10.05))
	assert.Equal(t, int64(14900), ToMinor(149))
	assert.Equal(t, int64(0), ToMinor(0))
	assert.Equal(t, "CHF 12.50", FormatCHF(1250))
	assert.Equal(t, "CHF 0.00", FormatCHF(0))
	assert.Equal(t, 19.99, FromMinor(1999))
}

func TestQuoteIgnoresClientPriceWhenOverrideExists(t *testing.T) {
	table := overrides(map[string]float64{"/images/shoes/air-max-black.jpg": 189})
	cart := []models.CartItem{
		{Image: "/images/shoes/air-max-black.jpg", Title: "Air Max", Size: "42", Qty: 1, Price: 1},
	}

	b, err := Quote(cart, table, testPolicy)
	require.NoError(t, err)
	require.Len(t, b.Lines, 1)
	assert.True(t, b.Lines[0].Overridden)
	assert.Equal(t, int64(18900), b.Lines[0].UnitMinor)
	assert.Equal(t, int64(18900), b.Subtotal)
	assert.Equal(t, int64(700), b.Shipping)
	assert.Equal(t, int64(19600), b.Total)
	assert.False(t, b.BelowMinimum)
}

func TestQuoteFallsBackToClientPrice(t *testing.T) {
	cart := []models.CartItem{
		{Image: "images/tees/logo-black.jpg", Title: "Logo", Size: "M", Qty: 0, Price: 49.9},
		{Image: "/images/tees/logo-white.jpg", Title: "", Size: "", Qty: 3, Price: 50},
	}

	b, err := Quote(cart, nil, testPolicy)
	require.NoError(t, err)
	assert.Equal(t, int64(1), b.Lines[0].Quantity, "quantité normalisée")
	assert.Equal(t, "Logo (Taille: M)", b.Lines[0].Name)
	assert.Equal(t, "Article (Taille: One Size)", b.Lines[1].Name)
	assert.Equal(t, int64(4990+15000), b.Subtotal)
	assert.Equal(t, int64(0), b.Shipping)
	assert.True(t, b.FreeShipping)

	items := b.OrderItems()
	assert.Equal(t, 150.0, items[1].Total)
	assert.Equal(t, 50.0, items[1].Unit)
}

func TestQuoteErrors(t *testing.T) {
	_, err := Quote(nil, nil, testPolicy)
	assert.ErrorIs(t, err, ErrEmptyCart)

	_, err = Quote([]models.CartItem{{Title: "x", Price: -1}}, nil, testPolicy)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Quote([]models.CartItem{{Title: "x", Price: math.NaN()}}, nil, testPolicy)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Quote([]models.CartItem{{Title: "x", Price: 1e17}}, nil, testPolicy)
	assert.ErrorIs(t, err, ErrInvalidPrice)

	_, err = Quote([]models.CartItem{{Title: "x", Price: 10, Qty: math.MaxInt64}}, nil, testPolicy)
	assert.ErrorIs(t, err, ErrInvalidQty)

	b, err := Quote([]models.CartItem{{Title: "x", Price: 10, Qty: MaxQuantity}}, nil, testPolicy)
	require.NoError(t, err)
	assert.Equal(t, int64(99000), b.Subtotal)

	// un prix client invalide est sans effet si l'override existe
	table := overrides(map[string]float64{"/images/tees/x.jpg": 50})
	_, err = Quote([]models.CartItem{{Image: "/images/tees/x.jpg", Price: -1}}, table, testPolicy)
	assert.NoError(t, err)
}

func TestBelowMinimum(t *testing.T) {
	b, err := Quote([]models.CartItem{{Title: "Cap", Price: 74.99, Qty: 1}}, nil, testPolicy)
	require.NoError(t, err)
	assert.True(t, b.BelowMinimum)

	b, err = Quote([]models.CartItem{{Title: "Cap", Price: 75, Qty: 1}}, nil, testPolicy)
	require.NoError(t, err)
	assert.False(t, b.BelowMinimum)
}

func TestShippingOptions(t *testing.T) {
	calc := testPolicy.ShippingOptions(120)
	require.Len(t, calc.Options, 1)
	assert.Equal(t, 7.0, calc.Options[0].Price)
	assert.False(t, calc.IsFree)
	assert.False(t, calc.BelowMinimum)

	calc = testPolicy.ShippingOptions(200)
	assert.Equal(t, 0.0, calc.Options[0].Price)
	assert.Equal(t, "Livraison Standard Gratuite", calc.Options[0].Name)
	assert.True(t, calc.IsFree)

	calc = testPolicy.ShippingOptions(-3)
	assert.Equal(t, 0.0, calc.CartTotal)
	assert.True(t, calc.BelowMinimum)
}

func TestQuoteProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("total = sous-total + port, port nul dès le seuil", prop.ForAll(
		func(cents []int, qty int) bool {
			cart := make([]models.CartItem, 0, len(cents)+1)
			cart = append(cart, models.CartItem{Title: "base", Price: 1, Qty: 1})
			for _, c := range cents {
				cart = append(cart, models.CartItem{Title: "x", Price: float64(c) / 100, Qty: qty})
			}
			b, err := Quote(cart, nil, testPolicy)
			if err != nil {
				return false
			}
			var sum int64
			for _, l := range b.Lines {
				sum += l.TotalMinor
			}
			free := b.Subtotal >= 20000
			return sum == b.Subtotal &&
				b.Total == b.Subtotal+b.Shipping &&
				free == (b.Shipping == 0)
		},
		gen.SliceOf(gen.IntRange(0, 50000)),
		gen.IntRange(-2, 5),
	))

	properties.TestingRun(t)
}
