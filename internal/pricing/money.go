package pricing

import (
	"math"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToMinor convertit un montant en centimes : round(price*100).
func ToMinor(price float64) int64 {
	return decimal.NewFromFloat(price).Mul(hundred).Round(0).IntPart()
}

// FromMinor reconvertit des centimes en montant décimal.
func FromMinor(minor int64) float64 {
	return decimal.New(minor, -2).InexactFloat64()
}

// FormatCHF affiche des centimes sous la forme "CHF 12.50".
func FormatCHF(minor int64) string {
	return "CHF " + decimal.New(minor, -2).StringFixed(2)
}

// maxAmount borne un montant client pour que les centimes tiennent en int64.
const maxAmount = 1_000_000

func validAmount(p float64) bool {
	return p >= 0 && p <= maxAmount && !math.IsNaN(p) && !math.IsInf(p, 0)
}
