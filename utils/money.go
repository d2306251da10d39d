package utils

import (
	"math"

	"github.com/shopspring/decimal"
)

// Round2 rounds x to 2 decimal places (banking-style simple round).
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Dec converts an API-edge float into a 2dp decimal for NUMERIC(12,2) columns.
func Dec(x float64) decimal.Decimal {
	return decimal.NewFromFloat(x).Round(2)
}
