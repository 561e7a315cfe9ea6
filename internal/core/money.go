// Package core provides the expense domain types and amount formatting.
//
// Amounts are raw numbers: no currency symbol, no thousands separator and no
// fixed number of decimals.
package core

import (
	"math"
	"strconv"
)

// FormatAmount renders an amount with the shortest decimal representation that
// round-trips (3.5 -> "3.5", 4 -> "4"). Magnitudes at or above 1e21, or below
// 1e-6, switch to exponent notation.
func FormatAmount(v float64) string {
	abs := math.Abs(v)
	if abs != 0 && (abs >= 1e21 || abs < 1e-6) {
		return strconv.FormatFloat(v, 'g', -1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
