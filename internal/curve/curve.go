// Package curve implements the bonding curve price functions.
// Price is pure and total: defined for every supply >= 0 and every
// curve type, with negative results clamped to zero.
package curve

import (
	"math"

	"wybe-engine/internal/domain"
)

// Curve formula constants
const (
	basePrice       = 0.01      // floor price shared by linear and quadratic
	linearDivisor   = 10_000    // supply units per 1 SOL of linear price growth
	expDivisor      = 1_000_000 // exponential growth scale
	expScale        = 100       // exponential price divisor
	logDivisor      = 1_000     // logarithmic supply scale
	logOffset       = 0.01      // logarithmic intercept
	logMultiplier   = 0.3       // logarithmic output scale
	logMinimumInput = 1         // guards ln(0) at zero supply
)

// Price returns the per-token price at the given circulating supply.
// Unknown curve types fall back to linear; domain.ParseCurveType rejects
// unknown strings at every entry boundary, so the fallback is only
// reachable with a hand-constructed CurveType.
func Price(supply float64, ct domain.CurveType) float64 {
	var price float64
	switch ct {
	case domain.CurveQuadratic:
		price = math.Pow(supply/linearDivisor, 2) + basePrice
	case domain.CurveExponential:
		price = math.Exp(supply/expDivisor) / expScale
	case domain.CurveLogarithmic:
		price = (math.Log(math.Max(supply, logMinimumInput)/logDivisor) + logOffset) * logMultiplier
	case domain.CurveLinear:
		price = supply/linearDivisor + basePrice
	default:
		price = supply/linearDivisor + basePrice
	}

	// Logarithmic goes negative below supply ~990.
	return math.Max(0, price)
}
