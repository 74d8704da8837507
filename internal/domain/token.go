package domain

// CurveType identifies the bonding curve used to price a token.
type CurveType string

// Bonding curve type constants
const (
	CurveLinear      CurveType = "linear"
	CurveQuadratic   CurveType = "quadratic"
	CurveExponential CurveType = "exponential"
	CurveLogarithmic CurveType = "logarithmic"
)

// ParseCurveType converts a raw string into a CurveType.
// Returns ErrInvalidCurveType for anything outside the closed set,
// so unknown curve strings are rejected at the boundary instead of
// silently falling back to linear deeper in the pricing path.
func ParseCurveType(s string) (CurveType, error) {
	switch CurveType(s) {
	case CurveLinear, CurveQuadratic, CurveExponential, CurveLogarithmic:
		return CurveType(s), nil
	default:
		return "", ErrInvalidCurveType
	}
}

// Token represents a launched meme-coin priced on a bonding curve.
// Corresponds to the tokens table.
type Token struct {
	ID            string    // UUID
	Name          string    // display name
	Symbol        string    // ticker, uppercase, 1-10 chars
	CreatorWallet string    // base58 Solana address receiving creator fees
	CurveType     CurveType // bonding curve selection, fixed at launch
	Launched      bool      // trades are rejected until true
	MarketCap     float64   // supply * price after the most recent trade (USD)
	LaunchedAt    int64     // launch timestamp (ms), 0 if not launched
	CreatedAt     int64     // record creation timestamp (ms)
}
