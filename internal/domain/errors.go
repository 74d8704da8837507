package domain

import "errors"

// Engine error taxonomy. All are returned synchronously to the caller;
// nothing is retried inside the engine.
var (
	// ErrTokenNotFound is returned when the referenced token does not exist.
	ErrTokenNotFound = errors.New("token not found")

	// ErrTokenNotLaunched is returned when trading a token whose launch
	// has not completed.
	ErrTokenNotLaunched = errors.New("token not launched")

	// ErrInvalidAmount is returned for a non-positive or non-finite
	// requested amount, or a sell exceeding circulating supply.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurveType is returned when a curve type string is outside
	// the supported set.
	ErrInvalidCurveType = errors.New("invalid curve type")

	// ErrInvalidTradeType is returned when a trade request names a type
	// other than buy or sell.
	ErrInvalidTradeType = errors.New("invalid trade type")

	// ErrPriceCalculation is returned when the curve produces a price the
	// downstream math cannot use (non-finite, or zero on a buy-by-SOL).
	ErrPriceCalculation = errors.New("price calculation failed")

	// ErrInvalidWallet is returned for a wallet address that is not a
	// valid base58-encoded ed25519 public key.
	ErrInvalidWallet = errors.New("invalid wallet address")

	// ErrTokenLocked is returned when another trade is in flight for the
	// same token. Per-token trade sequences are serialized at the
	// persistence boundary.
	ErrTokenLocked = errors.New("token trade lock held")
)
