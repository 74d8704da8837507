// Package wallet validates Solana wallet addresses.
package wallet

import (
	"fmt"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"

	"wybe-engine/internal/domain"
)

// Validate checks that addr is a base58-encoded 32-byte ed25519 public
// key on the curve. Creator and trader wallets must be user-controlled
// keypairs; program-derived addresses are off-curve and cannot sign, so
// they are rejected as fee payout or trade destinations.
func Validate(addr string) error {
	if addr == "" {
		return fmt.Errorf("%w: empty address", domain.ErrInvalidWallet)
	}

	decoded, err := base58.Decode(addr)
	if err != nil {
		return fmt.Errorf("%w: %s is not base58", domain.ErrInvalidWallet, addr)
	}
	if len(decoded) != 32 {
		return fmt.Errorf("%w: %s decodes to %d bytes, want 32", domain.ErrInvalidWallet, addr, len(decoded))
	}
	if !isOnCurve(decoded) {
		return fmt.Errorf("%w: %s is not an ed25519 public key", domain.ErrInvalidWallet, addr)
	}
	return nil
}

func isOnCurve(point []byte) bool {
	if len(point) != 32 {
		return false
	}
	_, err := new(edwards25519.Point).SetBytes(point)
	return err == nil
}
