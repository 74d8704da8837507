package wallet

import (
	"errors"
	"testing"

	"wybe-engine/internal/domain"
)

func TestValidate_KnownOnCurveAddresses(t *testing.T) {
	addrs := []string{
		"So11111111111111111111111111111111111111112", // wrapped SOL mint
		"11111111111111111111111111111111",            // system program
		"6x5SYnLroiN7WYq8NQYU9KHcH4YjpBbwpUfVu3EB7ieH", // ed25519 base point
	}
	for _, addr := range addrs {
		if err := Validate(addr); err != nil {
			t.Errorf("Validate(%s) failed: %v", addr, err)
		}
	}
}

func TestValidate_Empty(t *testing.T) {
	if err := Validate(""); !errors.Is(err, domain.ErrInvalidWallet) {
		t.Errorf("expected ErrInvalidWallet for empty address, got %v", err)
	}
}

func TestValidate_NotBase58(t *testing.T) {
	// 0, O, I, l are outside the base58 alphabet.
	if err := Validate("0OIl!!!notbase58"); !errors.Is(err, domain.ErrInvalidWallet) {
		t.Errorf("expected ErrInvalidWallet for non-base58 input, got %v", err)
	}
}

func TestValidate_WrongLength(t *testing.T) {
	// Valid base58 but decodes to fewer than 32 bytes.
	if err := Validate("abc"); !errors.Is(err, domain.ErrInvalidWallet) {
		t.Errorf("expected ErrInvalidWallet for short address, got %v", err)
	}
}

func TestValidate_OffCurveRejected(t *testing.T) {
	// 32-byte encoding whose y coordinate has no matching x on the curve.
	if err := Validate("8opHzTAnfzRpPEx21XtnrVTX28YQuCpAjcn1PczScKh"); !errors.Is(err, domain.ErrInvalidWallet) {
		t.Errorf("expected ErrInvalidWallet for off-curve point, got %v", err)
	}
}
