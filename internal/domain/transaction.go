package domain

// Transaction represents an executed buy or sell against a token's
// bonding curve. Corresponds to the transactions table. Records are
// immutable once created; the ordered sequence of all transactions for
// a token is the authoritative source of circulating supply.
type Transaction struct {
	ID        string  // UUID
	TokenID   string  // FK to tokens
	Wallet    string  // base58 trader wallet
	Type      string  // "buy" | "sell"
	Amount    float64 // token amount
	Price     float64 // per-token execution price (SOL)
	Fee       float64 // total platform fee charged (SOL)
	Timestamp int64   // execution timestamp (ms)
}

// Transaction type constants
const (
	TxTypeBuy  = "buy"
	TxTypeSell = "sell"
)
