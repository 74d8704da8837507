package storage

import (
	"context"

	"wybe-engine/internal/domain"
)

// TokenStore provides access to tokens storage.
type TokenStore interface {
	// Insert adds a new token. Returns ErrDuplicateKey if id or symbol exists.
	Insert(ctx context.Context, t *domain.Token) error

	// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, tokenID string) (*domain.Token, error)

	// GetBySymbol retrieves a token by its symbol. Returns ErrNotFound if not exists.
	GetBySymbol(ctx context.Context, symbol string) (*domain.Token, error)

	// List retrieves all tokens, ordered by creation time ASC.
	List(ctx context.Context) ([]*domain.Token, error)

	// UpdateMarketCap sets the token's market cap after a trade.
	// This is the only mutable token field besides launch state.
	UpdateMarketCap(ctx context.Context, tokenID string, marketCap float64) error

	// SetLaunched marks the token as launched at the given timestamp (ms).
	SetLaunched(ctx context.Context, tokenID string, launchedAt int64) error
}

// TransactionStore provides access to transactions storage.
// Transactions are immutable once inserted.
type TransactionStore interface {
	// Insert adds a new transaction. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, tx *domain.Transaction) error

	// GetByTokenID retrieves all transactions for a token, ordered by
	// timestamp ASC. This order is the authoritative ledger order for
	// supply derivation.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.Transaction, error)

	// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
	GetByWallet(ctx context.Context, wallet string) ([]*domain.Transaction, error)

	// GetByTimeRange retrieves transactions for a token within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.Transaction, error)
}

// TradeStore persists the records of one executed trade as a unit:
// the transaction, its fee distribution, and the token's new market
// cap either all land or none do. Returns ErrDuplicateKey if either
// record id exists, ErrNotFound if the token does not.
type TradeStore interface {
	ApplyTrade(ctx context.Context, tx *domain.Transaction, fd *domain.FeeDistribution, marketCap float64) error
}

// FeeDistributionStore provides access to fee_distributions storage.
type FeeDistributionStore interface {
	// Insert adds a new fee distribution. Returns ErrDuplicateKey if id exists.
	Insert(ctx context.Context, fd *domain.FeeDistribution) error

	// GetByTokenID retrieves all distributions for a token, ordered by creation ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.FeeDistribution, error)

	// GetClaimable retrieves undistributed records whose eligibility
	// timestamp is at or before now (ms), ordered by eligibility ASC.
	GetClaimable(ctx context.Context, now int64) ([]*domain.FeeDistribution, error)

	// MarkDistributed flips distributed false -> true and records the
	// payout timestamp (ms). Returns ErrNotFound if the record does not
	// exist or was already distributed; the flip happens exactly once.
	MarkDistributed(ctx context.Context, id string, distributedAt int64) error
}

// PricePoint is a single point of a token's price history, appended
// after every executed trade.
type PricePoint struct {
	TokenID     string  // FK to tokens
	TimestampMs int64   // trade execution timestamp (ms)
	Price       float64 // per-token price after the trade (SOL)
	MarketCap   float64 // supply * price after the trade (USD)
	Volume      float64 // SOL volume of the trade
}

// PricePointStore provides access to price_points timeseries storage.
type PricePointStore interface {
	// InsertBulk adds multiple points. Fails entire batch on duplicate
	// (token_id, timestamp_ms).
	InsertBulk(ctx context.Context, points []*PricePoint) error

	// GetByTokenID retrieves all points for a token, ordered by timestamp ASC.
	GetByTokenID(ctx context.Context, tokenID string) ([]*PricePoint, error)

	// GetByTimeRange retrieves points for a token within [start, end] (inclusive, ms).
	GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*PricePoint, error)
}
