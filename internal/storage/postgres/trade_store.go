package postgres

import (
	"context"
	"fmt"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL. All three
// writes run in one database transaction.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// ApplyTrade inserts the transaction and fee distribution and updates
// the token's market cap, committing all three or none.
func (s *TradeStore) ApplyTrade(ctx context.Context, tx *domain.Transaction, fd *domain.FeeDistribution, marketCap float64) error {
	dbTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin trade transaction: %w", err)
	}
	defer dbTx.Rollback(ctx)

	_, err = dbTx.Exec(ctx, `
		INSERT INTO transactions (
			id, token_id, wallet, type, amount, price, fee, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, tx.ID, tx.TokenID, tx.Wallet, tx.Type, tx.Amount, tx.Price, tx.Fee, tx.Timestamp)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}

	_, err = dbTx.Exec(ctx, `
		INSERT INTO fee_distributions (
			id, token_id, transaction_id, creator_wallet, amount,
			eligible_at, distributed, distributed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, fd.ID, fd.TokenID, fd.TransactionID, fd.CreatorWallet, fd.Amount,
		fd.EligibleAt, fd.Distributed, fd.DistributedAt, fd.CreatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert fee distribution: %w", err)
	}

	tag, err := dbTx.Exec(ctx,
		`UPDATE tokens SET market_cap = $2 WHERE id = $1`,
		tx.TokenID, marketCap,
	)
	if err != nil {
		return fmt.Errorf("update market cap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit trade transaction: %w", err)
	}
	return nil
}
