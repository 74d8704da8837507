package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// TransactionStore implements storage.TransactionStore using PostgreSQL.
type TransactionStore struct {
	pool *Pool
}

// NewTransactionStore creates a new TransactionStore.
func NewTransactionStore(pool *Pool) *TransactionStore {
	return &TransactionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransactionStore = (*TransactionStore)(nil)

// Insert adds a new transaction. Returns ErrDuplicateKey if id exists.
func (s *TransactionStore) Insert(ctx context.Context, tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions (
			id, token_id, wallet, type, amount, price, fee, timestamp
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		tx.ID,
		tx.TokenID,
		tx.Wallet,
		tx.Type,
		tx.Amount,
		tx.Price,
		tx.Fee,
		tx.Timestamp,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all transactions for a token, ordered by timestamp ASC.
func (s *TransactionStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.Transaction, error) {
	query := txSelect + `
		WHERE token_id = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("get transactions by token id: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByWallet retrieves all transactions for a wallet, ordered by timestamp ASC.
func (s *TransactionStore) GetByWallet(ctx context.Context, wallet string) ([]*domain.Transaction, error) {
	query := txSelect + `
		WHERE wallet = $1
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, wallet)
	if err != nil {
		return nil, fmt.Errorf("get transactions by wallet: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

// GetByTimeRange retrieves transactions for a token within [start, end] (inclusive).
func (s *TransactionStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*domain.Transaction, error) {
	query := txSelect + `
		WHERE token_id = $1 AND timestamp >= $2 AND timestamp <= $3
		ORDER BY timestamp ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID, start, end)
	if err != nil {
		return nil, fmt.Errorf("get transactions by time range: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

const txSelect = `
	SELECT id, token_id, wallet, type, amount, price, fee, timestamp
	FROM transactions
`

// scanTransactions scans all rows into transactions.
func scanTransactions(rows pgx.Rows) ([]*domain.Transaction, error) {
	var result []*domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		err := rows.Scan(
			&tx.ID,
			&tx.TokenID,
			&tx.Wallet,
			&tx.Type,
			&tx.Amount,
			&tx.Price,
			&tx.Fee,
			&tx.Timestamp,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		result = append(result, &tx)
	}
	return result, rows.Err()
}
