package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// FeeDistributionStore implements storage.FeeDistributionStore using PostgreSQL.
type FeeDistributionStore struct {
	pool *Pool
}

// NewFeeDistributionStore creates a new FeeDistributionStore.
func NewFeeDistributionStore(pool *Pool) *FeeDistributionStore {
	return &FeeDistributionStore{pool: pool}
}

// Compile-time interface check.
var _ storage.FeeDistributionStore = (*FeeDistributionStore)(nil)

// Insert adds a new fee distribution. Returns ErrDuplicateKey if id exists.
func (s *FeeDistributionStore) Insert(ctx context.Context, fd *domain.FeeDistribution) error {
	query := `
		INSERT INTO fee_distributions (
			id, token_id, transaction_id, creator_wallet, amount,
			eligible_at, distributed, distributed_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		fd.ID,
		fd.TokenID,
		fd.TransactionID,
		fd.CreatorWallet,
		fd.Amount,
		fd.EligibleAt,
		fd.Distributed,
		fd.DistributedAt,
		fd.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert fee distribution: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all distributions for a token, ordered by creation ASC.
func (s *FeeDistributionStore) GetByTokenID(ctx context.Context, tokenID string) ([]*domain.FeeDistribution, error) {
	query := feeDistSelect + `
		WHERE token_id = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("get fee distributions by token id: %w", err)
	}
	defer rows.Close()

	return scanFeeDistributions(rows)
}

// GetClaimable retrieves undistributed records whose eligibility timestamp
// is at or before now (ms), ordered by eligibility ASC.
func (s *FeeDistributionStore) GetClaimable(ctx context.Context, now int64) ([]*domain.FeeDistribution, error) {
	query := feeDistSelect + `
		WHERE distributed = FALSE AND eligible_at <= $1
		ORDER BY eligible_at ASC, id ASC
	`

	rows, err := s.pool.Query(ctx, query, now)
	if err != nil {
		return nil, fmt.Errorf("get claimable fee distributions: %w", err)
	}
	defer rows.Close()

	return scanFeeDistributions(rows)
}

// MarkDistributed flips distributed false -> true exactly once. The
// WHERE clause guards the flip so a concurrent double-claim affects zero
// rows and reports ErrNotFound.
func (s *FeeDistributionStore) MarkDistributed(ctx context.Context, id string, distributedAt int64) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE fee_distributions
		SET distributed = TRUE, distributed_at = $2
		WHERE id = $1 AND distributed = FALSE
	`, id, distributedAt)
	if err != nil {
		return fmt.Errorf("mark fee distribution distributed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const feeDistSelect = `
	SELECT id, token_id, transaction_id, creator_wallet, amount,
	       eligible_at, distributed, distributed_at, created_at
	FROM fee_distributions
`

// scanFeeDistributions scans all rows into fee distributions.
func scanFeeDistributions(rows pgx.Rows) ([]*domain.FeeDistribution, error) {
	var result []*domain.FeeDistribution
	for rows.Next() {
		var fd domain.FeeDistribution
		err := rows.Scan(
			&fd.ID,
			&fd.TokenID,
			&fd.TransactionID,
			&fd.CreatorWallet,
			&fd.Amount,
			&fd.EligibleAt,
			&fd.Distributed,
			&fd.DistributedAt,
			&fd.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan fee distribution: %w", err)
		}
		result = append(result, &fd)
	}
	return result, rows.Err()
}
