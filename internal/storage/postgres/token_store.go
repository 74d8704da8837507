package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
)

// TokenStore implements storage.TokenStore using PostgreSQL.
type TokenStore struct {
	pool *Pool
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(pool *Pool) *TokenStore {
	return &TokenStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TokenStore = (*TokenStore)(nil)

// Insert adds a new token. Returns ErrDuplicateKey if id or symbol exists.
func (s *TokenStore) Insert(ctx context.Context, t *domain.Token) error {
	query := `
		INSERT INTO tokens (
			id, name, symbol, creator_wallet, curve_type, launched, market_cap, launched_at, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.pool.Exec(ctx, query,
		t.ID,
		t.Name,
		t.Symbol,
		t.CreatorWallet,
		string(t.CurveType),
		t.Launched,
		t.MarketCap,
		t.LaunchedAt,
		t.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

// GetByID retrieves a token by its ID. Returns ErrNotFound if not exists.
func (s *TokenStore) GetByID(ctx context.Context, tokenID string) (*domain.Token, error) {
	query := tokenSelect + ` WHERE id = $1`

	row := s.pool.QueryRow(ctx, query, tokenID)
	return scanToken(row)
}

// GetBySymbol retrieves a token by its symbol. Returns ErrNotFound if not exists.
func (s *TokenStore) GetBySymbol(ctx context.Context, symbol string) (*domain.Token, error) {
	query := tokenSelect + ` WHERE symbol = $1`

	row := s.pool.QueryRow(ctx, query, symbol)
	return scanToken(row)
}

// List retrieves all tokens, ordered by creation time ASC.
func (s *TokenStore) List(ctx context.Context) ([]*domain.Token, error) {
	query := tokenSelect + ` ORDER BY created_at ASC, id ASC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	defer rows.Close()

	var result []*domain.Token
	for rows.Next() {
		t, err := scanToken(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

// UpdateMarketCap sets the token's market cap after a trade.
func (s *TokenStore) UpdateMarketCap(ctx context.Context, tokenID string, marketCap float64) error {
	tag, err := s.pool.Exec(ctx, `UPDATE tokens SET market_cap = $2 WHERE id = $1`, tokenID, marketCap)
	if err != nil {
		return fmt.Errorf("update market cap: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// SetLaunched marks the token as launched at the given timestamp (ms).
func (s *TokenStore) SetLaunched(ctx context.Context, tokenID string, launchedAt int64) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE tokens SET launched = TRUE, launched_at = $2 WHERE id = $1`,
		tokenID, launchedAt,
	)
	if err != nil {
		return fmt.Errorf("set launched: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

const tokenSelect = `
	SELECT id, name, symbol, creator_wallet, curve_type, launched, market_cap, launched_at, created_at
	FROM tokens
`

// scanToken scans a single token row.
func scanToken(row pgx.Row) (*domain.Token, error) {
	var t domain.Token
	var curveType string
	err := row.Scan(
		&t.ID,
		&t.Name,
		&t.Symbol,
		&t.CreatorWallet,
		&curveType,
		&t.Launched,
		&t.MarketCap,
		&t.LaunchedAt,
		&t.CreatedAt,
	)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("scan token: %w", err)
	}
	t.CurveType = domain.CurveType(curveType)
	return &t, nil
}
