package clickhouse

import (
	"context"
	"fmt"

	"wybe-engine/internal/storage"
)

// PricePointStore implements storage.PricePointStore using ClickHouse.
type PricePointStore struct {
	conn *Conn
}

// NewPricePointStore creates a new PricePointStore.
func NewPricePointStore(conn *Conn) *PricePointStore {
	return &PricePointStore{conn: conn}
}

// Compile-time interface check.
var _ storage.PricePointStore = (*PricePointStore)(nil)

// InsertBulk adds multiple points. Fails entire batch on duplicate
// (token_id, timestamp_ms). ClickHouse MergeTree does not enforce
// uniqueness at insert time, so duplicates are checked explicitly.
func (s *PricePointStore) InsertBulk(ctx context.Context, points []*storage.PricePoint) error {
	if len(points) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		tokenID     string
		timestampMs int64
	}
	seen := make(map[key]struct{})
	for _, p := range points {
		if p == nil || p.TokenID == "" {
			return storage.ErrInvalidInput
		}
		k := key{p.TokenID, p.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing rows
	for _, p := range points {
		exists, err := s.exists(ctx, p.TokenID, p.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO price_points (
			token_id, timestamp_ms, price, market_cap, volume
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, p := range points {
		err = batch.Append(
			p.TokenID, uint64(p.TimestampMs),
			p.Price, p.MarketCap, p.Volume,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}
	return nil
}

// GetByTokenID retrieves all points for a token, ordered by timestamp ASC.
func (s *PricePointStore) GetByTokenID(ctx context.Context, tokenID string) ([]*storage.PricePoint, error) {
	query := `
		SELECT token_id, timestamp_ms, price, market_cap, volume
		FROM price_points
		WHERE token_id = ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID)
	if err != nil {
		return nil, fmt.Errorf("get price points by token id: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// GetByTimeRange retrieves points for a token within [start, end] (inclusive).
func (s *PricePointStore) GetByTimeRange(ctx context.Context, tokenID string, start, end int64) ([]*storage.PricePoint, error) {
	query := `
		SELECT token_id, timestamp_ms, price, market_cap, volume
		FROM price_points
		WHERE token_id = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, tokenID, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("get price points by time range: %w", err)
	}
	defer rows.Close()

	return scanPricePoints(rows)
}

// exists checks if a point with the given key already exists.
func (s *PricePointStore) exists(ctx context.Context, tokenID string, timestampMs int64) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx, `
		SELECT count() FROM price_points
		WHERE token_id = ? AND timestamp_ms = ?
	`, tokenID, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

type chRows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanPricePoints(rows chRows) ([]*storage.PricePoint, error) {
	var result []*storage.PricePoint
	for rows.Next() {
		var p storage.PricePoint
		var ts uint64
		if err := rows.Scan(&p.TokenID, &ts, &p.Price, &p.MarketCap, &p.Volume); err != nil {
			return nil, fmt.Errorf("scan price point: %w", err)
		}
		p.TimestampMs = int64(ts)
		result = append(result, &p)
	}
	return result, rows.Err()
}
