package trading

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wybe-engine/internal/cache"
	"wybe-engine/internal/curve"
	"wybe-engine/internal/domain"
	"wybe-engine/internal/ledger"
	"wybe-engine/internal/pricing"
	"wybe-engine/internal/storage"
)

// Feed receives executed trades for fan-out to live subscribers.
type Feed interface {
	BroadcastTrade(tx *domain.Transaction)
}

// Service executes trades end to end: it serializes per token, prices
// against the stored ledger, and persists the resulting records.
type Service struct {
	tokens  storage.TokenStore
	txs     storage.TransactionStore
	trades  storage.TradeStore
	prices  storage.PricePointStore
	locks   cache.Locker
	feed    Feed
	lockTTL time.Duration
	logger  *slog.Logger
	clock   func() time.Time
}

// ServiceOptions contains dependencies for creating a Service.
// Prices and Feed are optional; the token and transaction stores, the
// trade store, and the locker are required.
type ServiceOptions struct {
	Tokens  storage.TokenStore
	Txs     storage.TransactionStore
	Trades  storage.TradeStore
	Prices  storage.PricePointStore
	Locks   cache.Locker
	Feed    Feed
	LockTTL time.Duration // Default: 10s
	Logger  *slog.Logger
	Clock   func() time.Time // Default: time.Now
}

// NewService creates a trading service.
func NewService(opts ServiceOptions) *Service {
	lockTTL := opts.LockTTL
	if lockTTL == 0 {
		lockTTL = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		tokens:  opts.Tokens,
		txs:     opts.Txs,
		trades:  opts.Trades,
		prices:  opts.Prices,
		locks:   opts.Locks,
		feed:    opts.Feed,
		lockTTL: lockTTL,
		logger:  logger,
		clock:   clock,
	}
}

// ExecuteTrade runs a trade for the given token under the per-token
// lock. Concurrent trades for the same token fail fast with
// domain.ErrTokenLocked rather than queueing.
func (s *Service) ExecuteTrade(ctx context.Context, tokenID string, req TradeRequest) (*TradeResult, error) {
	release, err := s.locks.Acquire(ctx, tokenID, s.lockTTL)
	if err != nil {
		return nil, err
	}
	defer release()

	token, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	prior, err := s.txs.GetByTokenID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("load ledger for token %s: %w", tokenID, err)
	}

	now := s.clock()
	result, err := RecordTrade(token, prior, req, now)
	if err != nil {
		return nil, err
	}

	// One atomic apply: a half-written trade would leave a transaction
	// with no matching fee distribution.
	if err := s.trades.ApplyTrade(ctx, result.Transaction, result.FeeDistribution, result.MarketCap); err != nil {
		return nil, fmt.Errorf("apply trade: %w", err)
	}

	// Price history is derived data; a write failure must not fail the
	// trade itself.
	if s.prices != nil {
		point := &storage.PricePoint{
			TokenID:     tokenID,
			TimestampMs: result.Transaction.Timestamp,
			Price:       result.Transaction.Price,
			MarketCap:   result.MarketCap,
			Volume:      result.Transaction.Price * result.Transaction.Amount,
		}
		if err := s.prices.InsertBulk(ctx, []*storage.PricePoint{point}); err != nil {
			s.logger.Warn("price point write failed",
				"token_id", tokenID, "error", err)
		}
	}

	if s.feed != nil {
		s.feed.BroadcastTrade(result.Transaction)
	}

	s.logger.Info("trade executed",
		"token_id", tokenID,
		"type", result.Transaction.Type,
		"amount", result.Transaction.Amount,
		"price", result.Transaction.Price,
		"fee", result.Transaction.Fee,
		"market_cap", result.MarketCap)

	return result, nil
}

// QuoteTrade prices a trade against the current ledger without
// executing it.
func (s *Service) QuoteTrade(ctx context.Context, tokenID string, req TradeRequest) (*pricing.Quote, error) {
	token, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return nil, err
	}
	prior, err := s.txs.GetByTokenID(ctx, tokenID)
	if err != nil {
		return nil, fmt.Errorf("load ledger for token %s: %w", tokenID, err)
	}
	return quoteFor(token, prior, req)
}

// CurrentPrice returns the spot price and circulating supply for a
// token. Unlaunched tokens are still priced; spot pricing has no trade
// side effects.
func (s *Service) CurrentPrice(ctx context.Context, tokenID string) (price, supply float64, err error) {
	token, err := s.loadToken(ctx, tokenID)
	if err != nil {
		return 0, 0, err
	}
	txs, err := s.txs.GetByTokenID(ctx, tokenID)
	if err != nil {
		return 0, 0, fmt.Errorf("load ledger for token %s: %w", tokenID, err)
	}
	supply = ledger.CurrentSupply(txs)
	return curve.Price(supply, token.CurveType), supply, nil
}

// History returns a token's transactions in ledger order.
func (s *Service) History(ctx context.Context, tokenID string) ([]*domain.Transaction, error) {
	if _, err := s.loadToken(ctx, tokenID); err != nil {
		return nil, err
	}
	return s.txs.GetByTokenID(ctx, tokenID)
}

// PriceHistory returns recorded price points for a token over
// [fromMs, toMs]. Requires a price point store.
func (s *Service) PriceHistory(ctx context.Context, tokenID string, fromMs, toMs int64) ([]*storage.PricePoint, error) {
	if s.prices == nil {
		return nil, nil
	}
	if _, err := s.loadToken(ctx, tokenID); err != nil {
		return nil, err
	}
	return s.prices.GetByTimeRange(ctx, tokenID, fromMs, toMs)
}

func (s *Service) loadToken(ctx context.Context, tokenID string) (*domain.Token, error) {
	token, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, fmt.Errorf("load token %s: %w", tokenID, err)
	}
	return token, nil
}
