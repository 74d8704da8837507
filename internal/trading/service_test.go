package trading

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"sync"
	"testing"
	"time"

	cachemem "wybe-engine/internal/cache/memory"
	"wybe-engine/internal/domain"
	storemem "wybe-engine/internal/storage/memory"
)

type captureFeed struct {
	mu     sync.Mutex
	trades []*domain.Transaction
}

func (f *captureFeed) BroadcastTrade(tx *domain.Transaction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.trades = append(f.trades, tx)
}

type testEnv struct {
	svc    *Service
	tokens *storemem.TokenStore
	txs    *storemem.TransactionStore
	fees   *storemem.FeeDistributionStore
	prices *storemem.PricePointStore
	feed   *captureFeed
	now    time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		tokens: storemem.NewTokenStore(),
		txs:    storemem.NewTransactionStore(),
		fees:   storemem.NewFeeDistributionStore(),
		prices: storemem.NewPricePointStore(),
		feed:   &captureFeed{},
		now:    time.UnixMilli(1_700_000_000_000),
	}
	env.svc = NewService(ServiceOptions{
		Tokens: env.tokens,
		Txs:    env.txs,
		Trades: storemem.NewTradeStore(env.txs, env.fees, env.tokens),
		Prices: env.prices,
		Locks:  cachemem.NewLocker(),
		Feed:   env.feed,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		Clock:  func() time.Time { return env.now },
	})
	return env
}

func (env *testEnv) insertToken(t *testing.T, token *domain.Token) {
	t.Helper()
	if err := env.tokens.Insert(context.Background(), token); err != nil {
		t.Fatalf("insert token: %v", err)
	}
}

func TestExecuteTrade_PersistsAllRecords(t *testing.T) {
	env := newTestEnv(t)
	env.insertToken(t, launchedToken(domain.CurveLinear))
	ctx := context.Background()

	res, err := env.svc.ExecuteTrade(ctx, "tok-1", TradeRequest{
		Wallet:    testWallet,
		Type:      domain.TxTypeBuy,
		SolAmount: 1,
	})
	if err != nil {
		t.Fatalf("ExecuteTrade: %v", err)
	}

	txs, err := env.txs.GetByTokenID(ctx, "tok-1")
	if err != nil {
		t.Fatalf("GetByTokenID: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != res.Transaction.ID {
		t.Fatalf("stored transactions = %v", txs)
	}

	dists, err := env.fees.GetByTokenID(ctx, "tok-1")
	if err != nil {
		t.Fatalf("fees.GetByTokenID: %v", err)
	}
	if len(dists) != 1 || dists[0].TransactionID != res.Transaction.ID {
		t.Fatalf("stored distributions = %v", dists)
	}
	if dists[0].Distributed {
		t.Error("new distribution must not be marked distributed")
	}

	token, err := env.tokens.GetByID(ctx, "tok-1")
	if err != nil {
		t.Fatalf("tokens.GetByID: %v", err)
	}
	if math.Abs(token.MarketCap-res.MarketCap) > 1e-12 {
		t.Errorf("stored market cap = %v, want %v", token.MarketCap, res.MarketCap)
	}

	points, err := env.prices.GetByTokenID(ctx, "tok-1")
	if err != nil {
		t.Fatalf("prices.GetByTokenID: %v", err)
	}
	if len(points) != 1 || points[0].Price != res.Transaction.Price {
		t.Fatalf("stored price points = %v", points)
	}

	if len(env.feed.trades) != 1 || env.feed.trades[0].ID != res.Transaction.ID {
		t.Fatalf("broadcast trades = %v", env.feed.trades)
	}
}

func TestExecuteTrade_SupplyAccumulatesAcrossTrades(t *testing.T) {
	env := newTestEnv(t)
	env.insertToken(t, launchedToken(domain.CurveLinear))
	ctx := context.Background()

	first, err := env.svc.ExecuteTrade(ctx, "tok-1", TradeRequest{
		Wallet: testWallet, Type: domain.TxTypeBuy, TokenAmount: 100,
	})
	if err != nil {
		t.Fatalf("first trade: %v", err)
	}
	env.now = env.now.Add(time.Second)
	second, err := env.svc.ExecuteTrade(ctx, "tok-1", TradeRequest{
		Wallet: testWallet, Type: domain.TxTypeBuy, TokenAmount: 100,
	})
	if err != nil {
		t.Fatalf("second trade: %v", err)
	}

	if first.Transaction.Price != 0.01 {
		t.Errorf("first price = %v, want 0.01", first.Transaction.Price)
	}
	// Second buy prices at supply 100.
	if second.Transaction.Price != 0.02 {
		t.Errorf("second price = %v, want 0.02", second.Transaction.Price)
	}
}

func TestExecuteTrade_FailsValidationBeforePersisting(t *testing.T) {
	env := newTestEnv(t)
	env.insertToken(t, launchedToken(domain.CurveLinear))
	ctx := context.Background()

	_, err := env.svc.ExecuteTrade(ctx, "tok-1", TradeRequest{
		Wallet: testWallet, Type: domain.TxTypeSell, TokenAmount: 5,
	})
	if !errors.Is(err, domain.ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}

	txs, _ := env.txs.GetByTokenID(ctx, "tok-1")
	if len(txs) != 0 {
		t.Errorf("rejected trade left %d transactions", len(txs))
	}
	dists, _ := env.fees.GetByTokenID(ctx, "tok-1")
	if len(dists) != 0 {
		t.Errorf("rejected trade left %d distributions", len(dists))
	}
}

func TestExecuteTrade_UnknownToken(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.svc.ExecuteTrade(context.Background(), "missing", TradeRequest{
		Wallet: testWallet, Type: domain.TxTypeBuy, SolAmount: 1,
	})
	if !errors.Is(err, domain.ErrTokenNotFound) {
		t.Fatalf("err = %v, want ErrTokenNotFound", err)
	}
}

func TestQuoteTrade_NoSideEffects(t *testing.T) {
	env := newTestEnv(t)
	env.insertToken(t, launchedToken(domain.CurveLinear))
	ctx := context.Background()

	q, err := env.svc.QuoteTrade(ctx, "tok-1", TradeRequest{
		Wallet: testWallet, Type: domain.TxTypeBuy, SolAmount: 1,
	})
	if err != nil {
		t.Fatalf("QuoteTrade: %v", err)
	}
	if q.Price != 0.01 || q.TokenAmount != 100 {
		t.Errorf("quote = %+v, want price 0.01 amount 100", q)
	}

	txs, _ := env.txs.GetByTokenID(ctx, "tok-1")
	if len(txs) != 0 {
		t.Errorf("quote persisted %d transactions", len(txs))
	}
}

func TestCurrentPrice_UnlaunchedTokenStillPriced(t *testing.T) {
	env := newTestEnv(t)
	token := launchedToken(domain.CurveQuadratic)
	token.Launched = false
	env.insertToken(t, token)

	price, supply, err := env.svc.CurrentPrice(context.Background(), "tok-1")
	if err != nil {
		t.Fatalf("CurrentPrice: %v", err)
	}
	if supply != 0 {
		t.Errorf("supply = %v, want 0", supply)
	}
	if price != 0.01 {
		t.Errorf("price = %v, want 0.01", price)
	}
}

type failingTradeStore struct{ err error }

func (s *failingTradeStore) ApplyTrade(context.Context, *domain.Transaction, *domain.FeeDistribution, float64) error {
	return s.err
}

func TestExecuteTrade_FailedApplyLeavesNoRecords(t *testing.T) {
	env := newTestEnv(t)
	env.insertToken(t, launchedToken(domain.CurveLinear))
	ctx := context.Background()

	applyErr := errors.New("fee write refused")
	env.svc.trades = &failingTradeStore{err: applyErr}

	_, err := env.svc.ExecuteTrade(ctx, "tok-1", TradeRequest{
		Wallet: testWallet, Type: domain.TxTypeBuy, SolAmount: 1,
	})
	if !errors.Is(err, applyErr) {
		t.Fatalf("err = %v, want wrapped apply error", err)
	}

	txs, _ := env.txs.GetByTokenID(ctx, "tok-1")
	if len(txs) != 0 {
		t.Errorf("failed trade left %d transactions", len(txs))
	}
	dists, _ := env.fees.GetByTokenID(ctx, "tok-1")
	if len(dists) != 0 {
		t.Errorf("failed trade left %d distributions", len(dists))
	}
	points, _ := env.prices.GetByTokenID(ctx, "tok-1")
	if len(points) != 0 {
		t.Errorf("failed trade left %d price points", len(points))
	}
	if len(env.feed.trades) != 0 {
		t.Errorf("failed trade was broadcast %d times", len(env.feed.trades))
	}
}

func TestExecuteTrade_LockedTokenFailsFast(t *testing.T) {
	env := newTestEnv(t)
	env.insertToken(t, launchedToken(domain.CurveLinear))

	locker := cachemem.NewLocker()
	env.svc.locks = locker
	release, err := locker.Acquire(context.Background(), "tok-1", time.Minute)
	if err != nil {
		t.Fatalf("pre-acquire: %v", err)
	}
	defer release()

	_, err = env.svc.ExecuteTrade(context.Background(), "tok-1", TradeRequest{
		Wallet: testWallet, Type: domain.TxTypeBuy, SolAmount: 1,
	})
	if !errors.Is(err, domain.ErrTokenLocked) {
		t.Fatalf("err = %v, want ErrTokenLocked", err)
	}
}
