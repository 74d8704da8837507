// Package trading assembles executed trades: it validates a trade
// request, prices it against the bonding curve, splits the platform fee,
// and produces the records an external store must apply.
package trading

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"wybe-engine/internal/curve"
	"wybe-engine/internal/domain"
	"wybe-engine/internal/fee"
	"wybe-engine/internal/ledger"
	"wybe-engine/internal/pricing"
	"wybe-engine/internal/wallet"
)

// TradeRequest describes a proposed trade. Exactly one of TokenAmount
// or SolAmount must be positive; sells are requested by token amount.
type TradeRequest struct {
	Wallet      string
	Type        string  // domain.TxTypeBuy | domain.TxTypeSell
	TokenAmount float64 // tokens to buy or sell
	SolAmount   float64 // SOL to spend (buy only)
}

// TradeResult is everything a trade produces for external persistence.
// Either the full result is returned or nothing is; no partial state is
// implied on error.
type TradeResult struct {
	Transaction     *domain.Transaction
	FeeDistribution *domain.FeeDistribution
	MarketCap       float64 // post-trade market cap for the token store
}

// RecordTrade validates and prices a trade against the prior ledger.
// Pure given its inputs and now: no I/O, no retries. The caller must
// serialize persistence per token so two trades never price against the
// same stale supply.
func RecordTrade(token *domain.Token, prior []*domain.Transaction, req TradeRequest, now time.Time) (*TradeResult, error) {
	if token == nil {
		return nil, domain.ErrTokenNotFound
	}
	if !token.Launched {
		return nil, domain.ErrTokenNotLaunched
	}
	if err := wallet.Validate(req.Wallet); err != nil {
		return nil, err
	}

	quote, err := quoteFor(token, prior, req)
	if err != nil {
		return nil, err
	}

	transactionValue := quote.Price * quote.TokenAmount

	// Market cap is the post-trade supply priced at the post-trade curve
	// position. A buy executes at the pre-trade price but moves the curve,
	// so the cap must re-read the price at the new supply.
	supply := ledger.CurrentSupply(prior)
	postSupply := supply + quote.TokenAmount
	if req.Type == domain.TxTypeSell {
		postSupply = supply - quote.TokenAmount
	}
	marketCap := postSupply * curve.Price(postSupply, token.CurveType)

	split := fee.Compute(transactionValue, marketCap, now)

	tx := &domain.Transaction{
		ID:        uuid.New().String(),
		TokenID:   token.ID,
		Wallet:    req.Wallet,
		Type:      req.Type,
		Amount:    quote.TokenAmount,
		Price:     quote.Price,
		Fee:       split.TotalFee,
		Timestamp: now.UnixMilli(),
	}

	dist := &domain.FeeDistribution{
		ID:            uuid.New().String(),
		TokenID:       token.ID,
		TransactionID: tx.ID,
		CreatorWallet: token.CreatorWallet,
		Amount:        split.CreatorFee,
		EligibleAt:    split.EligibleAt.UnixMilli(),
		CreatedAt:     now.UnixMilli(),
	}

	return &TradeResult{
		Transaction:     tx,
		FeeDistribution: dist,
		MarketCap:       marketCap,
	}, nil
}

func quoteFor(token *domain.Token, prior []*domain.Transaction, req TradeRequest) (*pricing.Quote, error) {
	switch req.Type {
	case domain.TxTypeBuy:
		if req.SolAmount > 0 {
			return pricing.QuoteBuySol(token, prior, req.SolAmount)
		}
		return pricing.QuoteBuyTokens(token, prior, req.TokenAmount)
	case domain.TxTypeSell:
		return pricing.QuoteSellTokens(token, prior, req.TokenAmount)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidTradeType, req.Type)
	}
}
