// Package pricing quotes trades against a token's bonding curve.
package pricing

import (
	"fmt"
	"math"

	"wybe-engine/internal/curve"
	"wybe-engine/internal/domain"
	"wybe-engine/internal/ledger"
)

// Quote is the priced outcome of a proposed trade before fees.
type Quote struct {
	Price       float64 // per-token execution price (SOL)
	TokenAmount float64 // tokens bought or sold
	SolAmount   float64 // SOL paid (buy) or received (sell)
}

// QuoteBuySol quotes a buy funded with a fixed SOL amount. The price is
// the curve price at current supply; the token amount is solAmount/price.
func QuoteBuySol(token *domain.Token, prior []*domain.Transaction, solAmount float64) (*Quote, error) {
	if err := validate(token, solAmount); err != nil {
		return nil, err
	}

	supply := ledger.CurrentSupply(prior)
	price := curve.Price(supply, token.CurveType)
	if !isUsable(price) || price == 0 {
		// A zero price cannot fund a buy-by-SOL division.
		return nil, fmt.Errorf("%w: price %v at supply %v", domain.ErrPriceCalculation, price, supply)
	}

	return &Quote{
		Price:       price,
		TokenAmount: solAmount / price,
		SolAmount:   solAmount,
	}, nil
}

// QuoteBuyTokens quotes a buy of a fixed token amount at the curve price
// for current supply.
func QuoteBuyTokens(token *domain.Token, prior []*domain.Transaction, tokenAmount float64) (*Quote, error) {
	if err := validate(token, tokenAmount); err != nil {
		return nil, err
	}

	supply := ledger.CurrentSupply(prior)
	price := curve.Price(supply, token.CurveType)
	if !isUsable(price) {
		return nil, fmt.Errorf("%w: price %v at supply %v", domain.ErrPriceCalculation, price, supply)
	}

	return &Quote{
		Price:       price,
		TokenAmount: tokenAmount,
		SolAmount:   tokenAmount * price,
	}, nil
}

// QuoteSellTokens quotes a sell of a fixed token amount. The price
// reflects post-sell supply: the curve is evaluated at supply - amount.
// Selling more than circulating supply is rejected.
func QuoteSellTokens(token *domain.Token, prior []*domain.Transaction, tokenAmount float64) (*Quote, error) {
	if err := validate(token, tokenAmount); err != nil {
		return nil, err
	}

	supply := ledger.CurrentSupply(prior)
	if tokenAmount > supply {
		return nil, fmt.Errorf("%w: sell %v exceeds circulating supply %v", domain.ErrInvalidAmount, tokenAmount, supply)
	}

	price := curve.Price(supply-tokenAmount, token.CurveType)
	if !isUsable(price) {
		return nil, fmt.Errorf("%w: price %v at supply %v", domain.ErrPriceCalculation, price, supply-tokenAmount)
	}

	return &Quote{
		Price:       price,
		TokenAmount: tokenAmount,
		SolAmount:   tokenAmount * price,
	}, nil
}

func validate(token *domain.Token, amount float64) error {
	if token == nil {
		return domain.ErrTokenNotFound
	}
	if !token.Launched {
		return domain.ErrTokenNotLaunched
	}
	if amount <= 0 || math.IsNaN(amount) || math.IsInf(amount, 0) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAmount, amount)
	}
	return nil
}

func isUsable(price float64) bool {
	return !math.IsNaN(price) && !math.IsInf(price, 0) && price >= 0
}
