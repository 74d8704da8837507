// Package ledger derives circulating supply from a token's ordered
// transaction history.
package ledger

import "wybe-engine/internal/domain"

// CurrentSupply folds the transaction sequence in insertion order: buys
// add their amount, sells subtract. Only the final aggregate is clamped
// at zero; intermediate negative excursions are carried through. A
// sell-before-buy replay therefore nets against later buys instead of
// being dropped, matching the ledger's historical accounting.
func CurrentSupply(txs []*domain.Transaction) float64 {
	var supply float64
	for _, tx := range txs {
		switch tx.Type {
		case domain.TxTypeBuy:
			supply += tx.Amount
		case domain.TxTypeSell:
			supply -= tx.Amount
		}
	}
	if supply < 0 {
		return 0
	}
	return supply
}

// SupplyAt computes circulating supply considering only transactions
// strictly before asOf (ms).
func SupplyAt(txs []*domain.Transaction, asOf int64) float64 {
	var prior []*domain.Transaction
	for _, tx := range txs {
		if tx.Timestamp < asOf {
			prior = append(prior, tx)
		}
	}
	return CurrentSupply(prior)
}
