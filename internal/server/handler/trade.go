package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/pricing"
	"wybe-engine/internal/storage"
	"wybe-engine/internal/trading"
)

// TradeService defines the methods the trade handler requires from the
// trading service.
type TradeService interface {
	ExecuteTrade(ctx context.Context, tokenID string, req trading.TradeRequest) (*trading.TradeResult, error)
	QuoteTrade(ctx context.Context, tokenID string, req trading.TradeRequest) (*pricing.Quote, error)
	CurrentPrice(ctx context.Context, tokenID string) (price, supply float64, err error)
	History(ctx context.Context, tokenID string) ([]*domain.Transaction, error)
	PriceHistory(ctx context.Context, tokenID string, fromMs, toMs int64) ([]*storage.PricePoint, error)
}

// FeeReader lists fee distributions for a token.
type FeeReader interface {
	GetByTokenID(ctx context.Context, tokenID string) ([]*domain.FeeDistribution, error)
}

// TradeHandler serves trade execution and pricing HTTP endpoints.
type TradeHandler struct {
	trades TradeService
	fees   FeeReader
	logger *slog.Logger
}

// NewTradeHandler creates a TradeHandler.
func NewTradeHandler(trades TradeService, fees FeeReader, logger *slog.Logger) *TradeHandler {
	return &TradeHandler{trades: trades, fees: fees, logger: logger}
}

// tradeRequest is the POST /api/tokens/{id}/trades body. For buys,
// exactly one of solAmount or tokenAmount must be positive; sells take
// tokenAmount.
type tradeRequest struct {
	Wallet      string  `json:"wallet"`
	Type        string  `json:"type"` // "buy" | "sell"
	TokenAmount float64 `json:"tokenAmount,omitempty"`
	SolAmount   float64 `json:"solAmount,omitempty"`
}

// tradeResponse is the executed trade envelope.
type tradeResponse struct {
	Transaction     *domain.Transaction     `json:"transaction"`
	FeeDistribution *domain.FeeDistribution `json:"feeDistribution"`
	MarketCap       float64                 `json:"marketCap"`
}

// ExecuteTrade runs a buy or sell against the bonding curve.
// POST /api/tokens/{id}/trades
func (h *TradeHandler) ExecuteTrade(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing token id")
		return
	}

	var req tradeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	result, err := h.trades.ExecuteTrade(r.Context(), id, trading.TradeRequest{
		Wallet:      req.Wallet,
		Type:        req.Type,
		TokenAmount: req.TokenAmount,
		SolAmount:   req.SolAmount,
	})
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "handler: execute trade failed",
				slog.String("token_id", id),
				slog.String("error", err.Error()),
			)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, tradeResponse{
		Transaction:     result.Transaction,
		FeeDistribution: result.FeeDistribution,
		MarketCap:       result.MarketCap,
	})
}

// ListTrades returns the token's transactions in ledger order.
// GET /api/tokens/{id}/trades
func (h *TradeHandler) ListTrades(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	txs, err := h.trades.History(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": txs})
}

// QuoteTrade prices a trade without executing it.
// GET /api/tokens/{id}/quote?side=buy&sol=1 or ?side=sell&tokens=100
func (h *TradeHandler) QuoteTrade(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	side := r.URL.Query().Get("side")

	quote, err := h.trades.QuoteTrade(r.Context(), id, trading.TradeRequest{
		Wallet:      "", // quotes are anonymous
		Type:        side,
		TokenAmount: queryFloat(r, "tokens"),
		SolAmount:   queryFloat(r, "sol"),
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, quote)
}

// GetPrice returns the spot price and circulating supply.
// GET /api/tokens/{id}/price
func (h *TradeHandler) GetPrice(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	price, supply, err := h.trades.CurrentPrice(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]float64{
		"price":  price,
		"supply": supply,
	})
}

// ListPrices returns the recorded price timeseries.
// GET /api/tokens/{id}/prices?from=<ms>&to=<ms>
func (h *TradeHandler) ListPrices(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	from := queryInt64(r, "from", 0)
	to := queryInt64(r, "to", time.Now().UnixMilli())

	points, err := h.trades.PriceHistory(r.Context(), id, from, to)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"prices": points})
}

// ListFees returns the fee distributions recorded for a token.
// GET /api/tokens/{id}/fees
func (h *TradeHandler) ListFees(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	dists, err := h.fees.GetByTokenID(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"feeDistributions": dists})
}
