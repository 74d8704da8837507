package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/launch"
)

// LaunchService defines the methods the token handler requires from the
// launch service. Declared locally so the handler package does not
// depend on the concrete implementation.
type LaunchService interface {
	Launch(ctx context.Context, req launch.Request) (*domain.Token, error)
	Get(ctx context.Context, tokenID string) (*domain.Token, error)
	List(ctx context.Context) ([]*domain.Token, error)
}

// TokenHandler serves token lifecycle HTTP endpoints.
type TokenHandler struct {
	tokens LaunchService
	logger *slog.Logger
}

// NewTokenHandler creates a TokenHandler.
func NewTokenHandler(tokens LaunchService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger}
}

// launchRequest is the POST /api/tokens body.
type launchRequest struct {
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	CreatorWallet string `json:"creatorWallet"`
	CurveType     string `json:"curveType"`
}

// LaunchToken creates and launches a new token.
// POST /api/tokens
func (h *TokenHandler) LaunchToken(w http.ResponseWriter, r *http.Request) {
	var req launchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	token, err := h.tokens.Launch(r.Context(), launch.Request{
		Name:          req.Name,
		Symbol:        req.Symbol,
		CreatorWallet: req.CreatorWallet,
		CurveType:     req.CurveType,
	})
	if err != nil {
		if statusForError(err) == http.StatusInternalServerError {
			h.logger.ErrorContext(r.Context(), "handler: launch token failed",
				slog.String("error", err.Error()),
			)
		}
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, token)
}

// ListTokens returns all known tokens.
// GET /api/tokens
func (h *TokenHandler) ListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.tokens.List(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: list tokens failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "failed to list tokens")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"tokens": tokens})
}

// GetToken returns a single token by its ID.
// GET /api/tokens/{id}
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	id := pathParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing token id")
		return
	}

	token, err := h.tokens.Get(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, token)
}
