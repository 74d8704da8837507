// Package launch creates and activates tokens on the platform.
package launch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/storage"
	"wybe-engine/internal/wallet"
)

// ErrInvalidToken reports a launch request that fails field validation.
var ErrInvalidToken = errors.New("invalid token")

const maxSymbolLen = 10

// Request describes a token to launch.
type Request struct {
	Name          string
	Symbol        string
	CreatorWallet string
	CurveType     string
}

// Service validates launch requests and persists new tokens.
type Service struct {
	tokens storage.TokenStore
	logger *slog.Logger
	clock  func() time.Time
}

// NewService creates a launch service. Logger and clock default to
// slog.Default and time.Now.
func NewService(tokens storage.TokenStore, logger *slog.Logger, clock func() time.Time) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{tokens: tokens, logger: logger, clock: clock}
}

// Launch validates the request, creates the token, and marks it
// launched. Symbols are uppercased before storage and must be unique;
// a duplicate symbol surfaces as storage.ErrDuplicateKey.
func (s *Service) Launch(ctx context.Context, req Request) (*domain.Token, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidToken)
	}
	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" || len(symbol) > maxSymbolLen {
		return nil, fmt.Errorf("%w: symbol must be 1-%d characters", ErrInvalidToken, maxSymbolLen)
	}
	if err := wallet.Validate(req.CreatorWallet); err != nil {
		return nil, err
	}
	curveType, err := domain.ParseCurveType(req.CurveType)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	token := &domain.Token{
		ID:            uuid.New().String(),
		Name:          name,
		Symbol:        symbol,
		CreatorWallet: req.CreatorWallet,
		CurveType:     curveType,
		CreatedAt:     now.UnixMilli(),
	}

	if err := s.tokens.Insert(ctx, token); err != nil {
		return nil, fmt.Errorf("insert token %s: %w", symbol, err)
	}
	if err := s.tokens.SetLaunched(ctx, token.ID, now.UnixMilli()); err != nil {
		return nil, fmt.Errorf("launch token %s: %w", symbol, err)
	}
	token.Launched = true
	token.LaunchedAt = now.UnixMilli()

	s.logger.Info("token launched",
		"token_id", token.ID,
		"symbol", symbol,
		"curve_type", string(curveType))

	return token, nil
}

// Get returns a token by id, mapping a missing row to
// domain.ErrTokenNotFound.
func (s *Service) Get(ctx context.Context, tokenID string) (*domain.Token, error) {
	token, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, domain.ErrTokenNotFound
		}
		return nil, err
	}
	return token, nil
}

// List returns all known tokens.
func (s *Service) List(ctx context.Context) ([]*domain.Token, error) {
	return s.tokens.List(ctx)
}
