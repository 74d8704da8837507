// Package distribution pays out creator fee shares once their
// eligibility window has passed.
package distribution

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"wybe-engine/internal/storage"
)

// Result summarizes one processing pass.
type Result struct {
	Scanned     int // eligible records found
	Distributed int // records flipped this pass
	Failed      int // records that errored and were left for retry
}

// Processor scans claimable fee distributions and marks each
// distributed exactly once.
type Processor struct {
	fees   storage.FeeDistributionStore
	logger *slog.Logger
	clock  func() time.Time
}

// NewProcessor creates a claim processor. Logger and clock default to
// slog.Default and time.Now.
func NewProcessor(fees storage.FeeDistributionStore, logger *slog.Logger, clock func() time.Time) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = time.Now
	}
	return &Processor{fees: fees, logger: logger, clock: clock}
}

// ProcessOnce runs a single pass over all claimable records. A record
// that fails to flip is logged and skipped; the pass keeps going so one
// bad record cannot starve the rest.
func (p *Processor) ProcessOnce(ctx context.Context) (*Result, error) {
	now := p.clock().UnixMilli()
	claimable, err := p.fees.GetClaimable(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("scan claimable distributions: %w", err)
	}

	res := &Result{Scanned: len(claimable)}
	for _, fd := range claimable {
		if err := p.fees.MarkDistributed(ctx, fd.ID, now); err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				// Another worker won the flip; not a failure.
				continue
			}
			res.Failed++
			p.logger.Error("mark distributed failed",
				"distribution_id", fd.ID, "error", err)
			continue
		}
		res.Distributed++
		p.logger.Info("creator fee distributed",
			"distribution_id", fd.ID,
			"token_id", fd.TokenID,
			"creator_wallet", fd.CreatorWallet,
			"amount", fd.Amount)
	}

	if res.Scanned > 0 {
		p.logger.Info("distribution pass complete",
			"scanned", res.Scanned,
			"distributed", res.Distributed,
			"failed", res.Failed)
	}
	return res, nil
}

// Run processes on a fixed interval until the context is cancelled.
func (p *Processor) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := p.ProcessOnce(ctx); err != nil {
			p.logger.Error("distribution pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
