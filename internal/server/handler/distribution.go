package handler

import (
	"context"
	"log/slog"
	"net/http"

	"wybe-engine/internal/distribution"
)

// DistributionProcessor runs a single claim processing pass.
type DistributionProcessor interface {
	ProcessOnce(ctx context.Context) (*distribution.Result, error)
}

// DistributionHandler serves the manual claim processing endpoint.
type DistributionHandler struct {
	processor DistributionProcessor
	logger    *slog.Logger
}

// NewDistributionHandler creates a DistributionHandler.
func NewDistributionHandler(processor DistributionProcessor, logger *slog.Logger) *DistributionHandler {
	return &DistributionHandler{processor: processor, logger: logger}
}

// ProcessDistributions runs one claim processing pass and reports the
// counts.
// POST /api/distributions/process
func (h *DistributionHandler) ProcessDistributions(w http.ResponseWriter, r *http.Request) {
	res, err := h.processor.ProcessOnce(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "handler: distribution pass failed",
			slog.String("error", err.Error()),
		)
		writeError(w, http.StatusInternalServerError, "distribution pass failed")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
