// Package handler implements the HTTP API for the pricing engine.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"wybe-engine/internal/domain"
	"wybe-engine/internal/launch"
	"wybe-engine/internal/storage"
)

// writeJSON marshals v as JSON and writes it to the response with the
// given HTTP status code. If marshaling fails, it falls back to a
// plain-text 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, `{"error":"internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	w.Write(data)
}

// writeError sends a JSON-formatted error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeDomainError maps engine errors to HTTP statuses and writes the
// response.
func writeDomainError(w http.ResponseWriter, err error) {
	writeError(w, statusForError(err), err.Error())
}

// statusForError maps the engine error taxonomy onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTokenNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidWallet),
		errors.Is(err, domain.ErrInvalidCurveType),
		errors.Is(err, domain.ErrInvalidTradeType),
		errors.Is(err, domain.ErrTokenNotLaunched),
		errors.Is(err, launch.ErrInvalidToken):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTokenLocked), errors.Is(err, storage.ErrDuplicateKey):
		return http.StatusConflict
	case errors.Is(err, domain.ErrPriceCalculation):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// pathParam extracts a named path parameter from the request using Go
// 1.22+ built-in routing (http.Request.PathValue).
func pathParam(r *http.Request, name string) string {
	return r.PathValue(name)
}

// queryInt64 parses an int64 query parameter, returning def when absent
// or malformed.
func queryInt64(r *http.Request, name string, def int64) int64 {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

// queryFloat parses a float64 query parameter, returning 0 when absent
// or malformed.
func queryFloat(r *http.Request, name string) float64 {
	if v := r.URL.Query().Get(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return 0
}
