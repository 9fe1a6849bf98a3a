package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/cargofree/cargo-free/internal/core/engine"
	apperrors "github.com/cargofree/cargo-free/internal/errors"
	"github.com/cargofree/cargo-free/internal/metrics"
	"github.com/cargofree/cargo-free/internal/output"
)

const (
	// DefaultMaxNames caps a single POST /v1/check request.
	DefaultMaxNames = 100

	maxBodyBytes = 1 << 20
)

// CheckRequest is the body of POST /v1/check.
type CheckRequest struct {
	Names      []string `json:"names"`
	Timeout    string   `json:"timeout,omitempty"`
	ShowErrors bool     `json:"show_errors,omitempty"`
}

// LookupHandler serves crate lookups over HTTP using the same resolver and
// runner as the CLI.
type LookupHandler struct {
	Resolver    engine.Resolver
	Timeout     time.Duration
	Concurrency int
	MaxNames    int

	// BatchTimeout bounds a whole POST /v1/check request. Names still
	// pending when it expires are reported as timed out.
	BatchTimeout time.Duration
}

// Crate handles GET /v1/crates/{name}.
func (h *LookupHandler) Crate(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			name = unescaped
		}
	}

	timeout, err := h.timeout(r.URL.Query().Get("timeout"))
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid timeout"))
		return
	}

	result := h.Resolver.Lookup(r.Context(), name, timeout)
	result.Name = name
	metrics.RecordLookup(result)

	if !result.OK() {
		respondWithError(w, r, apperrors.FromLookupError(r.Context(), result.Err))
		return
	}

	writeJSON(w, http.StatusOK, output.Record{
		Name:         name,
		Availability: result.Availability.String(),
	})
}

// Check handles POST /v1/check. The response array has the same shape as
// the CLI's structured output.
func (h *LookupHandler) Check(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "request body must be a JSON object"))
		return
	}

	if len(req.Names) == 0 {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), engine.ErrNoNames, "names must not be empty"))
		return
	}
	if limit := h.maxNames(); len(req.Names) > limit {
		respondWithError(w, r, apperrors.NewInvalidInputError(fmt.Sprintf("at most %d names per request", limit)))
		return
	}

	timeout, err := h.timeout(req.Timeout)
	if err != nil {
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "invalid timeout"))
		return
	}

	runner := &engine.Runner{
		Resolver:    h.Resolver,
		Timeout:     timeout,
		Concurrency: h.Concurrency,
		OnResult:    metrics.RecordLookup,
	}

	ctx := r.Context()
	if h.BatchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.BatchTimeout)
		defer cancel()
	}

	started := time.Now()
	batch, err := runner.ResolveAll(ctx, req.Names)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	metrics.RecordBatch(batch.Len(), time.Since(started))

	writeJSON(w, http.StatusOK, output.Records(batch, req.ShowErrors))
}

// timeout parses a caller-supplied duration, falling back to the handler default.
func (h *LookupHandler) timeout(raw string) (time.Duration, error) {
	if raw == "" {
		return h.Timeout, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("timeout must be positive")
	}
	return d, nil
}

func (h *LookupHandler) maxNames() int {
	if h.MaxNames > 0 {
		return h.MaxNames
	}
	return DefaultMaxNames
}
