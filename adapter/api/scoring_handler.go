package api

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/priora/internal/engine/sdk"
	"github.com/felixgeelhaar/priora/internal/engine/types"
)

// maxBody caps request bodies.
const maxBody = 4 << 20

// ScoringHandler exposes a scoring engine through the scoring HTTP contract.
type ScoringHandler struct {
	engine types.ScoringEngine
	logger *slog.Logger
}

// NewScoringHandler creates a handler serving engine.
func NewScoringHandler(engine types.ScoringEngine, logger *slog.Logger) *ScoringHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ScoringHandler{engine: engine, logger: logger}
}

// Analyze handles POST /api/tasks/analyze/?strategy=
func (h *ScoringHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if s := r.URL.Query().Get("strategy"); s != "" {
		req.Strategy = s
	}

	resp, err := h.engine.Analyze(r.Context(), req)
	if err != nil {
		h.fail(w, "analyze", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Suggest handles POST /api/tasks/suggest/?strategy=
func (h *ScoringHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if !h.decode(w, r, &req) {
		return
	}
	if s := r.URL.Query().Get("strategy"); s != "" {
		req.Strategy = s
	}

	resp, err := h.engine.Suggest(r.Context(), req)
	if err != nil {
		h.fail(w, "suggest", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Export handles POST /api/tasks/export/?format=
func (h *ScoringHandler) Export(w http.ResponseWriter, r *http.Request) {
	var req types.ExportRequest
	if !h.decode(w, r, &req) {
		return
	}
	if f := r.URL.Query().Get("format"); f != "" {
		req.Format = f
	}

	doc, err := h.engine.Export(r.Context(), req)
	if err != nil {
		h.fail(w, "export", err)
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Data); err != nil {
		h.logger.Warn("failed to write export", "error", err)
	}
}

// Feedback handles POST /api/tasks/feedback/
func (h *ScoringHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req types.FeedbackRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.engine.Feedback(r.Context(), req)
	if err != nil {
		h.fail(w, "feedback", err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *ScoringHandler) decode(w http.ResponseWriter, r *http.Request, out any) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, ErrBadRequest, err.Error())
		return false
	}
	if err := json.Unmarshal(body, out); err != nil {
		writeError(w, ErrBadRequest, "request body must be JSON")
		return false
	}
	return true
}

// fail maps engine errors to statuses: rejected input is 400, an open breaker 503.
func (h *ScoringHandler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, sdk.ErrInvalidRequest), errors.Is(err, sdk.ErrUnsupportedFormat):
		writeError(w, ErrBadRequest, err.Error())
	case errors.Is(err, sdk.ErrCircuitOpen), errors.Is(err, sdk.ErrTimeout):
		writeError(w, ErrUnavailable, err.Error())
	default:
		h.logger.Error("scoring request failed", "operation", op, "error", err)
		writeError(w, ErrInternalServer, "")
	}
}
