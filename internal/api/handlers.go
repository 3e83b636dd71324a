// SPDX-License-Identifier: MIT

package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/phasekit/lifecount/internal/counter"
	"github.com/phasekit/lifecount/internal/log"
	"github.com/phasekit/lifecount/internal/phase"
)

// countsResponse is the JSON body for snapshot-returning endpoints.
type countsResponse struct {
	Counts counter.State `json:"counts"`
}

// handleRecordPhase accepts one phase-entry notification from the
// external lifecycle owner and returns the updated snapshot.
func (s *Server) handleRecordPhase(w http.ResponseWriter, r *http.Request) {
	label := chi.URLParam(r, "phase")

	p, err := phase.Parse(label)
	if err != nil {
		if errors.Is(err, phase.ErrUnknownPhase) {
			writeJSON(w, http.StatusNotFound, map[string]string{
				"error": "unknown phase: " + label,
			})
			return
		}
		writeError(w, err)
		return
	}

	snap := s.tracker.Record(r.Context(), p)
	writeJSON(w, http.StatusOK, countsResponse{Counts: snap})
}

// handleGetCounts returns the current snapshot as JSON.
func (s *Server) handleGetCounts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, countsResponse{Counts: s.tracker.Snapshot()})
}

// handleGetCountsText returns the fixed-order textual rendering.
func (s *Server) handleGetCountsText(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(s.tracker.Render() + "\n"))
}

// handleReset zeroes all counts.
func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	logger := log.FromContext(r.Context(), "api")
	logger.Info().
		Str(log.FieldEvent, "counts.reset_requested").
		Msg("reset requested")
	snap := s.tracker.Reset(r.Context())
	writeJSON(w, http.StatusOK, countsResponse{Counts: snap})
}

// handleGetJournal returns recent phase entries, newest first.
func (s *Server) handleGetJournal(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "journal disabled"})
		return
	}

	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 1000 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be in 1..1000"})
			return
		}
		limit = parsed
	}

	entries, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		logger := log.FromContext(r.Context(), "api")
		logger.Error().Err(err).
			Str(log.FieldEvent, "journal.query_failed").
			Msg("journal query failed")
		writeServiceUnavailable(w, errors.New("journal unavailable"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
}
