package worker

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/thebtf/stagewhisper/pkg/models"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("Failed to write JSON response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// handleStartSession creates a session from the caller-supplied context and
// returns its ID. The WebSocket client binds to it with an init message.
func (s *Service) handleStartSession(w http.ResponseWriter, r *http.Request) {
	var sctx models.SessionContext
	if err := json.NewDecoder(r.Body).Decode(&sctx); err != nil {
		writeError(w, http.StatusBadRequest, "invalid session context")
		return
	}

	orch := s.manager.Start(sctx)
	writeJSON(w, http.StatusOK, map[string]string{
		"session_id": orch.ID(),
		"status":     "ready",
	})
}

// handleEndSession tears a session down and returns its debrief, archiving it
// best-effort so the debrief page can reload it later.
func (s *Service) handleEndSession(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id required")
		return
	}

	debrief, ok := s.manager.End(body.SessionID)
	if !ok {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	if s.debriefs != nil {
		if err := s.debriefs.Save(r.Context(), debrief); err != nil {
			log.Warn().Err(err).Str("session", body.SessionID).Msg("Failed to archive debrief")
		}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"debrief": debrief,
		"status":  "complete",
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"version":         s.version,
		"active_sessions": s.manager.Count(),
		"sse_clients":     s.broadcaster.ClientCount(),
		"uptime_seconds":  int(time.Since(s.startTime).Seconds()),
	})
}

func (s *Service) handleListDebriefs(w http.ResponseWriter, r *http.Request) {
	if s.debriefs == nil {
		writeJSON(w, http.StatusOK, []models.Debrief{})
		return
	}
	list, err := s.debriefs.RecentSessions(r.Context(), 20)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "debrief archive unavailable")
		return
	}
	if list == nil {
		list = []models.Debrief{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Service) handleGetDebrief(w http.ResponseWriter, r *http.Request) {
	if s.debriefs == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	debrief, err := s.debriefs.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "debrief archive unavailable")
		return
	}
	if debrief == nil {
		writeError(w, http.StatusNotFound, "not found")
		return
	}
	writeJSON(w, http.StatusOK, debrief)
}
