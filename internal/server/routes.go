package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/SRINIVASINDIA/Local-guide/internal/query"
)

type askRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Query     string `json:"query"`
}

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Post("/ask", s.handleAsk)
		r.Post("/reload", s.handleReload)
		r.Get("/stats", s.handleStats)
		r.Get("/chat", s.handleChat)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/history", s.handleHistory)
			r.Post("/refresh", s.handleRefresh)
			r.Delete("/", s.handleEndSession)
		})
	})
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	result, err := s.engine.Ask(r.Context(), req.SessionID, req.Query)
	if err != nil {
		if errors.Is(err, query.ErrInvalidQuery) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Reload(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":            "reloaded",
		"knowledge_version": s.engine.KnowledgeVersion(),
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.engine.Stats())
}

type historyEntry struct {
	Query    string `json:"query"`
	Response string `json:"response"`
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, ok := s.engine.LookupSession(id)
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown session"})
		return
	}

	entries := sess.History()
	out := make([]historyEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyEntry{Query: e.Query.Text, Response: e.Response.Text})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"session_id":        sess.ID,
		"knowledge_version": sess.KnowledgeVersion(),
		"history":           out,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := s.engine.LookupSession(id); !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown session"})
		return
	}
	s.engine.RefreshSession(id)
	writeJSON(w, http.StatusOK, map[string]string{
		"status":            "refreshed",
		"knowledge_version": s.engine.KnowledgeVersion(),
	})
}

func (s *Server) handleEndSession(w http.ResponseWriter, r *http.Request) {
	s.engine.EndSession(chi.URLParam(r, "id"))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ended"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
