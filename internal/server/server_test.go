package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SRINIVASINDIA/Local-guide/internal/engine"
)

const testGuide = `# Guide

## Local Slang

- "Macha" - friend, buddy

## Traffic and Peak Hours

- Silk Board Junction: nightmare traffic from 6 PM - 9 PM
`

func setupServer(t *testing.T) *Server {
	t.Helper()
	eng, err := engine.New(engine.Options{
		Loader: func() (string, error) { return testGuide, nil },
	})
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	return New(Config{Port: 0}, eng)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	s := setupServer(t)
	rec := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d", rec.Code)
	}
}

func TestAskEndpoint(t *testing.T) {
	s := setupServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/ask", map[string]string{"query": `what does "macha" mean`})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var result engine.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if result.Fallback {
		t.Errorf("known slang fell back: %q", result.Text)
	}
	if result.SessionID == "" {
		t.Error("no session ID in response")
	}
}

func TestAskRejectsInvalidQuery(t *testing.T) {
	s := setupServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/ask", map[string]string{"query": "x"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, s, http.MethodPost, "/api/ask", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty body status = %d, want 400", rec.Code)
	}
}

func TestSessionHistoryEndpoint(t *testing.T) {
	s := setupServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/ask", map[string]string{"query": `what does "macha" mean`})
	var result engine.Result
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("decoding ask response: %v", err)
	}

	rec = doJSON(t, s, http.MethodGet, "/api/sessions/"+result.SessionID+"/history", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var payload struct {
		SessionID string         `json:"session_id"`
		History   []historyEntry `json:"history"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decoding history: %v", err)
	}
	if len(payload.History) != 1 {
		t.Errorf("history has %d entries, want 1", len(payload.History))
	}

	rec = doJSON(t, s, http.MethodGet, "/api/sessions/nope/history", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown session status = %d, want 404", rec.Code)
	}
}

func TestReloadAndStatsEndpoints(t *testing.T) {
	s := setupServer(t)

	rec := doJSON(t, s, http.MethodPost, "/api/reload", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reload status = %d", rec.Code)
	}

	doJSON(t, s, http.MethodPost, "/api/ask", map[string]string{"query": "hello there"})

	rec = doJSON(t, s, http.MethodGet, "/api/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("stats status = %d", rec.Code)
	}
	var stats engine.Stats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decoding stats: %v", err)
	}
	if stats.Processed != 1 {
		t.Errorf("Processed = %d, want 1", stats.Processed)
	}
	if stats.KnowledgeVersion == "" {
		t.Error("no knowledge version in stats")
	}
}
