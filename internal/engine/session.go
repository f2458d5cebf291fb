package engine

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/SRINIVASINDIA/Local-guide/internal/compose"
	"github.com/SRINIVASINDIA/Local-guide/internal/query"
)

// HistoryEntry is one query/response pair in a session's history.
type HistoryEntry struct {
	Query    query.Query      `json:"query"`
	Response compose.Response `json:"response"`
}

// Session carries a conversation's state: its bound knowledge snapshot
// and its history. A session is owned by one caller; the engine only
// synchronizes creation and lookup.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu      sync.Mutex
	snap    *snapshot
	history []HistoryEntry
}

func newSession(id string, snap *snapshot) *Session {
	if id == "" {
		id = uuid.New().String()
	}
	return &Session{
		ID:        id,
		CreatedAt: time.Now().UTC(),
		snap:      snap,
	}
}

// Snapshot returns the knowledge snapshot the session is bound to. The
// binding holds until Refresh, so a store reload never swaps knowledge
// out from under an ongoing conversation.
func (s *Session) Snapshot() *snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// Refresh rebinds the session to the given (current) snapshot.
func (s *Session) Refresh(snap *snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snap = snap
}

// KnowledgeVersion returns the version of the bound document.
func (s *Session) KnowledgeVersion() string {
	return s.Snapshot().store.Version()
}

// History returns a copy of the session's exchanges so far.
func (s *Session) History() []HistoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryEntry, len(s.history))
	copy(out, s.history)
	return out
}

func (s *Session) record(entry HistoryEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, entry)
}
