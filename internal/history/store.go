package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Exchange is one recorded query/response pair.
type Exchange struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	Query     string    `json:"query"`
	Response  string    `json:"response"`
	Intent    string    `json:"intent"`
	FactIDs   []string  `json:"fact_ids"`
	Fallback  bool      `json:"fallback"`
	CreatedAt time.Time `json:"created_at"`
}

// Store manages persistence of sessions and their exchanges.
type Store struct {
	db *DB
}

// NewStore creates a history store on the given database.
func NewStore(db *DB) *Store {
	return &Store{db: db}
}

// EnsureSession records the session if it is new, binding it to the
// knowledge version active at creation.
func (s *Store) EnsureSession(ctx context.Context, sessionID, knowledgeVersion string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, knowledge_version) VALUES (?, ?)
		 ON CONFLICT(id) DO UPDATE SET updated_at = datetime('now')`,
		sessionID, knowledgeVersion,
	)
	if err != nil {
		return fmt.Errorf("ensuring session: %w", err)
	}
	return nil
}

// SaveExchange appends one exchange to a session's history.
func (s *Store) SaveExchange(ctx context.Context, e Exchange) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	factIDs, err := json.Marshal(e.FactIDs)
	if err != nil {
		return fmt.Errorf("marshalling fact ids: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO exchanges (id, session_id, query, response, intent, fact_ids, fallback)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.Query, e.Response, e.Intent, string(factIDs), boolToInt(e.Fallback),
	)
	if err != nil {
		return fmt.Errorf("inserting exchange: %w", err)
	}
	return nil
}

// History returns a session's exchanges in chronological order.
func (s *Store) History(ctx context.Context, sessionID string) ([]Exchange, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, query, response, intent, fact_ids, fallback, created_at
		 FROM exchanges WHERE session_id = ? ORDER BY created_at, rowid`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var e Exchange
		var factIDs string
		var fallback int
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Query, &e.Response, &e.Intent, &factIDs, &fallback, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning exchange: %w", err)
		}
		if err := json.Unmarshal([]byte(factIDs), &e.FactIDs); err != nil {
			return nil, fmt.Errorf("unmarshalling fact ids: %w", err)
		}
		e.Fallback = fallback != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// SessionVersion returns the knowledge version a session was bound to.
func (s *Store) SessionVersion(ctx context.Context, sessionID string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx,
		`SELECT knowledge_version FROM sessions WHERE id = ?`, sessionID,
	).Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("getting session version: %w", err)
	}
	return v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
