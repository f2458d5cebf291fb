package query

import "time"

// EntityKind tags the kind of an extracted entity.
type EntityKind string

const (
	EntityTime  EntityKind = "time"
	EntityPlace EntityKind = "place"
	EntitySlang EntityKind = "slang"
)

// Entity is a value pulled out of the raw query text. Span records the
// substring location for extraction audit only; it is never persisted.
type Entity struct {
	Kind  EntityKind `json:"kind"`
	Value string     `json:"value"`
	Span  [2]int     `json:"span"`
}

// Query is one received question. Immutable once received.
type Query struct {
	Text      string    `json:"text"`
	SessionID string    `json:"session_id"`
	Timestamp time.Time `json:"timestamp"`
}
