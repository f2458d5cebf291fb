package history

import (
	"context"
	"testing"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	db, err := OpenMemory()
	if err != nil {
		t.Fatalf("OpenMemory: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewStore(db)
}

func TestEnsureSessionKeepsOriginalVersion(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.EnsureSession(ctx, "s1", "v1"); err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}
	// Re-ensuring with a different version must not rebind the session.
	if err := store.EnsureSession(ctx, "s1", "v2"); err != nil {
		t.Fatalf("EnsureSession again: %v", err)
	}

	v, err := store.SessionVersion(ctx, "s1")
	if err != nil {
		t.Fatalf("SessionVersion: %v", err)
	}
	if v != "v1" {
		t.Errorf("version = %q, want the original v1", v)
	}
}

func TestSessionVersionUnknown(t *testing.T) {
	store := setupStore(t)

	v, err := store.SessionVersion(context.Background(), "nope")
	if err != nil {
		t.Fatalf("SessionVersion: %v", err)
	}
	if v != "" {
		t.Errorf("version = %q, want empty for an unknown session", v)
	}
}

func TestSaveAndListExchanges(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	if err := store.EnsureSession(ctx, "s1", "v1"); err != nil {
		t.Fatalf("EnsureSession: %v", err)
	}

	exchanges := []Exchange{
		{SessionID: "s1", Query: "first", Response: "answer one", Intent: "slang", FactIDs: []string{"a", "b"}},
		{SessionID: "s1", Query: "second", Response: "answer two", Intent: "general", Fallback: true},
	}
	for _, e := range exchanges {
		if err := store.SaveExchange(ctx, e); err != nil {
			t.Fatalf("SaveExchange: %v", err)
		}
	}

	got, err := store.History(ctx, "s1")
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d exchanges, want 2", len(got))
	}
	if got[0].Query != "first" || got[1].Query != "second" {
		t.Errorf("exchanges out of order: %q, %q", got[0].Query, got[1].Query)
	}
	if got[0].ID == "" {
		t.Error("exchange ID not generated")
	}
	if len(got[0].FactIDs) != 2 {
		t.Errorf("FactIDs = %v, want 2 entries", got[0].FactIDs)
	}
	if !got[1].Fallback {
		t.Error("fallback flag lost in round trip")
	}

	other, err := store.History(ctx, "s2")
	if err != nil {
		t.Fatalf("History(s2): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("unrelated session has %d exchanges", len(other))
	}
}
