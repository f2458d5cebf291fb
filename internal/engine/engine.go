// Package engine wires the pipeline: validate, extract, classify,
// retrieve, compose, check grounding. One engine serves all sessions;
// the knowledge store is a process-wide immutable snapshot swapped
// atomically on reload.
package engine

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SRINIVASINDIA/Local-guide/internal/compose"
	"github.com/SRINIVASINDIA/Local-guide/internal/embeddings"
	"github.com/SRINIVASINDIA/Local-guide/internal/history"
	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
	"github.com/SRINIVASINDIA/Local-guide/internal/llm"
	"github.com/SRINIVASINDIA/Local-guide/internal/query"
	"github.com/SRINIVASINDIA/Local-guide/internal/retrieval"
)

// snapshot pairs a store with its optional semantic index; both are
// replaced together on reload.
type snapshot struct {
	store    *knowledge.Store
	semantic *retrieval.SemanticIndex
}

// Options configures an Engine. Only Loader is required.
type Options struct {
	// Loader reads the latest knowledge document text. Called once at
	// startup and again on every Reload.
	Loader func() (string, error)

	// Rules are the enabled behavior rules, in order. Nil means all.
	Rules []compose.Rule

	// Keywords overrides the section-heading keyword table.
	Keywords *knowledge.HeadingKeywords

	// Persona is the voice preamble handed to the generator.
	Persona string

	// Generator optionally rewrites template responses in the persona
	// voice. Its output is grounding-checked and dropped on timeout.
	Generator       llm.Provider
	GeneratorModel  string
	GenerateTimeout time.Duration

	// Embedder enables the semantic fallback index for general queries.
	Embedder embeddings.Embedder

	// History persists exchanges when set.
	History *history.Store
}

// Stats is a point-in-time snapshot of engine counters.
type Stats struct {
	Processed        int64  `json:"processed"`
	Fallbacks        int64  `json:"fallbacks"`
	Sessions         int    `json:"sessions"`
	KnowledgeVersion string `json:"knowledge_version"`
	FactCount        int    `json:"fact_count"`
}

// SlangPair is one explained term in a result.
type SlangPair struct {
	Term    string `json:"term"`
	Meaning string `json:"meaning"`
}

// Result is the pipeline output for one query.
type Result struct {
	SessionID        string           `json:"session_id"`
	Intent           knowledge.Intent `json:"intent"`
	Text             string           `json:"text"`
	FactsUsed        []string         `json:"facts_used"`
	SlangExplained   []SlangPair      `json:"slang_explained"`
	Fallback         bool             `json:"fallback"`
	KnowledgeVersion string           `json:"knowledge_version"`
	Elapsed          time.Duration    `json:"elapsed"`
}

// Engine runs the query pipeline against the active knowledge snapshot.
type Engine struct {
	opts Options

	current atomic.Pointer[snapshot]

	mu       sync.Mutex
	sessions map[string]*Session

	processed atomic.Int64
	fallbacks atomic.Int64
}

// New loads the document through opts.Loader and builds the engine.
func New(opts Options) (*Engine, error) {
	if opts.Loader == nil {
		return nil, fmt.Errorf("engine: Loader is required")
	}
	if opts.Rules == nil {
		opts.Rules = compose.DefaultRules()
	}
	if opts.GenerateTimeout == 0 {
		opts.GenerateTimeout = 10 * time.Second
	}

	e := &Engine{
		opts:     opts,
		sessions: make(map[string]*Session),
	}
	if err := e.Reload(); err != nil {
		return nil, err
	}
	return e, nil
}

// Reload re-reads the document and atomically swaps in a new snapshot.
// On failure the previous snapshot (if any) stays active and keeps
// serving queries.
func (e *Engine) Reload() error {
	text, err := e.opts.Loader()
	if err != nil {
		return fmt.Errorf("loading knowledge document: %w", err)
	}

	var store *knowledge.Store
	if e.opts.Keywords != nil {
		store, err = knowledge.BuildWithKeywords(text, *e.opts.Keywords)
	} else {
		store, err = knowledge.Build(text)
	}
	if err != nil {
		return err
	}

	snap := &snapshot{store: store}
	if e.opts.Embedder != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		idx, err := retrieval.BuildSemanticIndex(ctx, store, e.opts.Embedder)
		cancel()
		if err != nil {
			// The semantic index is an enhancement; the deterministic
			// pipeline works without it.
			log.Printf("engine: semantic index unavailable: %v", err)
		} else {
			snap.semantic = idx
		}
	}

	e.current.Store(snap)
	return nil
}

// KnowledgeVersion returns the active document version.
func (e *Engine) KnowledgeVersion() string {
	return e.current.Load().store.Version()
}

// Session returns the session with the given ID, creating and binding
// it to the active snapshot if it is new. An empty ID creates a fresh
// session with a generated ID.
func (e *Engine) Session(id string) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if id != "" {
		if s, ok := e.sessions[id]; ok {
			return s
		}
	}
	s := newSession(id, e.current.Load())
	e.sessions[s.ID] = s
	return s
}

// LookupSlang resolves a slang term against the active knowledge
// snapshot, bypassing the session machinery.
func (e *Engine) LookupSlang(term string) (knowledge.Fact, bool) {
	return e.current.Load().store.DefinitionFor(term)
}

// LookupSession returns an existing session without creating one.
func (e *Engine) LookupSession(id string) (*Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	s, ok := e.sessions[id]
	return s, ok
}

// RefreshSession rebinds a session to the active snapshot. Sessions
// never pick up a reload implicitly.
func (e *Engine) RefreshSession(id string) {
	e.mu.Lock()
	s, ok := e.sessions[id]
	e.mu.Unlock()
	if ok {
		s.Refresh(e.current.Load())
	}
}

// EndSession discards a session and its in-memory history.
func (e *Engine) EndSession(id string) {
	e.mu.Lock()
	delete(e.sessions, id)
	e.mu.Unlock()
}

// Ask runs one query through the pipeline. It returns an error only for
// invalid input; every downstream problem degrades to the grounded
// fallback response instead of surfacing.
func (e *Engine) Ask(ctx context.Context, sessionID, text string) (*Result, error) {
	start := time.Now()

	cleaned, err := query.Validate(text)
	if err != nil {
		return nil, err
	}

	sess := e.Session(sessionID)
	snap := sess.Snapshot()
	ks := snap.store

	q := query.Query{Text: cleaned, SessionID: sess.ID, Timestamp: start.UTC()}
	entities := query.Extract(cleaned, ks)
	cls := query.Classify(cleaned, entities, ks)
	retrieved := retrieval.Retrieve(ks, cleaned, cls)

	// Semantic fallback: only for general queries that matched nothing,
	// and only IDs that resolve in the bound store count.
	if len(retrieved.Facts) == 0 && retrieved.Intent == knowledge.IntentGeneral && snap.semantic != nil {
		if ids, serr := snap.semantic.Search(ctx, cleaned, 0); serr == nil {
			for _, id := range ids {
				if f, ok := ks.FactByID(id); ok {
					retrieved.Facts = append(retrieved.Facts, f)
				}
			}
		}
	}

	resp := compose.Compose(retrieved, e.opts.Rules)
	if verr := compose.Validate(resp); verr != nil {
		log.Printf("engine: %v", verr)
		resp = compose.Fallback(retrieved.Intent)
	}

	if e.opts.Generator != nil && !resp.Fallback {
		if polished, ok := e.polish(ctx, cleaned, resp); ok {
			resp.Text = polished
		}
	}

	sess.record(HistoryEntry{Query: q, Response: resp})
	e.persist(ctx, sess, q, resp)

	e.processed.Add(1)
	if resp.Fallback {
		e.fallbacks.Add(1)
	}

	result := &Result{
		SessionID:        sess.ID,
		Intent:           resp.Intent,
		Text:             resp.Text,
		Fallback:         resp.Fallback,
		KnowledgeVersion: ks.Version(),
		Elapsed:          time.Since(start),
	}
	for _, f := range resp.FactsUsed {
		result.FactsUsed = append(result.FactsUsed, f.ID)
	}
	for _, f := range resp.SlangExplained {
		result.SlangExplained = append(result.SlangExplained, SlangPair{Term: f.Term, Meaning: f.Meaning})
	}
	return result, nil
}

// polish asks the generator to rewrite the template response in the
// persona voice, constrained to the retrieved facts. Any timeout,
// error, or grounding violation keeps the template text.
func (e *Engine) polish(ctx context.Context, queryText string, resp compose.Response) (string, bool) {
	ctx, cancel := context.WithTimeout(ctx, e.opts.GenerateTimeout)
	defer cancel()

	var facts strings.Builder
	for _, f := range resp.FactsUsed {
		facts.WriteString("- ")
		facts.WriteString(strings.Join(f.Fields(), " | "))
		facts.WriteByte('\n')
	}

	system := e.opts.Persona
	if system == "" {
		system = "You are a friendly local guide."
	}
	system += "\nRewrite the draft answer in your own voice." +
		" Use ONLY the facts listed below. Do not add places, times, or claims that are not in the facts.\n\nFacts:\n" + facts.String()

	completion, err := e.opts.Generator.Complete(ctx, llm.CompletionRequest{
		Model: e.opts.GeneratorModel,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: "Question: " + queryText + "\nDraft answer: " + resp.Text},
		},
		Temperature: 0.4,
	})
	if err != nil {
		log.Printf("engine: generation skipped: %v", err)
		return "", false
	}

	polished := strings.TrimSpace(completion.Content)
	if polished == "" {
		return "", false
	}
	if verr := compose.ValidateFreeform(polished, resp.FactsUsed, queryText); verr != nil {
		log.Printf("engine: generated text rejected: %v", verr)
		return "", false
	}
	return polished, true
}

// persist writes the exchange to the history store, best-effort.
func (e *Engine) persist(ctx context.Context, sess *Session, q query.Query, resp compose.Response) {
	if e.opts.History == nil {
		return
	}
	if err := e.opts.History.EnsureSession(ctx, sess.ID, sess.KnowledgeVersion()); err != nil {
		log.Printf("engine: history: %v", err)
		return
	}
	var factIDs []string
	for _, f := range resp.FactsUsed {
		factIDs = append(factIDs, f.ID)
	}
	err := e.opts.History.SaveExchange(ctx, history.Exchange{
		SessionID: sess.ID,
		Query:     q.Text,
		Response:  resp.Text,
		Intent:    string(resp.Intent),
		FactIDs:   factIDs,
		Fallback:  resp.Fallback,
	})
	if err != nil {
		log.Printf("engine: history: %v", err)
	}
}

// Stats returns current engine counters.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	sessionCount := len(e.sessions)
	e.mu.Unlock()

	store := e.current.Load().store
	return Stats{
		Processed:        e.processed.Load(),
		Fallbacks:        e.fallbacks.Load(),
		Sessions:         sessionCount,
		KnowledgeVersion: store.Version(),
		FactCount:        len(store.Facts()),
	}
}
