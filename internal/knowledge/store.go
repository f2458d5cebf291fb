package knowledge

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"
)

// defaultSpans is the fallback hour bucketing, used only for windows the
// document does not state its own span for.
var defaultSpans = map[Window]TimeRange{
	WindowEarlyMorning: {Start: 5, End: 7},
	WindowMorning:      {Start: 7, End: 11},
	WindowMidday:       {Start: 11, End: 16},
	WindowEvening:      {Start: 16, End: 21},
	WindowNight:        {Start: 21, End: 5},
}

// cultureCues marks advice sections that serve the culture intent.
var cultureCues = []string{"culture", "cultural", "etiquette", "custom", "tip", "norm"}

// Store is the immutable fact index built from one knowledge document.
// It is safe for unsynchronized concurrent reads; updates replace the
// whole store, never mutate it.
type Store struct {
	doc      Document
	sections []Section
	facts    []Fact
	byKind   map[FactKind][]Fact
	byID     map[string]Fact
	defs     map[string]Fact
	spans    map[Window]TimeRange
	peaks    []TimeRange
}

// Build parses the document text into a Store using the default heading
// keyword table.
func Build(text string) (*Store, error) {
	return BuildWithKeywords(text, DefaultHeadingKeywords())
}

// BuildWithKeywords parses the document text into a Store. It fails with
// ErrMalformedKnowledge only when the document has zero parseable
// sections; individual unparseable lines degrade to advice facts.
func BuildWithKeywords(text string, kw HeadingKeywords) (*Store, error) {
	sections := splitSections(text)
	if len(sections) == 0 {
		return nil, ErrMalformedKnowledge
	}

	s := &Store{
		doc: Document{
			Text:     text,
			Version:  documentVersion(text),
			LoadedAt: time.Now().UTC(),
		},
		sections: sections,
		byKind:   make(map[FactKind][]Fact),
		byID:     make(map[string]Fact),
		defs:     make(map[string]Fact),
		spans:    make(map[Window]TimeRange),
	}

	for _, sec := range sections {
		kind := sectionKind(sec.Name, kw)
		facts, spans := parseSection(sec, kind)
		for w, r := range spans {
			s.spans[w] = r
		}
		for _, f := range facts {
			s.facts = append(s.facts, f)
			s.byKind[f.Kind] = append(s.byKind[f.Kind], f)
			s.byID[f.ID] = f
			if f.Kind == KindDefinition {
				s.defs[normalizeTerm(f.Term)] = f
			}
			if f.HasWindow && (f.Kind == KindCongestion || f.Topic == "metro") {
				s.peaks = append(s.peaks, f.Window)
			}
		}
	}
	return s, nil
}

// documentVersion derives the version marker from the raw text.
func documentVersion(text string) string {
	sum := sha256.Sum256([]byte(text))
	return fmt.Sprintf("%x", sum[:8])
}

// Version returns the document version marker.
func (s *Store) Version() string { return s.doc.Version }

// Document returns the loaded document metadata.
func (s *Store) Document() Document { return s.doc }

// Sections returns the parsed sections in document order.
func (s *Store) Sections() []Section { return s.sections }

// Facts returns every fact in document order.
func (s *Store) Facts() []Fact { return s.facts }

// FactByID looks a fact up by identifier.
func (s *Store) FactByID(id string) (Fact, bool) {
	f, ok := s.byID[id]
	return f, ok
}

// FactsByIntent returns the facts serving the given intent. Provenance
// is respected: only facts from sections related to the intent qualify.
func (s *Store) FactsByIntent(intent Intent) []Fact {
	switch intent {
	case IntentSlang:
		return s.byKind[KindDefinition]
	case IntentTraffic:
		return s.byKind[KindCongestion]
	case IntentFood:
		return s.byKind[KindPlace]
	case IntentCulture:
		var out []Fact
		for _, f := range s.byKind[KindAdvice] {
			if matchesAny(strings.ToLower(f.Section), cultureCues) {
				out = append(out, f)
			}
		}
		return out
	case IntentGeneral:
		return s.byKind[KindAdvice]
	default:
		return nil
	}
}

// FactsByWindow returns facts whose stated window overlaps the span of w.
func (s *Store) FactsByWindow(w Window) []Fact {
	span, ok := s.SpanFor(w)
	if !ok {
		return nil
	}
	var out []Fact
	for _, f := range s.facts {
		if f.HasWindow && f.Window.Overlaps(span) {
			out = append(out, f)
		}
	}
	return out
}

var termPunct = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

func normalizeTerm(term string) string {
	t := termPunct.ReplaceAllString(strings.ToLower(term), "")
	return strings.Join(strings.Fields(t), " ")
}

// DefinitionFor resolves a slang term case-insensitively with
// punctuation normalization.
func (s *Store) DefinitionFor(term string) (Fact, bool) {
	f, ok := s.defs[normalizeTerm(term)]
	return f, ok
}

// SlangTerms returns every known slang term, sorted.
func (s *Store) SlangTerms() []string {
	var out []string
	for _, f := range s.byKind[KindDefinition] {
		out = append(out, f.Term)
	}
	sort.Strings(out)
	return out
}

// PlaceNames returns every place and area name the document mentions,
// sorted. The entity extractor matches queries against this set so that
// extraction stays consistent with the active document.
func (s *Store) PlaceNames() []string {
	seen := make(map[string]bool)
	var out []string
	add := func(name string) {
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	for _, f := range s.byKind[KindPlace] {
		add(f.Name)
		add(f.Area)
	}
	for _, f := range s.byKind[KindCongestion] {
		add(f.Area)
	}
	sort.Strings(out)
	return out
}

// IsCongestionArea reports whether the name is an area some congestion
// fact records.
func (s *Store) IsCongestionArea(name string) bool {
	for _, f := range s.byKind[KindCongestion] {
		if strings.EqualFold(f.Area, name) {
			return true
		}
	}
	return false
}

// SpanFor returns the hour span for a window: the document's stated span
// when present, the built-in default otherwise.
func (s *Store) SpanFor(w Window) (TimeRange, bool) {
	if r, ok := s.spans[w]; ok {
		return r, true
	}
	r, ok := defaultSpans[w]
	return r, ok
}

// WindowForHour buckets a 24h clock hour into a window.
func (s *Store) WindowForHour(hour int) Window {
	hour = ((hour % 24) + 24) % 24
	// Stated spans take precedence over defaults.
	for _, w := range Windows {
		if r, ok := s.spans[w]; ok && r.Contains(hour) {
			return w
		}
	}
	for _, w := range Windows {
		if r, ok := defaultSpans[w]; ok && r.Contains(hour) {
			return w
		}
	}
	return WindowNone
}

// PeakWindows returns every peak hour range recorded in the document.
func (s *Store) PeakWindows() []TimeRange { return s.peaks }

// InPeak reports whether the window's span intersects a recorded peak.
func (s *Store) InPeak(w Window) bool {
	span, ok := s.SpanFor(w)
	if !ok {
		return false
	}
	for _, p := range s.peaks {
		if p.Overlaps(span) {
			return true
		}
	}
	return false
}

// MetroAdviceFor returns a metro-alternative advice fact linked to the
// given window, if the document records one.
func (s *Store) MetroAdviceFor(w Window) (Fact, bool) {
	span, ok := s.SpanFor(w)
	if !ok {
		return Fact{}, false
	}
	for _, f := range s.byKind[KindAdvice] {
		if f.Topic == "metro" && f.HasWindow && f.Window.Overlaps(span) {
			return f, true
		}
	}
	return Fact{}, false
}

func matchesAny(s string, cues []string) bool {
	for _, cue := range cues {
		if strings.Contains(s, cue) {
			return true
		}
	}
	return false
}
