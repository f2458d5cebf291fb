// Package retrieval selects the minimal sufficient fact subset for a
// classified query. It never returns a fact whose provenance section is
// unrelated to the resolved intent.
package retrieval

import (
	"strings"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
	"github.com/SRINIVASINDIA/Local-guide/internal/query"
)

// maxGeneralFacts caps the keyword-intersection fallback so a vague
// query does not dump the whole document.
const maxGeneralFacts = 5

// Result is the retrieved fact set for one query.
type Result struct {
	Intent knowledge.Intent `json:"intent"`
	Facts  []knowledge.Fact `json:"facts"`

	// Window is the resolved time window, if the query stated one.
	Window knowledge.Window `json:"window,omitempty"`

	// TimeUnspecified marks a food result that was not narrowed by time,
	// so the composer does not claim time-specificity it lacks.
	TimeUnspecified bool `json:"time_unspecified,omitempty"`

	// UnknownTerms lists slang tokens that resolved to no definition.
	UnknownTerms []string `json:"unknown_terms,omitempty"`

	// SlotLabels names the time-of-day slot each itinerary fact fills,
	// aligned index for index with Facts. The composer labels from this,
	// not from position, so a vacant slot never shifts later labels.
	SlotLabels []string `json:"slot_labels,omitempty"`
}

// Retrieve selects facts from the store for the classified query.
func Retrieve(ks *knowledge.Store, text string, c query.Classification) Result {
	res := Result{Intent: c.Intent, Window: resolveWindow(c.Entities)}

	switch c.Intent {
	case knowledge.IntentSlang:
		retrieveSlang(ks, c, &res)
	case knowledge.IntentTraffic:
		retrieveTraffic(ks, c, &res)
	case knowledge.IntentFood:
		retrieveFood(ks, c, &res)
	case knowledge.IntentItinerary:
		retrieveItinerary(ks, &res)
	case knowledge.IntentCulture:
		res.Facts = ks.FactsByIntent(knowledge.IntentCulture)
	default:
		retrieveGeneral(ks, text, &res)
	}
	return res
}

func resolveWindow(entities []query.Entity) knowledge.Window {
	for _, e := range entities {
		if e.Kind == query.EntityTime {
			return knowledge.Window(e.Value)
		}
	}
	return knowledge.WindowNone
}

func retrieveSlang(ks *knowledge.Store, c query.Classification, res *Result) {
	for _, e := range c.Entities {
		if e.Kind != query.EntitySlang {
			continue
		}
		if f, ok := ks.DefinitionFor(e.Value); ok {
			res.Facts = appendUnique(res.Facts, f)
		} else {
			res.UnknownTerms = append(res.UnknownTerms, e.Value)
		}
	}
}

func retrieveTraffic(ks *knowledge.Store, c query.Classification, res *Result) {
	place := firstEntity(c.Entities, query.EntityPlace)
	span, hasSpan := ks.SpanFor(res.Window)

	for _, f := range ks.FactsByIntent(knowledge.IntentTraffic) {
		if place != "" && !areaMatches(f.Area, place) {
			continue
		}
		if res.Window != knowledge.WindowNone && hasSpan && !f.Window.Overlaps(span) {
			continue
		}
		res.Facts = append(res.Facts, f)
	}

	// A stated time inside a recorded peak pulls in the linked metro
	// alternative, when the document has one.
	if res.Window != knowledge.WindowNone && ks.InPeak(res.Window) {
		if metro, ok := ks.MetroAdviceFor(res.Window); ok {
			res.Facts = appendUnique(res.Facts, metro)
		}
	}
}

func retrieveFood(ks *knowledge.Store, c query.Classification, res *Result) {
	place := firstEntity(c.Entities, query.EntityPlace)

	keep := func(f knowledge.Fact) bool {
		return place == "" || areaMatches(f.Area, place) || areaMatches(f.Name, place)
	}

	if res.Window == knowledge.WindowNone {
		res.TimeUnspecified = true
		for _, f := range ks.FactsByIntent(knowledge.IntentFood) {
			if keep(f) {
				res.Facts = append(res.Facts, f)
			}
		}
		return
	}

	for _, f := range ks.FactsByWindow(res.Window) {
		if f.Kind == knowledge.KindPlace && keep(f) {
			res.Facts = append(res.Facts, f)
		}
	}
	if len(res.Facts) > 0 {
		return
	}
	// No spot states this window; time-agnostic spots still qualify.
	for _, f := range ks.FactsByIntent(knowledge.IntentFood) {
		if !f.HasWindow && keep(f) {
			res.Facts = append(res.Facts, f)
		}
	}
}

// retrieveItinerary draws one representative fact per slot of the fixed
// day plan: morning food, midday culture, an afternoon traffic-aware
// travel tip, evening food.
func retrieveItinerary(ks *knowledge.Store, res *Result) {
	add := func(label string, f knowledge.Fact) {
		for _, existing := range res.Facts {
			if existing.ID == f.ID {
				return
			}
		}
		res.Facts = append(res.Facts, f)
		res.SlotLabels = append(res.SlotLabels, label)
	}

	if f, ok := placeForWindow(ks, knowledge.WindowMorning); ok {
		add("Morning", f)
	}
	if culture := ks.FactsByIntent(knowledge.IntentCulture); len(culture) > 0 {
		add("Midday", culture[0])
	}
	if metro, ok := ks.MetroAdviceFor(knowledge.WindowEvening); ok {
		add("Afternoon", metro)
	} else if traffic := ks.FactsByIntent(knowledge.IntentTraffic); len(traffic) > 0 {
		add("Afternoon", traffic[0])
	}
	if f, ok := placeForWindow(ks, knowledge.WindowEvening); ok {
		add("Evening", f)
	}
}

func placeForWindow(ks *knowledge.Store, w knowledge.Window) (knowledge.Fact, bool) {
	for _, f := range ks.FactsByWindow(w) {
		if f.Kind == knowledge.KindPlace {
			return f, true
		}
	}
	for _, f := range ks.FactsByIntent(knowledge.IntentFood) {
		if !f.HasWindow {
			return f, true
		}
	}
	return knowledge.Fact{}, false
}

var stopWords = map[string]bool{
	"the": true, "is": true, "at": true, "which": true, "on": true,
	"a": true, "an": true, "and": true, "or": true, "but": true,
	"in": true, "with": true, "to": true, "for": true, "of": true,
	"as": true, "by": true, "what": true, "where": true, "how": true,
	"can": true, "you": true, "about": true, "tell": true, "me": true,
}

func retrieveGeneral(ks *knowledge.Store, text string, res *Result) {
	res.Facts = keywordIntersect(ks.FactsByIntent(knowledge.IntentGeneral), text)
	if len(res.Facts) > 0 {
		return
	}
	// Nothing in the advice sections matched; widen to every section.
	res.Facts = keywordIntersect(ks.Facts(), text)
}

func keywordIntersect(facts []knowledge.Fact, text string) []knowledge.Fact {
	var keywords []string
	for _, w := range strings.Fields(strings.ToLower(text)) {
		w = strings.Trim(w, `.,!?'"`)
		if len(w) > 2 && !stopWords[w] {
			keywords = append(keywords, w)
		}
	}
	if len(keywords) == 0 {
		return nil
	}

	var out []knowledge.Fact
	for _, f := range facts {
		haystack := strings.ToLower(strings.Join(f.Fields(), " "))
		for _, kw := range keywords {
			if strings.Contains(haystack, kw) {
				out = append(out, f)
				break
			}
		}
		if len(out) >= maxGeneralFacts {
			break
		}
	}
	return out
}

func firstEntity(entities []query.Entity, kind query.EntityKind) string {
	for _, e := range entities {
		if e.Kind == kind {
			return e.Value
		}
	}
	return ""
}

func areaMatches(area, place string) bool {
	a, p := strings.ToLower(area), strings.ToLower(place)
	if a == "" || p == "" {
		return false
	}
	return strings.Contains(a, p) || strings.Contains(p, a)
}

func appendUnique(facts []knowledge.Fact, f knowledge.Fact) []knowledge.Fact {
	for _, existing := range facts {
		if existing.ID == f.ID {
			return facts
		}
	}
	return append(facts, f)
}
