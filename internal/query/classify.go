package query

import (
	"regexp"
	"strings"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
)

// Classification is the outcome of intent classification: exactly one
// intent plus the entities that decided it, kept for traceability.
type Classification struct {
	Intent   knowledge.Intent `json:"intent"`
	Entities []Entity         `json:"entities"`
}

// Cues are anchored on word boundaries so "tip" never fires inside
// "multiple" and "day" never fires inside "today". Stems that must
// cover inflections spell them out.
var (
	trafficCueRe = regexp.MustCompile(`(?i)\b(traffic|jams?|how long|routes?|commute|driv(?:e|ing)|reach|congest\w*)\b`)
	foodCueRe    = regexp.MustCompile(`(?i)\b(breakfast|eat(?:ing)?|restaurants?|street food|food|lunch|dinner|hungry|cafes?|snacks?)\b`)
	planCueRe    = regexp.MustCompile(`(?i)\b(itinerary|plan(?:ning)?|day|visit(?:ing)?)\b`)
	cultureCueRe = regexp.MustCompile(`(?i)\b(customs?|etiquette|culture|cultural|tips?|norms?)\b`)
)

// Classify assigns one intent by a fixed priority cascade. Slang wins
// over everything because slang questions often mention places or food
// words incidentally and must not be misrouted. Classification resolves
// against the store so that naming a recorded congestion area is itself
// a traffic question, with or without a congestion word.
func Classify(text string, entities []Entity, ks *knowledge.Store) Classification {
	lower := strings.ToLower(text)

	byKind := make(map[EntityKind][]Entity)
	for _, e := range entities {
		byKind[e.Kind] = append(byKind[e.Kind], e)
	}

	pick := func(intent knowledge.Intent, used ...[]Entity) Classification {
		c := Classification{Intent: intent}
		for _, group := range used {
			c.Entities = append(c.Entities, group...)
		}
		return c
	}

	// 1. Slang: quoted phrase, recognized term, or an explicit cue.
	if len(byKind[EntitySlang]) > 0 || meanCueRe.MatchString(lower) {
		return pick(knowledge.IntentSlang, byKind[EntitySlang], byKind[EntityTime])
	}

	// 2. Traffic: a recognized congestion area alone qualifies; any
	// other known place needs a congestion cue.
	if places := byKind[EntityPlace]; len(places) > 0 {
		if trafficCueRe.MatchString(lower) || anyCongestionArea(ks, places) {
			return pick(knowledge.IntentTraffic, places, byKind[EntityTime])
		}
	}

	// 3. Food: meal-time or food-category cue.
	if foodCueRe.MatchString(lower) {
		return pick(knowledge.IntentFood, byKind[EntityTime], byKind[EntityPlace])
	}

	// 4. Itinerary.
	if planCueRe.MatchString(lower) {
		return pick(knowledge.IntentItinerary, byKind[EntityTime], byKind[EntityPlace])
	}

	// 5. Culture.
	if cultureCueRe.MatchString(lower) {
		return pick(knowledge.IntentCulture)
	}

	// 6. Fallback.
	return pick(knowledge.IntentGeneral, byKind[EntityTime], byKind[EntityPlace])
}

func anyCongestionArea(ks *knowledge.Store, places []Entity) bool {
	if ks == nil {
		return false
	}
	for _, e := range places {
		if ks.IsCongestionArea(e.Value) {
			return true
		}
	}
	return false
}
