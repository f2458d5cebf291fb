package retrieval

import (
	"testing"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
	"github.com/SRINIVASINDIA/Local-guide/internal/query"
)

const sampleDoc = `# Guide

## Local Slang

- "Macha" - friend, buddy

## Traffic and Peak Hours

- Silk Board Junction: nightmare traffic from 6 PM - 9 PM
- Outer Ring Road: heavy crawl from 8 AM - 10 AM
- Metro Purple Line: best option during peak hours 8-10 AM and 6-9 PM

## Breakfast Spots

- Morning (6-10 AM): Idli, Dosa
- Vidyarthi Bhavan (Basavanagudi): crisp benne dosas
- Evening (5-9 PM): Chaat

## Cultural Etiquette

- Remove footwear before entering homes and temples

## Practical Notes

- Power cuts happen, keep a power bank charged
`

func sampleStore(t *testing.T) *knowledge.Store {
	t.Helper()
	s, err := knowledge.Build(sampleDoc)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

func ask(t *testing.T, ks *knowledge.Store, text string) Result {
	t.Helper()
	entities := query.Extract(text, ks)
	return Retrieve(ks, text, query.Classify(text, entities, ks))
}

func kinds(facts []knowledge.Fact) map[knowledge.FactKind]int {
	out := make(map[knowledge.FactKind]int)
	for _, f := range facts {
		out[f.Kind]++
	}
	return out
}

func TestRetrieveSlang(t *testing.T) {
	ks := sampleStore(t)

	res := ask(t, ks, `what does "macha" mean`)
	if res.Intent != knowledge.IntentSlang {
		t.Fatalf("Intent = %q", res.Intent)
	}
	if len(res.Facts) != 1 || res.Facts[0].Term != "Macha" {
		t.Errorf("Facts = %+v, want the Macha definition", res.Facts)
	}

	res = ask(t, ks, `what does "gubbi" mean`)
	if len(res.Facts) != 0 {
		t.Errorf("unknown term returned facts: %+v", res.Facts)
	}
	if len(res.UnknownTerms) != 1 || res.UnknownTerms[0] != "gubbi" {
		t.Errorf("UnknownTerms = %v, want [gubbi]", res.UnknownTerms)
	}
}

func TestRetrieveTrafficFiltersByPlaceAndWindow(t *testing.T) {
	ks := sampleStore(t)

	res := ask(t, ks, "how is traffic at silk board junction in the evening")
	if res.Intent != knowledge.IntentTraffic {
		t.Fatalf("Intent = %q", res.Intent)
	}

	var areas []string
	metroIncluded := false
	for _, f := range res.Facts {
		if f.Kind == knowledge.KindCongestion {
			areas = append(areas, f.Area)
		}
		if f.Topic == "metro" {
			metroIncluded = true
		}
	}
	if len(areas) != 1 || areas[0] != "Silk Board Junction" {
		t.Errorf("congestion areas = %v, want only Silk Board Junction", areas)
	}
	// Evening intersects a recorded peak, so the metro alternative rides
	// along.
	if !metroIncluded {
		t.Error("peak-hour traffic query did not pull in the metro alternative")
	}
}

func TestRetrieveTrafficOffPeakWindow(t *testing.T) {
	ks := sampleStore(t)

	res := ask(t, ks, "traffic at outer ring road at night")
	if got := kinds(res.Facts)[knowledge.KindCongestion]; got != 0 {
		t.Errorf("night query matched %d congestion facts, want 0 (ranges are morning/evening)", got)
	}
}

func TestRetrieveFoodTimeSensitivity(t *testing.T) {
	ks := sampleStore(t)

	// Explicit morning narrows to morning spots.
	res := ask(t, ks, "where should I eat breakfast at 7am")
	if res.TimeUnspecified {
		t.Error("TimeUnspecified set despite a stated time")
	}
	names := make(map[string]bool)
	for _, f := range res.Facts {
		names[f.Name] = true
	}
	if !names["Idli"] || !names["Dosa"] {
		t.Errorf("morning spots missing: %v", names)
	}
	if names["Chaat"] {
		t.Error("evening spot returned for a morning query")
	}

	// No stated time keeps every spot and flags the result.
	res = ask(t, ks, "where can I find good street food")
	if !res.TimeUnspecified {
		t.Error("TimeUnspecified not set for a timeless query")
	}
	if len(res.Facts) != 4 {
		t.Errorf("got %d spots, want all 4", len(res.Facts))
	}
}

func TestRetrieveFoodFallsBackToWindowlessSpots(t *testing.T) {
	ks := sampleStore(t)

	// Nothing states a night window, so time-agnostic spots qualify.
	res := ask(t, ks, "anywhere to eat tonight")
	if len(res.Facts) != 1 || res.Facts[0].Name != "Vidyarthi Bhavan" {
		t.Errorf("Facts = %+v, want only the windowless spot", res.Facts)
	}
}

func TestRetrieveItinerarySlots(t *testing.T) {
	ks := sampleStore(t)

	res := ask(t, ks, "plan my day here")
	if res.Intent != knowledge.IntentItinerary {
		t.Fatalf("Intent = %q", res.Intent)
	}
	if len(res.Facts) != 4 {
		t.Fatalf("got %d facts, want 4 day slots: %+v", len(res.Facts), res.Facts)
	}
	if res.Facts[0].Kind != knowledge.KindPlace {
		t.Errorf("slot 0 = %q, want a morning food spot", res.Facts[0].Kind)
	}
	if res.Facts[1].Section != "Cultural Etiquette" {
		t.Errorf("slot 1 from %q, want the culture section", res.Facts[1].Section)
	}
	if res.Facts[2].Topic != "metro" {
		t.Errorf("slot 2 = %+v, want the metro travel tip", res.Facts[2])
	}
	if res.Facts[3].Kind != knowledge.KindPlace {
		t.Errorf("slot 3 = %q, want an evening food spot", res.Facts[3].Kind)
	}
	want := []string{"Morning", "Midday", "Afternoon", "Evening"}
	if len(res.SlotLabels) != len(res.Facts) {
		t.Fatalf("SlotLabels = %v, want one label per fact", res.SlotLabels)
	}
	for i, l := range want {
		if res.SlotLabels[i] != l {
			t.Errorf("SlotLabels[%d] = %q, want %q", i, res.SlotLabels[i], l)
		}
	}
}

func TestRetrieveGeneralKeywordMatch(t *testing.T) {
	ks := sampleStore(t)

	res := ask(t, ks, "what happens when power cuts hit")
	if res.Intent != knowledge.IntentGeneral {
		t.Fatalf("Intent = %q", res.Intent)
	}
	if len(res.Facts) != 1 || res.Facts[0].Section != "Practical Notes" {
		t.Errorf("Facts = %+v, want the power cut note", res.Facts)
	}

	res = ask(t, ks, "qqqzzz wwwxxx")
	if len(res.Facts) != 0 {
		t.Errorf("nonsense query matched facts: %+v", res.Facts)
	}
}
