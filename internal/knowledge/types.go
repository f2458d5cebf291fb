package knowledge

import "time"

// Intent is the classified purpose of a query.
type Intent string

const (
	IntentFood      Intent = "food"
	IntentTraffic   Intent = "traffic"
	IntentSlang     Intent = "slang"
	IntentItinerary Intent = "itinerary"
	IntentCulture   Intent = "culture"
	IntentGeneral   Intent = "general"
)

// Window is one of the closed set of time-of-day windows.
type Window string

const (
	WindowNone         Window = ""
	WindowEarlyMorning Window = "early_morning"
	WindowMorning      Window = "morning"
	WindowMidday       Window = "midday"
	WindowEvening      Window = "evening"
	WindowNight        Window = "night"
)

// Windows lists every real window in day order.
var Windows = []Window{WindowEarlyMorning, WindowMorning, WindowMidday, WindowEvening, WindowNight}

// TimeRange is a half-open range of hours [Start, End) on a 24h clock.
// A range that wraps midnight has End < Start (e.g. 21-5 for night).
type TimeRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the given hour falls inside the range.
func (r TimeRange) Contains(hour int) bool {
	if r.Start <= r.End {
		return hour >= r.Start && hour < r.End
	}
	return hour >= r.Start || hour < r.End
}

// Overlaps reports whether two ranges share at least one hour.
func (r TimeRange) Overlaps(other TimeRange) bool {
	for h := 0; h < 24; h++ {
		if r.Contains(h) && other.Contains(h) {
			return true
		}
	}
	return false
}

// IsZero reports whether the range is unset.
func (r TimeRange) IsZero() bool { return r.Start == 0 && r.End == 0 }

// FactKind tags the variant of a Fact.
type FactKind string

const (
	KindDefinition FactKind = "definition"
	KindPlace      FactKind = "place"
	KindCongestion FactKind = "congestion"
	KindAdvice     FactKind = "advice"
)

// Fact is the atomic retrievable unit parsed from the knowledge document.
// Kind selects the variant; only the fields of that variant are populated.
// Section is provenance, the name of the originating document section.
type Fact struct {
	ID      string   `json:"id"`
	Kind    FactKind `json:"kind"`
	Section string   `json:"section"`

	// Definition variant (slang).
	Term    string `json:"term,omitempty"`
	Meaning string `json:"meaning,omitempty"`

	// Place variant (food / shopping spot).
	Name     string `json:"name,omitempty"`
	Area     string `json:"area,omitempty"`
	Category string `json:"category,omitempty"`

	// Congestion variant (traffic).
	Severity string `json:"severity,omitempty"`

	// Advice variant (etiquette / tips / everything unparseable).
	Topic string `json:"topic,omitempty"`
	Text  string `json:"text,omitempty"`

	// Window applies to place facts (when the spot is good) and to
	// congestion and metro-advice facts (when the range is in effect).
	Window TimeRange `json:"window,omitempty"`
	// HasWindow distinguishes a real 0-0 range from an unset one.
	HasWindow bool `json:"has_window,omitempty"`
}

// Fields returns every populated text and numeric field of the fact.
// The grounding validator uses this as the set of claims the fact backs.
func (f Fact) Fields() []string {
	var out []string
	for _, s := range []string{f.Term, f.Meaning, f.Name, f.Area, f.Category, f.Severity, f.Topic, f.Text} {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Section is a named, ordered region of the knowledge document.
type Section struct {
	Name  string   `json:"name"`
	Lines []string `json:"lines"`
}

// Document is the raw knowledge source plus its version marker.
// Immutable once loaded; a reload produces a new Document.
type Document struct {
	Text     string    `json:"-"`
	Version  string    `json:"version"`
	LoadedAt time.Time `json:"loaded_at"`
}
