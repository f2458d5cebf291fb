package compose

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
)

// GroundingViolation reports response content that traces to no
// retrieved fact. The pipeline catches it and serves the fallback
// sentence instead; it is never surfaced as raw text to the caller.
type GroundingViolation struct {
	Claim string
}

func (e *GroundingViolation) Error() string {
	return fmt.Sprintf("ungrounded claim %q in composed response", e.Claim)
}

// Validate checks that every substitution slot of a composed response
// was filled from the facts it claims to use. The composer only builds
// responses by template substitution, so this reduces to replaying the
// slot ledger against the fact set.
func Validate(resp Response) error {
	byID := make(map[string]knowledge.Fact, len(resp.FactsUsed))
	for _, f := range resp.FactsUsed {
		byID[f.ID] = f
	}

	for _, s := range resp.slots {
		switch s.Source {
		case sourceQuery:
			// Echoing the user's own words makes no claim.
			continue
		case sourceFact:
			f, ok := byID[s.FactID]
			if !ok || !fieldBacks(f, s.Value) {
				return &GroundingViolation{Claim: s.Value}
			}
		case sourceHour:
			f, ok := byID[s.FactID]
			if !ok || !hourBacks(f, s.Value) {
				return &GroundingViolation{Claim: s.Value}
			}
		default:
			return &GroundingViolation{Claim: s.Value}
		}
	}
	return nil
}

func fieldBacks(f knowledge.Fact, value string) bool {
	for _, field := range f.Fields() {
		if field == value {
			return true
		}
	}
	return false
}

func hourBacks(f knowledge.Fact, label string) bool {
	if !f.HasWindow {
		return false
	}
	return label == hourLabel(f.Window.Start) || label == hourLabel(f.Window.End)
}

// freeformAllow are tokens free-form text may always use: structural
// words that start sentences capitalized without making a claim.
var freeformAllow = map[string]bool{
	"the": true, "a": true, "an": true, "i": true, "if": true,
	"for": true, "when": true, "it": true, "you": true, "that": true,
	"this": true, "and": true, "but": true, "also": true, "try": true,
	"locals": true, "here": true, "there": true, "expect": true,
	"avoid": true, "between": true, "around": true, "am": true, "pm": true,
}

// ValidateFreeform checks generated (non-template) text: any
// capitalized or numeric token must appear somewhere in the retrieved
// facts or in the query itself. This is the degraded check used when the
// optional generation layer rewrites the template response.
func ValidateFreeform(text string, facts []knowledge.Fact, queryText string) error {
	var corpus strings.Builder
	for _, f := range facts {
		corpus.WriteString(strings.ToLower(strings.Join(f.Fields(), " ")))
		corpus.WriteByte(' ')
		if f.HasWindow {
			corpus.WriteString(strings.ToLower(hourLabel(f.Window.Start)))
			corpus.WriteByte(' ')
			corpus.WriteString(strings.ToLower(hourLabel(f.Window.End)))
			corpus.WriteByte(' ')
		}
	}
	corpus.WriteString(strings.ToLower(queryText))
	haystack := corpus.String()

	for _, raw := range strings.Fields(text) {
		token := strings.Trim(raw, `.,!?;:"'()“”`)
		if token == "" || !claimLike(token) {
			continue
		}
		lower := strings.ToLower(token)
		if freeformAllow[lower] {
			continue
		}
		if !strings.Contains(haystack, lower) {
			return &GroundingViolation{Claim: token}
		}
	}
	return nil
}

// claimLike reports whether a token looks like a proper-noun or numeric
// claim that needs backing.
func claimLike(token string) bool {
	r := []rune(token)[0]
	return unicode.IsUpper(r) || unicode.IsDigit(r)
}
