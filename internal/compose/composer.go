// Package compose turns retrieved facts into response text by fixed
// template substitution. Because every dynamic value in the output comes
// from a recorded substitution slot, the no-hallucination guarantee is a
// structural property that the grounding validator can check mechanically.
package compose

import (
	"fmt"
	"strings"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
	"github.com/SRINIVASINDIA/Local-guide/internal/retrieval"
)

// Rule identifies one of the closed set of behavior rules.
type Rule string

const (
	// RuleExplainSlang appends a definition sentence whenever a
	// definition fact is used anywhere in a response, not only for the
	// slang intent.
	RuleExplainSlang Rule = "explain_slang_when_used"
	// RuleWarnTraffic keeps congestion severity in every traffic
	// sentence. It is structural: the traffic template always states
	// severity, so the rule cannot be silently weakened.
	RuleWarnTraffic Rule = "warn_about_traffic_realistically"
	// RuleSuggestMetro appends the metro alternative when the resolved
	// time window intersects a recorded peak window.
	RuleSuggestMetro Rule = "suggest_metro_during_peaks"
)

// DefaultRules returns every behavior rule, enabled, in application order.
func DefaultRules() []Rule {
	return []Rule{RuleExplainSlang, RuleWarnTraffic, RuleSuggestMetro}
}

// FallbackText is the fixed sentence used whenever nothing retrievable
// backs an answer. It is the explicit anti-hallucination fallback.
const FallbackText = "That isn't covered by my current local knowledge, so I'd rather not guess."

// slotSource records where a substituted value came from.
type slotSource string

const (
	sourceFact  slotSource = "fact"  // a text field of a used fact
	sourceHour  slotSource = "hour"  // an hour of a used fact's window
	sourceQuery slotSource = "query" // echo of the user's own words
)

// slot is one template substitution, kept for grounding validation.
type slot struct {
	Value  string
	Source slotSource
	FactID string
}

// Response is a composed answer plus the evidence it was built from.
type Response struct {
	Text           string           `json:"text"`
	Intent         knowledge.Intent `json:"intent"`
	FactsUsed      []knowledge.Fact `json:"facts_used"`
	SlangExplained []knowledge.Fact `json:"slang_explained"`
	Fallback       bool             `json:"fallback"`

	slots []slot
}

// composer accumulates sentences and their substitution slots.
type composer struct {
	sentences []string
	slots     []slot
}

func (c *composer) static(sentence string) {
	c.sentences = append(c.sentences, sentence)
}

func (c *composer) fact(factID, format string, values ...string) {
	args := make([]any, len(values))
	for i, v := range values {
		c.slots = append(c.slots, slot{Value: v, Source: sourceFact, FactID: factID})
		args[i] = v
	}
	c.sentences = append(c.sentences, fmt.Sprintf(format, args...))
}

func (c *composer) echo(format string, value string) {
	c.slots = append(c.slots, slot{Value: value, Source: sourceQuery})
	c.sentences = append(c.sentences, fmt.Sprintf(format, value))
}

func (c *composer) hours(factID string, r knowledge.TimeRange) (string, string) {
	start, end := hourLabel(r.Start), hourLabel(r.End)
	c.slots = append(c.slots,
		slot{Value: start, Source: sourceHour, FactID: factID},
		slot{Value: end, Source: sourceHour, FactID: factID})
	return start, end
}

// Fallback returns the fixed not-covered response for an intent. The
// pipeline substitutes it whenever composition or grounding fails.
func Fallback(intent knowledge.Intent) Response {
	return Response{Text: FallbackText, Intent: intent, Fallback: true}
}

// Compose renders the retrieval result into a response using the enabled
// behavior rules. An empty retrieval yields the fixed fallback sentence.
func Compose(res retrieval.Result, rules []Rule) Response {
	enabled := make(map[Rule]bool, len(rules))
	for _, r := range rules {
		enabled[r] = true
	}

	resp := Response{Intent: res.Intent}
	c := &composer{}

	// Metro alternatives render only under the metro rule; a dropped
	// alternative is also dropped from the evidence set.
	var facts []knowledge.Fact
	for _, f := range res.Facts {
		if f.Topic == "metro" && !enabled[RuleSuggestMetro] && res.Intent == knowledge.IntentTraffic {
			continue
		}
		facts = append(facts, f)
	}

	if len(facts) == 0 {
		for _, term := range res.UnknownTerms {
			c.echo("I don't have %q in my notes.", term)
		}
		c.static(FallbackText)
		resp.Fallback = true
		resp.Text = strings.Join(c.sentences, " ")
		resp.slots = c.slots
		return resp
	}

	switch res.Intent {
	case knowledge.IntentSlang:
		composeSlang(c, facts, res.UnknownTerms)
	case knowledge.IntentTraffic:
		composeTraffic(c, facts)
	case knowledge.IntentFood:
		composeFood(c, facts, res)
	case knowledge.IntentItinerary:
		composeItinerary(c, facts, res.SlotLabels)
	default:
		composeAdvice(c, facts)
	}

	resp.FactsUsed = facts
	for _, f := range facts {
		if f.Kind == knowledge.KindDefinition {
			resp.SlangExplained = append(resp.SlangExplained, f)
		}
	}

	// Slang used anywhere gets explained, regardless of intent.
	if enabled[RuleExplainSlang] && res.Intent != knowledge.IntentSlang {
		for _, f := range resp.SlangExplained {
			c.fact(f.ID, "(%q means %q.)", f.Term, f.Meaning)
		}
	}

	resp.Text = strings.Join(c.sentences, " ")
	resp.slots = c.slots
	return resp
}

func composeSlang(c *composer, facts []knowledge.Fact, unknown []string) {
	for _, f := range facts {
		if f.Kind == knowledge.KindDefinition {
			c.fact(f.ID, "When locals say %q, they mean %q.", f.Term, f.Meaning)
		}
	}
	for _, term := range unknown {
		c.echo("I don't have %q in my notes, so I won't guess.", term)
	}
}

func composeTraffic(c *composer, facts []knowledge.Fact) {
	// Severity first, alternatives after.
	for _, f := range facts {
		if f.Kind != knowledge.KindCongestion {
			continue
		}
		start, end := c.hours(f.ID, f.Window)
		c.fact(f.ID, "Expect %s traffic at %s between "+start+" and "+end+".", f.Severity, f.Area)
	}
	for _, f := range facts {
		if f.Topic == "metro" {
			c.fact(f.ID, "Better option: %s", f.Text)
		}
	}
}

func composeFood(c *composer, facts []knowledge.Fact, res retrieval.Result) {
	if res.TimeUnspecified {
		c.static("Any time of day, locals rate these:")
	} else {
		c.static("For that time of day, locals rate these:")
	}
	for _, f := range facts {
		switch {
		case f.Kind != knowledge.KindPlace:
			continue
		case f.Area != "":
			c.fact(f.ID, "%s in %s for %s.", f.Name, f.Area, f.Category)
		default:
			c.fact(f.ID, "%s for %s.", f.Name, f.Category)
		}
	}
}

// composeItinerary labels each stop with the slot the retriever filled
// it into; a vacant slot leaves no label behind to shift.
func composeItinerary(c *composer, facts []knowledge.Fact, labels []string) {
	c.static("A local's day, in order:")
	for i, f := range facts {
		label := "Later"
		if i < len(labels) {
			label = labels[i]
		}
		switch f.Kind {
		case knowledge.KindPlace:
			c.fact(f.ID, label+": %s for %s.", f.Name, f.Category)
		case knowledge.KindCongestion:
			start, end := c.hours(f.ID, f.Window)
			c.fact(f.ID, label+": avoid %s between "+start+" and "+end+".", f.Area)
		default:
			c.fact(f.ID, label+": %s", f.Text)
		}
	}
}

func composeAdvice(c *composer, facts []knowledge.Fact) {
	for _, f := range facts {
		switch f.Kind {
		case knowledge.KindAdvice:
			c.fact(f.ID, "%s", f.Text)
		case knowledge.KindDefinition:
			c.fact(f.ID, "When locals say %q, they mean %q.", f.Term, f.Meaning)
		case knowledge.KindPlace:
			c.fact(f.ID, "%s is worth knowing about.", f.Name)
		case knowledge.KindCongestion:
			start, end := c.hours(f.ID, f.Window)
			c.fact(f.ID, "Expect %s traffic at %s between "+start+" and "+end+".", f.Severity, f.Area)
		}
	}
}

// hourLabel renders a 24h hour as a clock label, e.g. 18 -> "6 PM".
func hourLabel(hour int) string {
	hour = ((hour % 24) + 24) % 24
	switch {
	case hour == 0:
		return "12 AM"
	case hour < 12:
		return fmt.Sprintf("%d AM", hour)
	case hour == 12:
		return "12 PM"
	default:
		return fmt.Sprintf("%d PM", hour-12)
	}
}
