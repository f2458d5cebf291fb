package compose

import (
	"testing"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
	"github.com/SRINIVASINDIA/Local-guide/internal/retrieval"
)

func TestValidateAcceptsComposedResponses(t *testing.T) {
	results := []retrieval.Result{
		{
			Intent: knowledge.IntentSlang,
			Facts:  []knowledge.Fact{defFact("Macha", "friend, buddy")},
		},
		{
			Intent: knowledge.IntentTraffic,
			Facts: []knowledge.Fact{
				congestionFact("Silk Board Junction", "nightmare", knowledge.TimeRange{Start: 18, End: 21}),
				metroFact("Take the Purple Line", knowledge.TimeRange{Start: 18, End: 21}),
			},
		},
		{Intent: knowledge.IntentGeneral},
	}

	for _, res := range results {
		resp := Compose(res, DefaultRules())
		if err := Validate(resp); err != nil {
			t.Errorf("Validate rejected a composed %s response: %v", res.Intent, err)
		}
	}
}

func TestValidateCatchesMissingEvidence(t *testing.T) {
	res := retrieval.Result{
		Intent: knowledge.IntentSlang,
		Facts:  []knowledge.Fact{defFact("Macha", "friend, buddy")},
	}
	resp := Compose(res, DefaultRules())

	// Strip the evidence: the slot ledger now points at nothing.
	resp.FactsUsed = nil

	err := Validate(resp)
	if err == nil {
		t.Fatal("Validate accepted a response whose facts are gone")
	}
	if _, ok := err.(*GroundingViolation); !ok {
		t.Errorf("error type = %T, want *GroundingViolation", err)
	}
}

func TestValidateFreeform(t *testing.T) {
	facts := []knowledge.Fact{
		congestionFact("Silk Board Junction", "nightmare", knowledge.TimeRange{Start: 18, End: 21}),
	}

	tests := []struct {
		name   string
		text   string
		wantOK bool
	}{
		{"grounded", "Expect nightmare traffic around Silk Board Junction after 6 PM.", true},
		{"invented place", "Koramangala is lovely in the evening.", false},
		{"invented number", "It clears up by 11 PM.", false},
		{"query echo", "You asked about silk board traffic. Expect delays.", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFreeform(tt.text, facts, "how bad is silk board traffic")
			if (err == nil) != tt.wantOK {
				t.Errorf("ValidateFreeform(%q) error = %v, wantOK %v", tt.text, err, tt.wantOK)
			}
		})
	}
}
