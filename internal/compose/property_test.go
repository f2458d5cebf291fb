package compose

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
	"github.com/SRINIVASINDIA/Local-guide/internal/query"
	"github.com/SRINIVASINDIA/Local-guide/internal/retrieval"
)

// Line pools for generated documents. Every line uses a shape the
// parser handles, but whole sections drop out at random so documents
// range from empty to fully populated.
var (
	genSlangLines = []string{
		`- "Macha" - friend, buddy`,
		`- "Adjust maadi" - please adjust`,
		`- "Scene illa maga" - "No scene, dude"`,
		`- "Swalpa" - a little`,
	}
	genTrafficLines = []string{
		`- Silk Board Junction: nightmare traffic from 6 PM - 9 PM`,
		`- Outer Ring Road: heavy traffic 8-10 AM`,
		`- Hebbal Flyover: moderate traffic 5-8 PM`,
		`- Metro Purple Line: best option during peak hours 8-10 AM and 6-9 PM`,
	}
	genFoodLines = []string{
		`- Morning (6-10 AM): Idli, Dosa, Filter Coffee`,
		`- Evening (5-9 PM): Chaat, Obbattu`,
		`- Vidyarthi Bhavan (Basavanagudi): crisp benne dosas`,
		`- CTR (Malleshwaram): legendary dosas`,
	}
	genCultureLines = []string{
		`- Remove footwear before entering temples`,
		`- Bargaining is expected at street markets`,
	}
)

func randomDoc(rng *rand.Rand) string {
	var b strings.Builder
	b.WriteString("# Guide\n")

	section := func(heading string, lines []string) {
		if rng.Intn(4) == 0 {
			return
		}
		fmt.Fprintf(&b, "\n## %s\n\n", heading)
		for _, line := range lines {
			if rng.Intn(3) > 0 {
				b.WriteString(line)
				b.WriteByte('\n')
			}
		}
	}
	section("Local Slang", genSlangLines)
	section("Traffic and Peak Hours", genTrafficLines)
	section("Breakfast Spots", genFoodLines)
	section("Cultural Etiquette", genCultureLines)
	return b.String()
}

func randomWords(rng *rand.Rand, n int) string {
	var words []string
	for i := 0; i < n; i++ {
		w := make([]byte, 3+rng.Intn(6))
		for j := range w {
			w[j] = byte('a' + rng.Intn(26))
		}
		words = append(words, string(w))
	}
	return strings.Join(words, " ")
}

func randomQuery(rng *rand.Rand, ks *knowledge.Store) string {
	pickOr := func(pool []string, fallback string) string {
		if len(pool) == 0 {
			return fallback
		}
		return pool[rng.Intn(len(pool))]
	}
	switch rng.Intn(7) {
	case 0:
		return fmt.Sprintf("what does %q mean", pickOr(ks.SlangTerms(), randomWords(rng, 2)))
	case 1:
		return fmt.Sprintf("is %s bad at %d pm", pickOr(ks.PlaceNames(), randomWords(rng, 2)), 1+rng.Intn(12))
	case 2:
		return fmt.Sprintf("where can I eat breakfast at %d am", 1+rng.Intn(12))
	case 3:
		return "plan my day here"
	case 4:
		return "any etiquette I should know"
	case 5:
		return fmt.Sprintf("tell me about %s", pickOr(ks.PlaceNames(), randomWords(rng, 1)))
	default:
		return randomWords(rng, 1+rng.Intn(4))
	}
}

// Grounding must hold for arbitrary document and query pairs: whatever
// the pipeline composes, every cited fact resolves in the store that
// was active and the slot ledger replays cleanly.
func TestGroundingHoldsForGeneratedPairs(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 60; trial++ {
		doc := randomDoc(rng)
		ks, err := knowledge.Build(doc)
		if err != nil {
			if !errors.Is(err, knowledge.ErrMalformedKnowledge) {
				t.Fatalf("trial %d: Build: %v", trial, err)
			}
			continue
		}

		// Identical text must index identically, whatever the text.
		again, err := knowledge.Build(doc)
		if err != nil {
			t.Fatalf("trial %d: rebuild: %v", trial, err)
		}
		if again.Version() != ks.Version() || len(again.Facts()) != len(ks.Facts()) {
			t.Fatalf("trial %d: rebuild diverged from first build", trial)
		}

		for i := 0; i < 20; i++ {
			text := randomQuery(rng, ks)
			cleaned, err := query.Validate(text)
			if err != nil {
				continue
			}
			entities := query.Extract(cleaned, ks)
			cls := query.Classify(cleaned, entities, ks)
			res := retrieval.Retrieve(ks, cleaned, cls)
			resp := Compose(res, DefaultRules())

			for _, f := range resp.FactsUsed {
				if _, ok := ks.FactByID(f.ID); !ok {
					t.Fatalf("trial %d: query %q cites fact %q not in the store", trial, text, f.ID)
				}
			}
			if err := Validate(resp); err != nil {
				t.Fatalf("trial %d: query %q: %v\ndoc:\n%s", trial, text, err, doc)
			}
		}
	}
}
