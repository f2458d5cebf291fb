package query

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/SRINIVASINDIA/Local-guide/internal/knowledge"
)

// timeLexicon maps natural time phrases to windows. Longer phrases are
// matched first so "early morning" wins over "morning".
var timeLexicon = map[string]knowledge.Window{
	"early morning": knowledge.WindowEarlyMorning,
	"dawn":          knowledge.WindowEarlyMorning,
	"sunrise":       knowledge.WindowEarlyMorning,
	"morning":       knowledge.WindowMorning,
	"breakfast":     knowledge.WindowMorning,
	"midday":        knowledge.WindowMidday,
	"noon":          knowledge.WindowMidday,
	"afternoon":     knowledge.WindowMidday,
	"lunch":         knowledge.WindowMidday,
	"evening":       knowledge.WindowEvening,
	"dinner":        knowledge.WindowEvening,
	"sunset":        knowledge.WindowEvening,
	"peak hours":    knowledge.WindowEvening,
	"rush hour":     knowledge.WindowEvening,
	"night":         knowledge.WindowNight,
	"tonight":       knowledge.WindowNight,
}

var (
	clockTimeRe  = regexp.MustCompile(`(?i)\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	clock24Re    = regexp.MustCompile(`\b([01]?\d|2[0-3]):[0-5]\d\b`)
	quotedRe     = regexp.MustCompile(`"([^"]+)"|“([^”]+)”|'([^']{2,})'`)
	wordSplitRe  = regexp.MustCompile(`[\s,.!?;]+`)
	nonAlphanum  = regexp.MustCompile(`[^\p{L}\p{N}\s]`)
	meanCueRe    = regexp.MustCompile(`(?i)\bmeans?\b|\bmeaning\b|\bslang\b`)
	lexiconOrder []string
)

func init() {
	for phrase := range timeLexicon {
		lexiconOrder = append(lexiconOrder, phrase)
	}
	sort.Slice(lexiconOrder, func(i, j int) bool {
		return len(lexiconOrder[i]) > len(lexiconOrder[j])
	})
}

// Extract pulls time, place, and slang entities out of the query text.
// Place and slang extraction resolve against the active store, so no
// entity is invented outside what the document actually contains.
func Extract(text string, ks *knowledge.Store) []Entity {
	lower := strings.ToLower(text)
	var entities []Entity
	seen := make(map[string]bool)

	add := func(kind EntityKind, value string, start, end int) {
		key := string(kind) + "\x00" + strings.ToLower(value)
		if value == "" || seen[key] {
			return
		}
		seen[key] = true
		entities = append(entities, Entity{Kind: kind, Value: value, Span: [2]int{start, end}})
	}

	// Time: lexical phrases, then explicit clock times bucketed by the
	// document's own stated window spans.
	for _, phrase := range lexiconOrder {
		if idx := strings.Index(lower, phrase); idx >= 0 {
			add(EntityTime, string(timeLexicon[phrase]), idx, idx+len(phrase))
		}
	}
	for _, m := range clockTimeRe.FindAllStringSubmatchIndex(text, -1) {
		hour := atoi(text[m[2]:m[3]])
		meridiem := strings.ToLower(text[m[6]:m[7]])
		if meridiem == "pm" && hour < 12 {
			hour += 12
		}
		if meridiem == "am" && hour == 12 {
			hour = 0
		}
		if w := ks.WindowForHour(hour); w != knowledge.WindowNone {
			add(EntityTime, string(w), m[0], m[1])
		}
	}
	for _, m := range clock24Re.FindAllStringIndex(text, -1) {
		hour := atoi(strings.SplitN(text[m[0]:m[1]], ":", 2)[0])
		if w := ks.WindowForHour(hour); w != knowledge.WindowNone {
			add(EntityTime, string(w), m[0], m[1])
		}
	}

	// Places: substring match against document names, with tolerance for
	// a single-character misspelling. A leading-words mention of a
	// multiword name still resolves, so "silk board" finds
	// "Silk Board Junction".
	for _, name := range ks.PlaceNames() {
		nameLower := strings.ToLower(name)
		if idx := strings.Index(lower, nameLower); idx >= 0 {
			add(EntityPlace, name, idx, idx+len(nameLower))
			continue
		}
		if idx, ok := fuzzyIndex(lower, nameLower); ok {
			add(EntityPlace, name, idx, idx+len(nameLower))
			continue
		}
		if idx, length, ok := prefixIndex(lower, nameLower); ok {
			add(EntityPlace, name, idx, idx+length)
		}
	}

	// Slang: quoted substrings and known terms.
	for _, m := range quotedRe.FindAllStringSubmatchIndex(text, -1) {
		for g := 1; g <= 3; g++ {
			if m[2*g] >= 0 {
				add(EntitySlang, text[m[2*g]:m[2*g+1]], m[2*g], m[2*g+1])
			}
		}
	}
	for _, term := range ks.SlangTerms() {
		termLower := strings.ToLower(term)
		if idx := strings.Index(lower, termLower); idx >= 0 {
			add(EntitySlang, term, idx, idx+len(termLower))
		}
	}

	return entities
}

// prefixIndex matches a leading word subsequence of a multiword name,
// longest first. Prefixes shorter than five characters are skipped so
// generic leading words never resolve on their own.
func prefixIndex(textLower, nameLower string) (start, length int, ok bool) {
	words := strings.Fields(nonAlphanum.ReplaceAllString(nameLower, " "))
	for k := len(words) - 1; k >= 1; k-- {
		prefix := strings.Join(words[:k], " ")
		if len(prefix) < 5 {
			break
		}
		if idx := boundedIndex(textLower, prefix); idx >= 0 {
			return idx, len(prefix), true
		}
	}
	return 0, 0, false
}

// boundedIndex finds needle in haystack at word boundaries only.
func boundedIndex(haystack, needle string) int {
	for from := 0; ; {
		idx := strings.Index(haystack[from:], needle)
		if idx < 0 {
			return -1
		}
		idx += from
		if wordBounded(haystack, idx, idx+len(needle)) {
			return idx
		}
		from = idx + 1
	}
}

func wordBounded(s string, start, end int) bool {
	if start > 0 {
		if r, _ := utf8.DecodeLastRuneInString(s[:start]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end < len(s) {
		if r, _ := utf8.DecodeRuneInString(s[end:]); unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// fuzzyIndex scans word n-grams of the text for one within edit
// distance 1 of the wanted name. Short names are matched exactly only,
// to avoid false hits.
func fuzzyIndex(textLower, nameLower string) (int, bool) {
	if len(nameLower) < 5 {
		return 0, false
	}
	nameWords := strings.Fields(nonAlphanum.ReplaceAllString(nameLower, " "))
	words := wordSplitRe.Split(textLower, -1)
	n := len(nameWords)
	if n == 0 || len(words) < n {
		return 0, false
	}
	for i := 0; i+n <= len(words); i++ {
		candidate := strings.Join(words[i:i+n], " ")
		if levenshtein(candidate, strings.Join(nameWords, " ")) <= 1 {
			if idx := strings.Index(textLower, words[i]); idx >= 0 {
				return idx, true
			}
			return 0, true
		}
	}
	return 0, false
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}
	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min3(cur[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			break
		}
		n = n*10 + int(r-'0')
	}
	return n
}
