package knowledge

import (
	"crypto/sha256"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gtext "github.com/yuin/goldmark/text"
)

// HeadingKeywords maps section headings to fact kinds. A heading that
// contains (case-insensitively) any keyword from a list is parsed as
// that kind of section; everything else becomes advice.
type HeadingKeywords struct {
	Slang   []string `json:"slang"`
	Traffic []string `json:"traffic"`
	Food    []string `json:"food"`
}

// DefaultHeadingKeywords returns the built-in heading keyword table.
func DefaultHeadingKeywords() HeadingKeywords {
	return HeadingKeywords{
		Slang:   []string{"slang"},
		Traffic: []string{"traffic", "peak"},
		Food:    []string{"food", "breakfast", "street food"},
	}
}

var (
	// 6:30 PM - 9 PM, 8-10AM, 6 to 9 pm, ...
	timeRangeRe = regexp.MustCompile(`(?i)(\d{1,2})(?::(\d{2}))?\s*(am|pm)?\s*(?:-|–|to)\s*(\d{1,2})(?::(\d{2}))?\s*(am|pm)`)
	// "Term" - meaning  (meaning may itself be quoted)
	quotedDefRe = regexp.MustCompile(`^["“](.+?)["”]\s*[-–:]\s*(.+)$`)
	// Term - meaning
	plainDefRe = regexp.MustCompile(`^(.+?)\s+[-–]\s+(.+)$`)
	// Name: description
	pairRe = regexp.MustCompile(`^([^:]+?):\s*(.+)$`)
	// Name (Area)
	parenRe = regexp.MustCompile(`^(.+?)\s*\((.+?)\)$`)
)

// windowLabels maps lexical window names found in the document to the
// closed window set.
var windowLabels = map[string]Window{
	"early morning": WindowEarlyMorning,
	"morning":       WindowMorning,
	"midday":        WindowMidday,
	"afternoon":     WindowMidday,
	"noon":          WindowMidday,
	"evening":       WindowEvening,
	"night":         WindowNight,
}

// splitSections walks the markdown AST and groups content lines under
// their nearest preceding heading. Content before any heading is
// ignored; a document with no headings therefore parses to nothing.
func splitSections(text string) []Section {
	src := []byte(text)
	root := goldmark.New().Parser().Parse(gtext.NewReader(src))

	var sections []Section
	var current *Section

	addLines := func(raw string) {
		if current == nil {
			return
		}
		for _, line := range strings.Split(raw, "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				current.Lines = append(current.Lines, line)
			}
		}
	}

	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if current != nil {
				sections = append(sections, *current)
			}
			current = &Section{Name: strings.TrimSpace(nodeText(node, src))}
		case *ast.List:
			for item := node.FirstChild(); item != nil; item = item.NextSibling() {
				addLines(nodeText(item, src))
			}
		default:
			addLines(nodeText(n, src))
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}
	return sections
}

// nodeText collects the plain text of a markdown node and its children.
func nodeText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return b.String()
}

// sectionKind classifies a section heading by keyword match.
func sectionKind(heading string, kw HeadingKeywords) FactKind {
	h := strings.ToLower(heading)
	contains := func(words []string) bool {
		for _, w := range words {
			if strings.Contains(h, w) {
				return true
			}
		}
		return false
	}
	switch {
	case contains(kw.Slang):
		return KindDefinition
	case contains(kw.Traffic):
		return KindCongestion
	case contains(kw.Food):
		return KindPlace
	default:
		return KindAdvice
	}
}

// parseTimeRanges extracts every hour range stated in the line.
func parseTimeRanges(line string) []TimeRange {
	var out []TimeRange
	for _, m := range timeRangeRe.FindAllStringSubmatch(line, -1) {
		start := atoiSafe(m[1])
		end := atoiSafe(m[4])
		startMer, endMer := strings.ToLower(m[3]), strings.ToLower(m[6])
		if startMer == "" {
			startMer = endMer
		}
		start = to24h(start, startMer)
		end = to24h(end, endMer)
		if m[5] != "" && m[5] != "00" {
			end++ // partial final hour counts
		}
		if start == end {
			continue
		}
		out = append(out, TimeRange{Start: start % 24, End: end % 24})
	}
	return out
}

func to24h(hour int, meridiem string) int {
	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}
	return hour
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// severityFor maps congestion wording to a severity level.
func severityFor(desc string) string {
	d := strings.ToLower(desc)
	switch {
	case strings.Contains(d, "nightmare") || strings.Contains(d, "gridlock"):
		return "nightmare"
	case strings.Contains(d, "heavy") || strings.Contains(d, "packed") || strings.Contains(d, "crawl"):
		return "heavy"
	case strings.Contains(d, "moderate") || strings.Contains(d, "slow"):
		return "moderate"
	case strings.Contains(d, "light"):
		return "light"
	default:
		return "congested"
	}
}

// factID derives a deterministic fact identifier so that parsing the
// same document twice yields structurally equal fact sets.
func factID(kind FactKind, parts ...string) string {
	sum := sha256.Sum256([]byte(string(kind) + "\x00" + strings.Join(parts, "\x00")))
	return fmt.Sprintf("%s:%x", kind, sum[:6])
}

// parseSection turns the lines of one section into facts. Lines that
// match no structured pattern degrade to advice facts verbatim; nothing
// is dropped. It also reports any window spans the section states
// (e.g. "Morning (6-10 AM): ..."), which drive numeric time bucketing.
func parseSection(sec Section, kind FactKind) (facts []Fact, spans map[Window]TimeRange) {
	spans = make(map[Window]TimeRange)

	advice := func(line string) Fact {
		return Fact{
			ID:      factID(KindAdvice, sec.Name, line),
			Kind:    KindAdvice,
			Section: sec.Name,
			Topic:   sec.Name,
			Text:    line,
		}
	}

	for _, line := range sec.Lines {
		switch kind {
		case KindDefinition:
			if m := quotedDefRe.FindStringSubmatch(line); m != nil {
				facts = append(facts, Fact{
					ID:      factID(KindDefinition, sec.Name, m[1]),
					Kind:    KindDefinition,
					Section: sec.Name,
					Term:    strings.TrimSpace(m[1]),
					Meaning: trimQuotes(m[2]),
				})
				continue
			}
			if m := plainDefRe.FindStringSubmatch(line); m != nil {
				facts = append(facts, Fact{
					ID:      factID(KindDefinition, sec.Name, m[1]),
					Kind:    KindDefinition,
					Section: sec.Name,
					Term:    strings.TrimSpace(m[1]),
					Meaning: trimQuotes(m[2]),
				})
				continue
			}
			facts = append(facts, advice(line))

		case KindCongestion:
			ranges := parseTimeRanges(line)
			m := pairRe.FindStringSubmatch(line)
			if m == nil || len(ranges) == 0 {
				facts = append(facts, advice(line))
				continue
			}
			name, desc := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
			if strings.Contains(strings.ToLower(line), "metro") {
				// Metro coverage lines become window-linked advice so the
				// retriever can surface them as peak alternatives.
				for _, r := range ranges {
					facts = append(facts, Fact{
						ID:        factID(KindAdvice, sec.Name, line, fmt.Sprint(r)),
						Kind:      KindAdvice,
						Section:   sec.Name,
						Topic:     "metro",
						Text:      line,
						Window:    r,
						HasWindow: true,
					})
				}
				continue
			}
			for _, r := range ranges {
				facts = append(facts, Fact{
					ID:        factID(KindCongestion, sec.Name, name, fmt.Sprint(r)),
					Kind:      KindCongestion,
					Section:   sec.Name,
					Area:      name,
					Severity:  severityFor(desc),
					Window:    r,
					HasWindow: true,
				})
			}

		case KindPlace:
			facts = append(facts, parsePlaceLine(sec, line, spans)...)

		default:
			facts = append(facts, advice(line))
		}
	}
	return facts, spans
}

// parsePlaceLine handles the food-section line shapes:
//
//	Morning (6-10 AM): Idli, Dosa          -> one place fact per item
//	Vidyarthi Bhavan (Basavanagudi): dosas -> named spot with area
//	VV Puram Food Street - evening chaat   -> named spot
func parsePlaceLine(sec Section, line string, spans map[Window]TimeRange) []Fact {
	category := categoryFor(sec.Name)
	ranges := parseTimeRanges(line)

	place := func(name, area string) Fact {
		f := Fact{
			ID:       factID(KindPlace, sec.Name, name, area),
			Kind:     KindPlace,
			Section:  sec.Name,
			Name:     strings.TrimSpace(name),
			Area:     strings.TrimSpace(area),
			Category: category,
		}
		if len(ranges) > 0 {
			f.Window, f.HasWindow = ranges[0], true
		}
		return f
	}

	if m := pairRe.FindStringSubmatch(line); m != nil {
		head, desc := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
		if pm := parenRe.FindStringSubmatch(head); pm != nil {
			label := strings.ToLower(strings.TrimSpace(pm[1]))
			if w, ok := windowLabels[label]; ok && len(ranges) > 0 {
				spans[w] = ranges[0]
				var facts []Fact
				for _, item := range strings.Split(desc, ",") {
					if item = strings.TrimSpace(item); item != "" {
						facts = append(facts, place(item, ""))
					}
				}
				return facts
			}
			return []Fact{place(pm[1], pm[2])}
		}
		return []Fact{place(head, "")}
	}
	if m := plainDefRe.FindStringSubmatch(line); m != nil {
		head := strings.TrimSpace(m[1])
		if pm := parenRe.FindStringSubmatch(head); pm != nil {
			return []Fact{place(pm[1], pm[2])}
		}
		return []Fact{place(head, "")}
	}

	// Unparseable food line: keep it verbatim as advice.
	return []Fact{{
		ID:      factID(KindAdvice, sec.Name, line),
		Kind:    KindAdvice,
		Section: sec.Name,
		Topic:   sec.Name,
		Text:    line,
	}}
}

func categoryFor(heading string) string {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "street food"):
		return "street food"
	case strings.Contains(h, "breakfast"):
		return "breakfast"
	default:
		return "food"
	}
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	return strings.Trim(s, `"“”'`)
}
