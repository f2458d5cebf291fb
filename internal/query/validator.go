package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	minQueryLen = 2
	maxQueryLen = 500
)

// ErrInvalidQuery wraps every validation failure.
var ErrInvalidQuery = errors.New("invalid query")

// forbiddenPatterns reject markup and URL schemes that have no business
// in a question.
var forbiddenPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?is)<script.*?>.*?</script>`),
	regexp.MustCompile(`(?i)javascript:`),
	regexp.MustCompile(`(?i)data:`),
	regexp.MustCompile(`(?i)vbscript:`),
}

var extraSpace = regexp.MustCompile(`\s+`)

// Validate checks and normalizes raw query text. It returns the cleaned
// text, or an error wrapping ErrInvalidQuery.
func Validate(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minQueryLen {
		return "", fmt.Errorf("%w: too short (minimum %d characters)", ErrInvalidQuery, minQueryLen)
	}
	if len(text) > maxQueryLen {
		return "", fmt.Errorf("%w: too long (maximum %d characters)", ErrInvalidQuery, maxQueryLen)
	}
	for _, p := range forbiddenPatterns {
		if p.MatchString(trimmed) {
			return "", fmt.Errorf("%w: contains disallowed content", ErrInvalidQuery)
		}
	}

	cleaned := extraSpace.ReplaceAllString(trimmed, " ")
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', '{', '}':
			return -1
		}
		return r
	}, cleaned)
	return cleaned, nil
}
