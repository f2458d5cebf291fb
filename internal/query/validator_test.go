package query

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"whitespace only", "   "},
		{"single char", "x"},
		{"too long", strings.Repeat("a", 501)},
		{"script tag", `hello <script>alert(1)</script>`},
		{"javascript scheme", "javascript:alert(1)"},
		{"data scheme", "click data:text/html;base64,xxx"},
		{"vbscript scheme", "vbscript:msgbox"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Validate(tt.text); !errors.Is(err, ErrInvalidQuery) {
				t.Errorf("Validate(%q) error = %v, want ErrInvalidQuery", tt.text, err)
			}
		})
	}
}

func TestValidateCleans(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"  where   to eat  ", "where to eat"},
		{"what does {macha} mean", "what does macha mean"},
		{"tell me <now>", "tell me now"},
		{"plain question", "plain question"},
	}
	for _, tt := range tests {
		got, err := Validate(tt.in)
		if err != nil {
			t.Errorf("Validate(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Validate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
