package render

import (
	"strings"
	"unicode"

	"github.com/charmbracelet/x/ansi"
)

// Literal prepares backend text for drawing.
// Escape sequences are removed and other control characters dropped, except
// newlines and tabs, so the text can never drive the terminal.
func Literal(s string) string {
	s = ansi.Strip(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, s)
}

// LiteralAll applies Literal to every element
func LiteralAll(items []string) []string {
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = Literal(s)
	}
	return out
}
