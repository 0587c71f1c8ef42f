package blog

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Sanitize makes server-supplied text safe to print to a terminal. Escape
// sequences and control characters other than newline and tab are dropped;
// everything else, angle brackets included, is kept as written.
func Sanitize(s string) string {
	if s == "" {
		return s
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\n' || r == '\t':
			return r
		case r < 0x20, r == 0x7f, r >= 0x80 && r < 0xa0:
			return -1
		}
		return r
	}, ansi.Strip(s))
}

// Sanitized returns a copy of b with every display field sanitized.
func (b Blog) Sanitized() Blog {
	out := b
	out.Title = Sanitize(b.Title)
	out.Description = Sanitize(b.Description)
	out.Content = Sanitize(b.Content)
	out.CoverImage = Sanitize(b.CoverImage)
	if len(b.Category) > 0 {
		out.Category = make([]string, len(b.Category))
		for i, c := range b.Category {
			out.Category[i] = Sanitize(c)
		}
	}
	return out
}
