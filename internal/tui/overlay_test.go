package tui

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOverlayCenteredSplicesCardIntoBase(t *testing.T) {
	t.Parallel()

	base := strings.Repeat(strings.Repeat(".", 10)+"\n", 4) + strings.Repeat(".", 10)
	out := overlayCentered(base, "ab\ncd", 10, 5)
	require.Equal(t, []string{
		"..........",
		"....ab....",
		"....cd....",
		"..........",
		"..........",
	}, strings.Split(out, "\n"))

	// Short bases are padded out to the full canvas.
	out = overlayCentered("x", "#", 3, 3)
	require.Equal(t, []string{"x  ", " # ", "   "}, strings.Split(out, "\n"))
}
