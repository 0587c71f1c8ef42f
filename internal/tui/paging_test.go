package tui

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	t.Parallel()

	for n, want := range map[int]int{0: 0, 1: 1, 4: 1, 5: 1, 6: 2, 10: 2, 11: 3, 23: 5} {
		require.Equal(t, want, pageCount(n, 5), "n=%d", n)
	}
	require.Equal(t, 0, pageCount(3, 0))
}

func TestPageSliceShowsHalfOpenWindow(t *testing.T) {
	t.Parallel()

	items := make([]int, 12)
	for i := range items {
		items[i] = i
	}
	for k := 1; k <= pageCount(len(items), 5); k++ {
		got := pageSlice(items, k, 5)
		start, end := 5*(k-1), 5*k
		if end > len(items) {
			end = len(items)
		}
		require.Equal(t, items[start:end], got, "page %d", k)
	}
	require.Equal(t, []int{10, 11}, pageSlice(items, 3, 5))
	require.Empty(t, pageSlice(items, 4, 5))
	require.Empty(t, pageSlice(items, 0, 5))
	require.Empty(t, pageSlice([]int{}, 1, 5))
}

func TestClampPage(t *testing.T) {
	t.Parallel()

	require.Equal(t, 1, clampPage(1, 0))
	require.Equal(t, 2, clampPage(5, 2))
	require.Equal(t, 1, clampPage(0, 3))
	require.Equal(t, 3, clampPage(3, 3))
}
